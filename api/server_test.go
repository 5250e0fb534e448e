package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/lingbench/internal/config"
	"github.com/stellarlinkco/lingbench/internal/results"
	"github.com/stellarlinkco/lingbench/internal/store"
)

type fakeStore struct {
	SaveRunFunc    func(ctx context.Context, run *store.RunRecord, rows []results.ScoredRow) error
	GetRunFunc     func(ctx context.Context, id string) (*store.RunRecord, error)
	ListRunsFunc   func(ctx context.Context, limit int) ([]*store.RunRecord, error)
	GetRunRowsFunc func(ctx context.Context, runID string) ([]results.ScoredRow, error)
}

func (s *fakeStore) SaveRun(ctx context.Context, run *store.RunRecord, rows []results.ScoredRow) error {
	if s.SaveRunFunc != nil {
		return s.SaveRunFunc(ctx, run, rows)
	}
	return nil
}

func (s *fakeStore) GetRun(ctx context.Context, id string) (*store.RunRecord, error) {
	if s.GetRunFunc != nil {
		return s.GetRunFunc(ctx, id)
	}
	return nil, errors.New("not found")
}

func (s *fakeStore) ListRuns(ctx context.Context, limit int) ([]*store.RunRecord, error) {
	if s.ListRunsFunc != nil {
		return s.ListRunsFunc(ctx, limit)
	}
	return nil, nil
}

func (s *fakeStore) GetRunRows(ctx context.Context, runID string) ([]results.ScoredRow, error) {
	if s.GetRunRowsFunc != nil {
		return s.GetRunRowsFunc(ctx, runID)
	}
	return nil, nil
}

func (s *fakeStore) Close() error { return nil }

func newTestServer(t *testing.T, st store.Store) *Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("LINGBENCH_API_KEY", "")
	t.Setenv("LINGBENCH_DISABLE_AUTH", "true")

	srv, err := NewServer(config.Default(), st)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func doRequest(srv *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	return rec
}

func sampleRun() *store.RunRecord {
	return &store.RunRecord{
		ID:         "run_1",
		CreatedAt:  time.Unix(1_700_000_000, 0).UTC(),
		SourceFile: "raw_results_20250314_092653.jsonl",
		TotalRows:  2,
		AvgScore:   0.5,
		CategoryCounts: map[string]int{
			"Correct": 2,
		},
	}
}

func sampleRows() []results.ScoredRow {
	sim := 0.85
	return []results.ScoredRow{
		{QuestionID: "q_001", ModelIdentifier: "m1", Language: "EN", Domain: "Factual Accuracy", Score: 1, ScoreCategory: "Correct"},
		{QuestionID: "q_001", ModelIdentifier: "m1", Language: "DE", Domain: "Procedural Reasoning", Score: 1, ScoreCategory: "Correct", Similarity: &sim},
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := doRequest(srv, http.MethodGet, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body: got %v", body)
	}
}

func TestMissingAuthConfiguration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("LINGBENCH_API_KEY", "")
	t.Setenv("LINGBENCH_DISABLE_AUTH", "")

	if _, err := NewServer(config.Default(), &fakeStore{}); err == nil {
		t.Fatalf("expected auth configuration error")
	}
}

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("LINGBENCH_API_KEY", "secret")
	t.Setenv("LINGBENCH_DISABLE_AUTH", "")

	srv, err := NewServer(config.Default(), &fakeStore{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	rec := doRequest(srv, http.MethodGet, "/api/health")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("without key: got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-API-Key", "secret")
	okRec := httptest.NewRecorder()
	srv.router.ServeHTTP(okRec, req)
	if okRec.Code != http.StatusOK {
		t.Fatalf("with key: got %d", okRec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-API-Key", "wrong")
	badRec := httptest.NewRecorder()
	srv.router.ServeHTTP(badRec, req)
	if badRec.Code != http.StatusUnauthorized {
		t.Fatalf("with wrong key: got %d", badRec.Code)
	}
}

func TestListRuns(t *testing.T) {
	var gotLimit int
	srv := newTestServer(t, &fakeStore{
		ListRunsFunc: func(ctx context.Context, limit int) ([]*store.RunRecord, error) {
			gotLimit = limit
			return []*store.RunRecord{sampleRun()}, nil
		},
	})

	rec := doRequest(srv, http.MethodGet, "/api/runs?limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rec.Code, rec.Body)
	}
	if gotLimit != 5 {
		t.Fatalf("limit: got %d", gotLimit)
	}

	var body []runView
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0].ID != "run_1" || body[0].TotalRows != 2 {
		t.Fatalf("body: got %+v", body)
	}
}

func TestListRunsBadLimit(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := doRequest(srv, http.MethodGet, "/api/runs?limit=banana")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", rec.Code)
	}
}

func TestGetRun(t *testing.T) {
	srv := newTestServer(t, &fakeStore{
		GetRunFunc: func(ctx context.Context, id string) (*store.RunRecord, error) {
			if id != "run_1" {
				return nil, fmt.Errorf("run %q not found", id)
			}
			return sampleRun(), nil
		},
	})

	rec := doRequest(srv, http.MethodGet, "/api/runs/run_1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var body runView
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.AvgScore != 0.5 || body.CategoryCounts["Correct"] != 2 {
		t.Fatalf("body: got %+v", body)
	}

	rec = doRequest(srv, http.MethodGet, "/api/runs/ghost")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing run: got %d", rec.Code)
	}
}

func TestGetRunResults(t *testing.T) {
	srv := newTestServer(t, &fakeStore{
		GetRunFunc: func(ctx context.Context, id string) (*store.RunRecord, error) {
			return sampleRun(), nil
		},
		GetRunRowsFunc: func(ctx context.Context, runID string) ([]results.ScoredRow, error) {
			return sampleRows(), nil
		},
	})

	rec := doRequest(srv, http.MethodGet, "/api/runs/run_1/results")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var body struct {
		RunID   string          `json:"run_id"`
		Total   int             `json:"total"`
		Results []scoredRowView `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 2 || len(body.Results) != 2 {
		t.Fatalf("body: got %+v", body)
	}
	if body.Results[0].Similarity != nil {
		t.Fatalf("row 0 similarity should be omitted")
	}
	if body.Results[1].Similarity == nil || *body.Results[1].Similarity != 0.85 {
		t.Fatalf("row 1 similarity: got %v", body.Results[1].Similarity)
	}

	rec = doRequest(srv, http.MethodGet, "/api/runs/run_1/results?language=de")
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode filtered: %v", err)
	}
	if body.Total != 1 || body.Results[0].Language != "DE" {
		t.Fatalf("filtered body: got %+v", body)
	}
}

func TestGetRunSummary(t *testing.T) {
	srv := newTestServer(t, &fakeStore{
		GetRunFunc: func(ctx context.Context, id string) (*store.RunRecord, error) {
			return sampleRun(), nil
		},
		GetRunRowsFunc: func(ctx context.Context, runID string) ([]results.ScoredRow, error) {
			return sampleRows(), nil
		},
	})

	rec := doRequest(srv, http.MethodGet, "/api/runs/run_1/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rec.Code, rec.Body)
	}

	var body struct {
		RunID     string   `json:"run_id"`
		Languages []string `json:"languages"`
		Overall   []struct {
			Model  string             `json:"model"`
			Scores map[string]float64 `json:"scores"`
			Drift  map[string]float64 `json:"drift"`
		} `json:"overall"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Languages) != 2 || body.Languages[0] != "EN" {
		t.Fatalf("languages: got %v", body.Languages)
	}
	if len(body.Overall) != 1 || body.Overall[0].Scores["EN"] != 100 {
		t.Fatalf("overall: got %+v", body.Overall)
	}
	if body.Overall[0].Drift["DE"] != 0 {
		t.Fatalf("drift: got %v", body.Overall[0].Drift)
	}
}

func TestGetRunCategories(t *testing.T) {
	srv := newTestServer(t, &fakeStore{
		GetRunFunc: func(ctx context.Context, id string) (*store.RunRecord, error) {
			return sampleRun(), nil
		},
		GetRunRowsFunc: func(ctx context.Context, runID string) ([]results.ScoredRow, error) {
			return sampleRows(), nil
		},
	})

	rec := doRequest(srv, http.MethodGet, "/api/runs/run_1/categories")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rec.Code, rec.Body)
	}

	var body struct {
		Categories []struct {
			Model    string             `json:"model"`
			Language string             `json:"language"`
			Percent  map[string]float64 `json:"percent"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Categories) != 2 {
		t.Fatalf("categories: got %+v", body.Categories)
	}
	if body.Categories[0].Percent["Correct"] != 100 {
		t.Fatalf("percent: got %v", body.Categories[0].Percent)
	}
}
