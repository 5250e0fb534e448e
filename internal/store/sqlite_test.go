package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stellarlinkco/lingbench/internal/config"
	"github.com/stellarlinkco/lingbench/internal/results"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "store.db")
	st, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testRun(id string, created time.Time) *RunRecord {
	return &RunRecord{
		ID:         id,
		CreatedAt:  created,
		SourceFile: "raw_results_20250314_092653.jsonl",
		TotalRows:  3,
		AvgScore:   0.25,
		CategoryCounts: map[string]int{
			"Correct":   2,
			"Incorrect": 1,
		},
	}
}

func testRows() []results.ScoredRow {
	sim := 0.85
	return []results.ScoredRow{
		{QuestionID: "q_001", ModelIdentifier: "llama3:8b", Language: "EN", Domain: "Factual Accuracy", Score: 1, ScoreCategory: "Correct"},
		{QuestionID: "q_002", ModelIdentifier: "llama3:8b", Language: "EN", Domain: "Procedural Reasoning", Score: 1, ScoreCategory: "Correct", Similarity: &sim},
		{QuestionID: "q_001", ModelIdentifier: "llama3:8b", Language: "DE", Domain: "Factual Accuracy", Score: -1, ScoreCategory: "Incorrect"},
	}
}

func TestSQLiteStoreSaveRunGetRun(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	created := time.Unix(1_700_000_000, 0).UTC()

	if err := st.SaveRun(ctx, testRun("run_1", created), testRows()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := st.GetRun(ctx, "run_1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.ID != "run_1" {
		t.Fatalf("ID: got %q", got.ID)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt: got %v want %v", got.CreatedAt, created)
	}
	if got.TotalRows != 3 || got.AvgScore != 0.25 {
		t.Fatalf("summary: got %+v", got)
	}
	if got.CategoryCounts["Correct"] != 2 || got.CategoryCounts["Incorrect"] != 1 {
		t.Fatalf("CategoryCounts: got %v", got.CategoryCounts)
	}
}

func TestSQLiteStoreGetRunMissing(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	if _, err := st.GetRun(context.Background(), "ghost"); err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestSQLiteStoreListRuns(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0).UTC()

	for i, id := range []string{"run_a", "run_b", "run_c"} {
		if err := st.SaveRun(ctx, testRun(id, base.Add(time.Duration(i)*time.Hour)), nil); err != nil {
			t.Fatalf("SaveRun %s: %v", id, err)
		}
	}

	runs, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs: got %d want 2", len(runs))
	}
	// Newest first.
	if runs[0].ID != "run_c" || runs[1].ID != "run_b" {
		t.Fatalf("order: got %q, %q", runs[0].ID, runs[1].ID)
	}

	all, err := st.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns default limit: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all runs: got %d want 3", len(all))
	}
}

func TestSQLiteStoreGetRunRows(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SaveRun(ctx, testRun("run_1", time.Now()), testRows()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	rows, err := st.GetRunRows(ctx, "run_1")
	if err != nil {
		t.Fatalf("GetRunRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d want 3", len(rows))
	}
	if rows[0].QuestionID != "q_001" || rows[0].Language != "EN" {
		t.Fatalf("row 0: got %+v", rows[0])
	}
	if rows[0].Similarity != nil {
		t.Fatalf("row 0 similarity should be nil")
	}
	if rows[1].Similarity == nil || *rows[1].Similarity != 0.85 {
		t.Fatalf("row 1 similarity: got %v", rows[1].Similarity)
	}
	if rows[2].Score != -1 || rows[2].ScoreCategory != "Incorrect" {
		t.Fatalf("row 2: got %+v", rows[2])
	}
}

func TestSQLiteStoreRejectsBadRuns(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SaveRun(ctx, nil, nil); err == nil {
		t.Fatalf("expected error for nil run")
	}
	if err := st.SaveRun(ctx, &RunRecord{}, nil); err == nil {
		t.Fatalf("expected error for missing run id")
	}

	if err := st.SaveRun(ctx, testRun("run_1", time.Now()), nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := st.SaveRun(ctx, testRun("run_1", time.Now()), nil); err == nil {
		t.Fatalf("expected error for duplicate run id")
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Storage.Type = "memory"
	st, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	defer st.Close()

	if err := st.SaveRun(context.Background(), testRun("run_1", time.Now()), nil); err != nil {
		t.Fatalf("SaveRun on memory store: %v", err)
	}

	cfg.Storage.Type = "postgres"
	if _, err := Open(cfg); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
