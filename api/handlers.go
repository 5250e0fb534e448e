package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/lingbench/internal/analysis"
	"github.com/stellarlinkco/lingbench/internal/results"
	"github.com/stellarlinkco/lingbench/internal/store"
)

type runView struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	SourceFile     string         `json:"source_file"`
	TotalRows      int            `json:"total_rows"`
	AvgScore       float64        `json:"avg_score"`
	CategoryCounts map[string]int `json:"category_counts"`
}

type scoredRowView struct {
	QuestionID      string   `json:"question_id"`
	ModelIdentifier string   `json:"model_identifier"`
	Language        string   `json:"language"`
	Domain          string   `json:"domain"`
	Score           float64  `json:"score"`
	ScoreCategory   string   `json:"score_category"`
	Similarity      *float64 `json:"reasoning_similarity,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	limit, err := parseLimitParam(c.Query("limit"), 20)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	runs, err := s.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		if run == nil {
			continue
		}
		views = append(views, newRunView(run))
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newRunView(run))
}

func (s *Server) handleGetRunResults(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}

	rows, err := s.store.GetRunRows(c.Request.Context(), run.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	model := strings.TrimSpace(c.Query("model"))
	language := strings.TrimSpace(c.Query("language"))
	views := make([]scoredRowView, 0, len(rows))
	for _, row := range rows {
		if model != "" && !strings.EqualFold(row.ModelIdentifier, model) {
			continue
		}
		if language != "" && !strings.EqualFold(row.Language, language) {
			continue
		}
		views = append(views, scoredRowView{
			QuestionID:      row.QuestionID,
			ModelIdentifier: row.ModelIdentifier,
			Language:        row.Language,
			Domain:          row.Domain,
			Score:           row.Score,
			ScoreCategory:   row.ScoreCategory,
			Similarity:      row.Similarity,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":  run.ID,
		"total":   len(views),
		"results": views,
	})
}

func (s *Server) handleGetRunSummary(c *gin.Context) {
	run, report, ok := s.lookupReport(c)
	if !ok {
		return
	}

	overall := make([]gin.H, 0, len(report.Overall))
	for _, m := range report.Overall {
		overall = append(overall, gin.H{
			"model":  m.Model,
			"scores": m.Scores,
			"drift":  m.Drift,
		})
	}
	domains := make([]gin.H, 0, len(report.Domains))
	for _, d := range report.Domains {
		domains = append(domains, gin.H{
			"model":  d.Model,
			"domain": d.Domain,
			"scores": d.Scores,
			"drift":  d.Drift,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":    run.ID,
		"languages": report.Languages,
		"overall":   overall,
		"domains":   domains,
	})
}

func (s *Server) handleGetRunCategories(c *gin.Context) {
	run, report, ok := s.lookupReport(c)
	if !ok {
		return
	}

	categories := make([]gin.H, 0, len(report.Categories))
	for _, row := range report.Categories {
		categories = append(categories, gin.H{
			"model":    row.Model,
			"language": row.Language,
			"percent":  row.Percent,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":     run.ID,
		"categories": categories,
	})
}

func (s *Server) lookupRun(c *gin.Context) (*store.RunRecord, bool) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return nil, false
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing run id"))
		return nil, false
	}

	run, err := s.store.GetRun(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err)
		return nil, false
	}
	return run, true
}

func (s *Server) lookupReport(c *gin.Context) (*store.RunRecord, *analysis.Report, bool) {
	run, ok := s.lookupRun(c)
	if !ok {
		return nil, nil, false
	}

	rows, err := s.store.GetRunRows(c.Request.Context(), run.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return nil, nil, false
	}

	report, err := analysis.Aggregate(rows, languagesIn(rows))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return nil, nil, false
	}
	return run, report, true
}

// languagesIn returns the distinct languages found in rows, baseline first.
func languagesIn(rows []results.ScoredRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		seen[row.Language] = struct{}{}
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		if lang == analysis.BaselineLanguage {
			continue
		}
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	if _, ok := seen[analysis.BaselineLanguage]; ok {
		langs = append([]string{analysis.BaselineLanguage}, langs...)
	}
	return langs
}

func newRunView(run *store.RunRecord) runView {
	return runView{
		ID:             run.ID,
		CreatedAt:      run.CreatedAt,
		SourceFile:     run.SourceFile,
		TotalRows:      run.TotalRows,
		AvgScore:       run.AvgScore,
		CategoryCounts: run.CategoryCounts,
	}
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseLimitParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errors.New("invalid limit parameter")
	}
	return limit, nil
}
