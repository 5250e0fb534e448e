package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var scoredHeader = []string{
	"question_id", "model_identifier", "language", "domain",
	"score", "score_category", "reasoning_similarity", "prompt_text",
}

// WriteScoredCSV writes scored rows to a CSV file in input order.
func WriteScoredCSV(path string, rows []ScoredRow) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("results: create dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("results: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(scoredHeader); err != nil {
		return fmt.Errorf("results: write header: %w", err)
	}
	for i := range rows {
		r := &rows[i]
		sim := ""
		if r.Similarity != nil {
			sim = strconv.FormatFloat(*r.Similarity, 'f', -1, 64)
		}
		record := []string{
			r.QuestionID, r.ModelIdentifier, r.Language, r.Domain,
			strconv.FormatFloat(r.Score, 'f', -1, 64), r.ScoreCategory, sim, r.PromptText,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("results: write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("results: flush %q: %w", path, err)
	}
	return nil
}

// ReadScoredCSV reads a scored CSV produced by WriteScoredCSV.
func ReadScoredCSV(path string) ([]ScoredRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("results: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("results: read %q: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("results: %q: empty file", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"question_id", "model_identifier", "language", "score", "score_category"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("results: %q: missing column %q", path, required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	rows := make([]ScoredRow, 0, len(records)-1)
	for n, rec := range records[1:] {
		score, err := strconv.ParseFloat(field(rec, "score"), 64)
		if err != nil {
			return nil, fmt.Errorf("results: %q row %d: score: %w", path, n+2, err)
		}
		row := ScoredRow{
			QuestionID:      field(rec, "question_id"),
			ModelIdentifier: field(rec, "model_identifier"),
			Language:        field(rec, "language"),
			Domain:          field(rec, "domain"),
			Score:           score,
			ScoreCategory:   field(rec, "score_category"),
			PromptText:      field(rec, "prompt_text"),
		}
		if s := strings.TrimSpace(field(rec, "reasoning_similarity")); s != "" {
			sim, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("results: %q row %d: reasoning_similarity: %w", path, n+2, err)
			}
			row.Similarity = &sim
		}
		rows = append(rows, row)
	}
	return rows, nil
}
