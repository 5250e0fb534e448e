package corpus

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BuildFromTSV converts the human-editable master TSV corpus into the
// machine-readable JSONL corpus. Empty optional fields are omitted from the
// output records. Returns the number of questions written.
func BuildFromTSV(tsvPath, jsonlPath string) (int, error) {
	f, err := os.Open(tsvPath)
	if err != nil {
		return 0, fmt.Errorf("corpus: open %q: %w", tsvPath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("corpus: read %q: %w", tsvPath, err)
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("corpus: %q: no data rows", tsvPath)
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"question_id", "domain", "question_text_english", "answer_format_regex"} {
		if _, ok := col[required]; !ok {
			return 0, fmt.Errorf("corpus: %q: missing column %q", tsvPath, required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	questions := make([]*Question, 0, len(rows)-1)
	seen := make(map[string]struct{}, len(rows)-1)
	for n, row := range rows[1:] {
		q := &Question{
			ID:                    field(row, "question_id"),
			Domain:                field(row, "domain"),
			TextEnglish:           field(row, "question_text_english"),
			AnswerFormatRegex:     field(row, "answer_format_regex"),
			GoldStandardReasoning: field(row, "gold_standard_reasoning"),
		}
		if err := validate(q); err != nil {
			return 0, fmt.Errorf("corpus: %q row %d: %w", tsvPath, n+2, err)
		}
		if _, ok := seen[q.ID]; ok {
			return 0, fmt.Errorf("corpus: %q row %d: duplicate question id %q", tsvPath, n+2, q.ID)
		}
		seen[q.ID] = struct{}{}
		questions = append(questions, q)
	}

	if err := WriteJSONL(jsonlPath, questions); err != nil {
		return 0, err
	}
	return len(questions), nil
}

// WriteJSONL writes questions to a JSONL file, one record per line.
func WriteJSONL(path string, questions []*Question) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("corpus: create dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("corpus: create %q: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, q := range questions {
		if q == nil {
			continue
		}
		if err := enc.Encode(q); err != nil {
			return fmt.Errorf("corpus: write %q: %w", path, err)
		}
	}
	return nil
}
