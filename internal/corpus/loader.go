package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// LoadResult reports what the loader accepted and what it skipped.
type LoadResult struct {
	Questions    Lookup
	Order        []string // IDs in file order
	SkippedLines int      // corrupted JSONL lines
}

// LoadFromFile reads a JSONL question corpus into a validated lookup.
// Corrupted lines are skipped and counted rather than failing the load;
// structurally invalid records fail the load so bad data never reaches
// the scorer.
func LoadFromFile(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %q: %w", path, err)
	}
	defer f.Close()

	out := &LoadResult{Questions: make(Lookup)}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var q Question
		if err := json.Unmarshal([]byte(line), &q); err != nil {
			out.SkippedLines++
			continue
		}
		if err := validate(&q); err != nil {
			return nil, fmt.Errorf("corpus: %q line %d: %w", path, lineNum, err)
		}
		if _, ok := out.Questions[q.ID]; ok {
			return nil, fmt.Errorf("corpus: %q line %d: duplicate question id %q", path, lineNum, q.ID)
		}

		qc := q
		out.Questions[q.ID] = &qc
		out.Order = append(out.Order, q.ID)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: read %q: %w", path, err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("corpus: %q: no questions", path)
	}
	return out, nil
}

func validate(q *Question) error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("missing question_id")
	}
	switch q.Domain {
	case DomainFactual, DomainProcedural:
	case "":
		return fmt.Errorf("question %q: missing domain", q.ID)
	default:
		return fmt.Errorf("question %q: unknown domain %q", q.ID, q.Domain)
	}
	if strings.TrimSpace(q.PromptText()) == "" {
		return fmt.Errorf("question %q: missing question text", q.ID)
	}
	if strings.TrimSpace(q.AnswerFormatRegex) == "" {
		return fmt.Errorf("question %q: missing answer_format_regex", q.ID)
	}
	if _, err := regexp.Compile(q.AnswerFormatRegex); err != nil {
		return fmt.Errorf("question %q: answer_format_regex: %v", q.ID, err)
	}
	return nil
}
