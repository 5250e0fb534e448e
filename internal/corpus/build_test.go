package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const buildHeader = "question_id\tdomain\tquestion_text_english\tanswer_format_regex\tgold_standard_reasoning"

func writeTSV(t *testing.T, rows ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "master.tsv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write tsv: %v", err)
	}
	return path
}

func TestBuildFromTSV(t *testing.T) {
	t.Parallel()

	tsv := writeTSV(t,
		buildHeader,
		"q_001\tFactual Accuracy\tWhat year did Apollo 11 land?\t1969\t",
		"q_002\tProcedural Reasoning\tA train leaves at noon...\t180\tdistance over speed",
	)
	out := filepath.Join(t.TempDir(), "questions.jsonl")

	n, err := BuildFromTSV(tsv, out)
	if err != nil {
		t.Fatalf("BuildFromTSV: %v", err)
	}
	if n != 2 {
		t.Fatalf("count: got %d want 2", n)
	}

	loaded, err := LoadFromFile(out)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	q := loaded.Questions.Get("q_002")
	if q == nil {
		t.Fatalf("q_002 missing")
	}
	if q.GoldStandardReasoning != "distance over speed" {
		t.Fatalf("gold reasoning: got %q", q.GoldStandardReasoning)
	}
	if q.Text != "" {
		t.Fatalf("translated text should be empty, got %q", q.Text)
	}
}

func TestBuildFromTSVMissingColumn(t *testing.T) {
	t.Parallel()

	tsv := writeTSV(t,
		"question_id\tdomain\tquestion_text_english",
		"q_001\tFactual Accuracy\tsomething",
	)
	out := filepath.Join(t.TempDir(), "questions.jsonl")

	if _, err := BuildFromTSV(tsv, out); err == nil || !strings.Contains(err.Error(), "answer_format_regex") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestBuildFromTSVDuplicateID(t *testing.T) {
	t.Parallel()

	tsv := writeTSV(t,
		buildHeader,
		"q_001\tFactual Accuracy\tfirst\ta\t",
		"q_001\tFactual Accuracy\tsecond\tb\t",
	)
	out := filepath.Join(t.TempDir(), "questions.jsonl")

	if _, err := BuildFromTSV(tsv, out); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestBuildFromTSVInvalidRow(t *testing.T) {
	t.Parallel()

	tsv := writeTSV(t,
		buildHeader,
		"q_001\tTrivia\tquestion\ta\t",
	)
	out := filepath.Join(t.TempDir(), "questions.jsonl")

	if _, err := BuildFromTSV(tsv, out); err == nil {
		t.Fatalf("expected validation error")
	}
}
