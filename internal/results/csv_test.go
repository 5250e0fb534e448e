package results

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScoredCSVRoundTrip(t *testing.T) {
	t.Parallel()

	sim := 0.85
	rows := []ScoredRow{
		{
			QuestionID:      "q_001",
			ModelIdentifier: "llama3:8b",
			Language:        "EN",
			Domain:          "Factual Accuracy",
			Score:           1,
			ScoreCategory:   "Correct",
			PromptText:      "What year?",
		},
		{
			QuestionID:      "q_002",
			ModelIdentifier: "llama3:8b",
			Language:        "DE",
			Domain:          "Procedural Reasoning",
			Score:           0.5,
			ScoreCategory:   "CorrectProcess_IncorrectResult",
			Similarity:      &sim,
			PromptText:      "Ein Zug...",
		},
	}

	path := filepath.Join(t.TempDir(), "scored.csv")
	if err := WriteScoredCSV(path, rows); err != nil {
		t.Fatalf("WriteScoredCSV: %v", err)
	}

	got, err := ReadScoredCSV(path)
	if err != nil {
		t.Fatalf("ReadScoredCSV: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows: got %d want 2", len(got))
	}

	if got[0].Similarity != nil {
		t.Fatalf("row 0 similarity should be nil, got %v", *got[0].Similarity)
	}
	if got[1].Similarity == nil || *got[1].Similarity != sim {
		t.Fatalf("row 1 similarity: got %v want %v", got[1].Similarity, sim)
	}
	if got[1].Score != 0.5 || got[1].ScoreCategory != "CorrectProcess_IncorrectResult" {
		t.Fatalf("row 1: got %+v", got[1])
	}
	if got[0].Domain != "Factual Accuracy" || got[0].PromptText != "What year?" {
		t.Fatalf("row 0: got %+v", got[0])
	}
}

func TestReadScoredCSVMissingColumn(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("question_id,language\nq_001,EN\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadScoredCSV(path); err == nil {
		t.Fatalf("expected missing column error")
	}
}
