package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stellarlinkco/lingbench/internal/results"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	want := []string{"build", "translate", "run", "score", "analyse", "history", "serve"}

	have := make(map[string]bool)
	for _, c := range root.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Fatalf("missing subcommand %q", name)
		}
	}

	if root.PersistentFlags().Lookup("config") == nil {
		t.Fatalf("missing --config flag")
	}
}

func TestPrintCategoryCounts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printCategoryCounts(&buf, map[string]int{
		"Incorrect": 1,
		"Correct":   4,
	})

	out := buf.String()
	if !strings.Contains(out, "CATEGORY") {
		t.Fatalf("missing header: %q", out)
	}
	// Sorted output, Correct before Incorrect.
	if strings.Index(out, "Correct") > strings.Index(out, "Incorrect") {
		t.Fatalf("not sorted: %q", out)
	}

	buf.Reset()
	printCategoryCounts(&buf, nil)
	if buf.Len() != 0 {
		t.Fatalf("empty counts should print nothing, got %q", buf.String())
	}
}

func TestNewRunRecord(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	rows := []results.ScoredRow{
		{Score: 1, ScoreCategory: "Correct"},
		{Score: 1, ScoreCategory: "Correct"},
		{Score: -1, ScoreCategory: "Incorrect"},
		{Score: 0.25, ScoreCategory: "IDK"},
	}

	run := newRunRecord(now, "/tmp/raw_results_x.jsonl", rows)
	if run.ID != "run_20250314_092653" {
		t.Fatalf("ID: got %q", run.ID)
	}
	if run.SourceFile != "raw_results_x.jsonl" {
		t.Fatalf("SourceFile: got %q", run.SourceFile)
	}
	if run.TotalRows != 4 {
		t.Fatalf("TotalRows: got %d", run.TotalRows)
	}
	if want := (1 + 1 - 1 + 0.25) / 4; run.AvgScore != want {
		t.Fatalf("AvgScore: got %v want %v", run.AvgScore, want)
	}
	if run.CategoryCounts["Correct"] != 2 || run.CategoryCounts["IDK"] != 1 {
		t.Fatalf("CategoryCounts: got %v", run.CategoryCounts)
	}
}
