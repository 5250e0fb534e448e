package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/lingbench/internal/corpus"
	"github.com/stellarlinkco/lingbench/internal/results"
	"github.com/stellarlinkco/lingbench/internal/scorer"
	"github.com/stellarlinkco/lingbench/internal/store"
)

type scoreOptions struct {
	input string
}

func newScoreCmd(st *cliState) *cobra.Command {
	var opts scoreOptions

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score the latest raw results file",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "raw results file (default: latest in results dir)")

	return cmd
}

func runScore(cmd *cobra.Command, st *cliState, opts *scoreOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("score: missing config (internal error)")
	}

	rawPath := opts.input
	if rawPath == "" {
		latest, err := results.LatestFile(st.cfg.Paths.ResultsDir, "raw_results_*.jsonl")
		if err != nil {
			return fmt.Errorf("score: no raw results found; run experiments first: %w", err)
		}
		rawPath = latest
	}

	read, err := results.ReadJSONL(rawPath)
	if err != nil {
		return err
	}
	if read.SkippedLines > 0 {
		fmt.Fprintf(stderrWriter, "Warning: skipped %d corrupt result lines\n", read.SkippedLines)
	}
	if len(read.Records) == 0 {
		return fmt.Errorf("score: %s holds no records", rawPath)
	}

	loaded, err := corpus.LoadFromFile(masterCorpusPath(st.cfg))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sc := scorer.New(scorer.FromConfig(st.cfg.Scoring), newMeasure(st.cfg))
	rows := sc.ScoreAll(ctx, read.Records, loaded.Questions, st.cfg.Scoring.Concurrency)

	now := time.Now()
	outPath := filepath.Join(st.cfg.Paths.ResultsDir, results.ScoredResultsName(now))
	if err := results.WriteScoredCSV(outPath, rows); err != nil {
		return err
	}

	run := newRunRecord(now, rawPath, rows)
	stor, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer stor.Close()
	if err := stor.SaveRun(ctx, run, rows); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scored %d responses -> %s\n", len(rows), outPath)
	fmt.Fprintf(out, "Run %s saved (avg score %.3f)\n", run.ID, run.AvgScore)
	printCategoryCounts(out, run.CategoryCounts)
	return nil
}

func newRunRecord(now time.Time, sourceFile string, rows []results.ScoredRow) *store.RunRecord {
	counts := make(map[string]int)
	var sum float64
	for _, row := range rows {
		counts[row.ScoreCategory]++
		sum += row.Score
	}
	avg := 0.0
	if len(rows) > 0 {
		avg = sum / float64(len(rows))
	}
	return &store.RunRecord{
		ID:             "run_" + results.Timestamp(now),
		CreatedAt:      now.UTC(),
		SourceFile:     filepath.Base(sourceFile),
		TotalRows:      len(rows),
		AvgScore:       avg,
		CategoryCounts: counts,
	}
}
