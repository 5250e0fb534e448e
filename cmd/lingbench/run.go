package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/lingbench/internal/corpus"
	"github.com/stellarlinkco/lingbench/internal/llm"
	"github.com/stellarlinkco/lingbench/internal/results"
	"github.com/stellarlinkco/lingbench/internal/runner"
)

type runOptions struct {
	models      []string
	concurrency int
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sweep every model over every question in every language",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiments(cmd, st, &opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.models, "model", nil, "model identifiers to test (default from config)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "parallel requests (overrides config)")

	return cmd
}

func runExperiments(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}

	models := opts.models
	if len(models) == 0 {
		models = st.cfg.Experiment.Models
	}
	if len(models) == 0 {
		return fmt.Errorf("run: no models configured")
	}

	concurrency := st.cfg.Experiment.Concurrency
	if opts.concurrency > 0 {
		concurrency = opts.concurrency
	}

	corpora, langOrder, err := resolveCorpora(st)
	if err != nil {
		return err
	}
	if len(corpora) == 0 {
		return fmt.Errorf("run: no corpora found; run build (and translate) first")
	}

	provider, err := llm.DefaultProviderFromConfig(st.cfg)
	if err != nil {
		return err
	}

	outDir := st.cfg.Paths.ResultsDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	outPath := filepath.Join(outDir, results.RawResultsName(time.Now()))
	w, err := results.NewWriter(outPath)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	r := runner.New(provider, runner.Config{
		Models:      models,
		Concurrency: concurrency,
		Timeout:     st.cfg.Experiment.Timeout,
	})
	summary, err := r.Run(ctx, corpora, langOrder, w)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Completed %d requests (%d errored) in %s\n",
		summary.Total, summary.Errored, summary.Duration.Round(time.Second))
	fmt.Fprintf(out, "Raw results: %s\n", outPath)
	return nil
}

// resolveCorpora locates the newest corpus file for each configured
// language. The English master is read from the data dir; translated
// languages use the latest gated output. Languages with no corpus on disk
// are skipped with a warning rather than aborting the sweep.
func resolveCorpora(st *cliState) (map[string][]*corpus.Question, []string, error) {
	corpora := make(map[string][]*corpus.Question)
	var langOrder []string

	for _, lang := range st.cfg.Experiment.Languages {
		lang = strings.ToUpper(strings.TrimSpace(lang))
		if lang == "" {
			continue
		}

		var path string
		if lang == "EN" {
			path = masterCorpusPath(st.cfg)
		} else {
			pattern := fmt.Sprintf("questions_%s_*.jsonl", strings.ToLower(lang))
			latest, err := results.LatestFile(st.cfg.Paths.TranslationsDir, pattern)
			if err != nil {
				fmt.Fprintf(stderrWriter, "Warning: no corpus for %s, skipping: %v\n", lang, err)
				continue
			}
			path = latest
		}

		loaded, err := corpus.LoadFromFile(path)
		if err != nil {
			return nil, nil, err
		}
		if loaded.SkippedLines > 0 {
			fmt.Fprintf(stderrWriter, "Warning: skipped %d corrupt lines in %s\n", loaded.SkippedLines, path)
		}

		questions := make([]*corpus.Question, 0, len(loaded.Order))
		for _, id := range loaded.Order {
			questions = append(questions, loaded.Questions.Get(id))
		}
		corpora[lang] = questions
		langOrder = append(langOrder, lang)
	}

	return corpora, langOrder, nil
}
