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
	"github.com/stellarlinkco/lingbench/internal/translate"
)

type translateOptions struct {
	languages []string
}

func newTranslateCmd(st *cliState) *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Produce target-language corpora with a round-trip fidelity gate",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, st, &opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.languages, "lang", nil, "target language codes (default from config)")

	return cmd
}

func runTranslate(cmd *cobra.Command, st *cliState, opts *translateOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("translate: missing config (internal error)")
	}

	languages := opts.languages
	if len(languages) == 0 {
		languages = st.cfg.Translation.TargetLanguages
	}
	if len(languages) == 0 {
		return fmt.Errorf("translate: no target languages configured")
	}

	loaded, err := corpus.LoadFromFile(masterCorpusPath(st.cfg))
	if err != nil {
		return err
	}
	if loaded.SkippedLines > 0 {
		fmt.Fprintf(stderrWriter, "Warning: skipped %d corrupt corpus lines\n", loaded.SkippedLines)
	}
	questions := make([]*corpus.Question, 0, len(loaded.Order))
	for _, id := range loaded.Order {
		questions = append(questions, loaded.Questions.Get(id))
	}

	provider, err := llm.DefaultProviderFromConfig(st.cfg)
	if err != nil {
		return err
	}

	gate := &translate.Gate{
		Translator: &translate.LLMTranslator{Provider: provider},
		Measure:    newMeasure(st.cfg),
		Threshold:  st.cfg.Translation.SimilarityThreshold,
	}

	outDir := st.cfg.Paths.TranslationsDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	ts := results.Timestamp(time.Now())
	logPath := filepath.Join(outDir, fmt.Sprintf("translation_log_%s.txt", ts))
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	for _, lang := range languages {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" {
			continue
		}

		kept, verdicts, err := gate.TranslateCorpus(ctx, questions, lang)
		if err != nil {
			return err
		}

		for _, v := range verdicts {
			fmt.Fprintf(logFile, "[%s] %s: %s (similarity %.4f)\n", strings.ToUpper(lang), v.QuestionID, v.Status, v.Similarity)
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("questions_%s_%s.jsonl", lang, ts))
		if err := corpus.WriteJSONL(outPath, kept); err != nil {
			return err
		}

		fmt.Fprintf(out, "%s: %d/%d questions passed the gate -> %s\n",
			strings.ToUpper(lang), len(kept), len(questions), outPath)
	}

	fmt.Fprintf(out, "Gate log: %s\n", logPath)
	return nil
}
