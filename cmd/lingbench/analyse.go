package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/lingbench/internal/analysis"
	"github.com/stellarlinkco/lingbench/internal/results"
)

type analyseOptions struct {
	input    string
	noCharts bool
}

func newAnalyseCmd(st *cliState) *cobra.Command {
	var opts analyseOptions

	cmd := &cobra.Command{
		Use:     "analyse",
		Aliases: []string{"analyze"},
		Short:   "Aggregate the latest scored results into summaries and charts",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyse(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "scored results CSV (default: latest in results dir)")
	cmd.Flags().BoolVar(&opts.noCharts, "no-charts", false, "skip PNG chart rendering")

	return cmd
}

func runAnalyse(cmd *cobra.Command, st *cliState, opts *analyseOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("analyse: missing config (internal error)")
	}

	path := opts.input
	if path == "" {
		latest, err := results.LatestFile(st.cfg.Paths.ResultsDir, "final_scored_results_*.csv")
		if err != nil {
			return fmt.Errorf("analyse: no scored results found; run score first: %w", err)
		}
		path = latest
	}

	rows, err := results.ReadScoredCSV(path)
	if err != nil {
		return err
	}

	languages := make([]string, 0, len(st.cfg.Experiment.Languages))
	for _, lang := range st.cfg.Experiment.Languages {
		languages = append(languages, strings.ToUpper(strings.TrimSpace(lang)))
	}

	report, err := analysis.Aggregate(rows, languages)
	if err != nil {
		return err
	}

	outDir := st.cfg.Paths.AnalysisDir
	written, err := report.WriteSummaries(outDir)
	if err != nil {
		return err
	}
	if !opts.noCharts {
		charts, err := report.WriteCharts(outDir)
		if err != nil {
			return err
		}
		written = append(written, charts...)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Analysed %d rows from %s\n", report.TotalRows, path)
	for _, f := range written {
		fmt.Fprintf(out, "  %s\n", f)
	}
	return nil
}
