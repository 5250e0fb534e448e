package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/lingbench/internal/corpus"
)

type buildOptions struct {
	input  string
	output string
}

func newBuildCmd(st *cliState) *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the JSONL question corpus from the master TSV",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "master TSV file (default <data_dir>/master_corpus.tsv)")
	cmd.Flags().StringVar(&opts.output, "output", "", "output JSONL file (default <data_dir>/"+masterCorpusName+")")

	return cmd
}

func runBuild(cmd *cobra.Command, st *cliState, opts *buildOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("build: missing config (internal error)")
	}

	input := strings.TrimSpace(opts.input)
	if input == "" {
		input = filepath.Join(st.cfg.Paths.DataDir, "master_corpus.tsv")
	}
	output := strings.TrimSpace(opts.output)
	if output == "" {
		output = masterCorpusPath(st.cfg)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	count, err := corpus.BuildFromTSV(input, output)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions to %s\n", count, output)
	return nil
}
