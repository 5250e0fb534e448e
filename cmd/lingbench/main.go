package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/lingbench/internal/config"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "lingbench",
		Short:         "Benchmark multilingual LLM accuracy",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")

	root.AddCommand(newBuildCmd(st))
	root.AddCommand(newTranslateCmd(st))
	root.AddCommand(newRunCmd(st))
	root.AddCommand(newScoreCmd(st))
	root.AddCommand(newAnalyseCmd(st))
	root.AddCommand(newHistoryCmd(st))
	root.AddCommand(newServeCmd(st))
	return root
}

// loadState resolves the config once per command invocation. A missing file
// at the default path falls back to built-in defaults so the pipeline works
// out of the box against a local Ollama.
func loadState(st *cliState) error {
	if st == nil {
		return fmt.Errorf("lingbench: nil state")
	}
	cfg, err := config.Load(st.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && st.configPath == config.DefaultPath {
			st.cfg = config.Default()
			return nil
		}
		return err
	}
	st.cfg = cfg
	return nil
}
