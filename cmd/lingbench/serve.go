package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/lingbench/api"
	"github.com/stellarlinkco/lingbench/internal/store"
)

func newServeCmd(st *cliState) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring run store over HTTP",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, st, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

func runServe(cmd *cobra.Command, st *cliState, addr string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("serve: missing config (internal error)")
	}

	stor, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer stor.Close()

	srv, err := api.NewServer(st.cfg, stor)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
	return srv.Run(addr)
}
