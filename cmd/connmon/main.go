// File: cmd/connmon/main.go
// Package main provides the connmon binary: a websocket endpoint whose
// connection lifecycle is collated and reported.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "connmon",
		Short: "connmon - websocket connection monitor",
		Long: `connmon serves a websocket endpoint and keeps a live table of its
connections built from the endpoint's lifecycle events.

Examples:
  connmon serve --config connmon.yaml    # Serve and log connection snapshots
  connmon demo --clients 8 --messages 32  # Server and client endpoints talking
  connmon version`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(serveCmd(), demoCmd(), versionCmd())
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "connmon %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
