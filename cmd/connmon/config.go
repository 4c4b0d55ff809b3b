// File: cmd/connmon/config.go
// Package main
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Configuration loading shared by the subcommands.

package main

import (
	"github.com/spf13/cobra"

	"github.com/momentics/hioload-collator/facade"
)

// loadConfig reads --config and applies --verbose.
func loadConfig(cmd *cobra.Command) (*facade.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := facade.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
