// File: cmd/connmon/serve.go
// Package main
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// serve: run the monitored websocket endpoint until interrupted.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/momentics/hioload-collator/facade"
	"github.com/momentics/hioload-collator/internal/logger"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the websocket endpoint until interrupted",
		RunE:  runServe,
	}
	cmd.Flags().String("listen", "", "listen address (overrides config)")
	cmd.Flags().Bool("echo", false, "echo inbound messages")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("listen"); addr != "" {
		cfg.ListenAddr = addr
	}
	if echo, _ := cmd.Flags().GetBool("echo"); echo {
		cfg.Echo = true
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat).WithComponent("connmon")

	m, err := facade.New(cfg, facade.WithLogger(log.Logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := m.Start(ctx); err != nil {
		return err
	}
	log.Info("serving", "url", m.URL(), "version", version)

	errc := make(chan error, 1)
	go func() { errc <- m.Wait() }()

	select {
	case <-ctx.Done():
		log.Info("shutting down", "connections", len(m.Connections()))
		return m.Shutdown()
	case err := <-errc:
		// The worker stopped on its own: the event channel broke.
		_ = m.Shutdown()
		return err
	}
}
