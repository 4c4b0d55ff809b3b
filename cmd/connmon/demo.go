// File: cmd/connmon/demo.go
// Package main
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// demo: server and client endpoints, each observed by its own worker.

package main

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/collator"
	"github.com/momentics/hioload-collator/control"
	"github.com/momentics/hioload-collator/endpoint/wsendpoint"
	"github.com/momentics/hioload-collator/internal/logger"
	"github.com/momentics/hioload-collator/monitor"
)

func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a server and a client endpoint, each with its own monitor",
		RunE:  runDemo,
	}
	cmd.Flags().Int("clients", 0, "client connections (overrides config)")
	cmd.Flags().Int("messages", 0, "messages per client (overrides config)")
	cmd.Flags().Duration("timeout", 30*time.Second, "overall deadline")
	return cmd
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("clients"); n > 0 {
		cfg.DemoClients = n
	}
	if n, _ := cmd.Flags().GetInt("messages"); n > 0 {
		cfg.DemoMessages = n
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	log := logger.New(cfg.LogLevel, cfg.LogFormat).WithComponent("demo")

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var server *wsendpoint.Endpoint
	server = wsendpoint.New(
		wsendpoint.WithOutboundQueue(cfg.OutboundQueue),
		wsendpoint.WithLogger(log.Logger),
		wsendpoint.WithMessageHandler(func(id api.ConnectionID, msg []byte) {
			_ = server.Send(id, msg)
		}),
	)
	var echoed atomic.Int64
	client := wsendpoint.New(
		wsendpoint.WithOutboundQueue(cfg.OutboundQueue),
		wsendpoint.WithLogger(log.Logger),
		wsendpoint.WithMessageHandler(func(api.ConnectionID, []byte) { echoed.Add(1) }),
	)

	metrics := control.NewMetricsRegistry()
	group := monitor.NewGroup(ctx)
	defer func() {
		_ = client.Close()
		_ = server.Close()
		group.Stop()
		_ = group.Wait()
	}()
	workers := make(map[string]*monitor.Worker, 2)
	for name, ep := range map[string]api.Endpoint{"server": server, "client": client} {
		col, err := collator.New(ep,
			collator.WithName(name),
			collator.WithLogger(log.Logger),
			collator.WithMetrics(metrics))
		if err != nil {
			return err
		}
		w := monitor.NewWorker(col,
			monitor.WithName(name),
			monitor.WithLogger(log.Logger),
			monitor.WithBackoff(cfg.MinBackoff, cfg.MaxBackoff),
			monitor.WithSnapshotLogRate(cfg.SnapshotLogRate),
			monitor.WithMetrics(metrics))
		workers[name] = w
		group.Go(w)
	}

	if err := server.Listen("127.0.0.1:0"); err != nil {
		return err
	}

	ids := make([]api.ConnectionID, cfg.DemoClients)
	for i := range ids {
		id, err := client.Dial(ctx, server.URL())
		if err != nil {
			return err
		}
		ids[i] = id
	}

	var eg errgroup.Group
	for _, id := range ids {
		id := id
		eg.Go(func() error {
			for m := 0; m < cfg.DemoMessages; m++ {
				msg := fmt.Sprintf("conn %d msg %d", id, m)
				for {
					err := client.Send(id, []byte(msg))
					if err == nil {
						break
					}
					if err != wsendpoint.ErrQueueFull {
						return err
					}
					time.Sleep(time.Millisecond)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	want := int64(cfg.DemoClients * cfg.DemoMessages)
	if err := until(ctx, func() bool { return echoed.Load() >= want }); err != nil {
		return fmt.Errorf("demo: %d of %d echoes: %w", echoed.Load(), want, err)
	}
	out := cmd.OutOrStdout()
	printSnapshot(out, "client (all connected)", workers["client"].Snapshot())

	for _, id := range ids {
		_ = client.CloseConn(id)
	}
	if err := until(ctx, func() bool { return allDisconnected(workers["server"].Snapshot(), len(ids)) }); err != nil {
		return fmt.Errorf("demo: server never saw every disconnect: %w", err)
	}
	printSnapshot(out, "server (after client close)", workers["server"].Snapshot())

	_ = client.Close()
	_ = server.Close()
	// Let both workers apply ClosedAll before stopping them.
	_ = until(ctx, func() bool {
		return workers["server"].Connections() == 0 && workers["client"].Connections() == 0
	})
	group.Stop()
	if err := group.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nechoed %d messages\n", echoed.Load())
	for _, name := range []string{"server", "client"} {
		fmt.Fprintf(out, "%s: %d events\n", name, workers[name].Events())
	}
	return nil
}

func until(ctx context.Context, cond func() bool) error {
	t := time.NewTicker(5 * time.Millisecond)
	defer t.Stop()
	for !cond() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

func allDisconnected(recs []api.ConnectionStatus, n int) bool {
	if len(recs) != n {
		return false
	}
	for _, r := range recs {
		if r.Connected {
			return false
		}
	}
	return true
}

func printSnapshot(w io.Writer, title string, recs []api.ConnectionStatus) {
	fmt.Fprintf(w, "\n%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tPENDING\tADDRESS")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.ID, r.State(), r.PendingMessages, r.Address.String())
	}
	_ = tw.Flush()
}
