package monitor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/channel"
	"github.com/momentics/hioload-collator/collator"
	"github.com/momentics/hioload-collator/fake"
	"github.com/momentics/hioload-collator/monitor"
)

func TestGroupIndependentWorkers(t *testing.T) {
	push, pull := channel.NewEmitter(), channel.NewEmitter()
	cp, err := collator.New(push, collator.WithName("push"))
	if err != nil {
		t.Fatal(err)
	}
	cl, err := collator.New(pull, collator.WithName("pull"))
	if err != nil {
		t.Fatal(err)
	}

	g := monitor.NewGroup(context.Background())
	wp := monitor.NewWorker(cp, monitor.WithName("push"), monitor.WithSnapshotLogRate(0))
	wl := monitor.NewWorker(cl, monitor.WithName("pull"), monitor.WithSnapshotLogRate(0))
	g.Go(wp)
	g.Go(wl)
	if len(g.Workers()) != 2 {
		t.Fatalf("Workers=%d", len(g.Workers()))
	}

	push.Accepted(1, "tcp://127.0.0.1:5560")
	pull.Connected(1, "tcp://127.0.0.1:5560")
	pull.QueueDepth(1, 7)

	waitFor(t, "push event", func() bool { return wp.Events() == 1 })
	waitFor(t, "pull events", func() bool { return wl.Events() == 2 })
	if wp.Snapshot()[0].PendingMessages != 0 || wl.Snapshot()[0].PendingMessages != 7 {
		t.Fatal("workers share state")
	}

	g.Stop()
	if err := g.Wait(); err != nil {
		t.Fatalf("Wait=%v", err)
	}
}

func TestGroupReportsFailureWithoutStoppingOthers(t *testing.T) {
	boom := errors.New("broken")
	bad := fake.NewChannel(api.Connected(1, "a"))
	bad.FailAfter(0, boom)
	cb, err := collator.New(fake.NewEndpoint(bad), collator.WithName("bad"))
	if err != nil {
		t.Fatal(err)
	}
	good := channel.NewEmitter()
	cg, err := collator.New(good, collator.WithName("good"))
	if err != nil {
		t.Fatal(err)
	}

	g := monitor.NewGroup(context.Background())
	wb := monitor.NewWorker(cb, monitor.WithSnapshotLogRate(0))
	wg := monitor.NewWorker(cg, monitor.WithSnapshotLogRate(0))
	g.Go(wb)
	g.Go(wg)

	waitFor(t, "bad worker to stop", func() bool { return !wb.Running() && bad.Closed() })
	good.Accepted(5, "peer")
	waitFor(t, "good worker event", func() bool { return wg.Events() == 1 })

	time.AfterFunc(10*time.Millisecond, g.Stop)
	if err := g.Wait(); !errors.Is(err, boom) {
		t.Fatalf("Wait=%v", err)
	}
}
