package collator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/channel"
	"github.com/momentics/hioload-collator/collator"
)

func TestCollatorOverEmitter(t *testing.T) {
	em := channel.NewEmitter(channel.WithCapacity(64))
	c, err := collator.New(em, collator.WithName("emitter"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	em.Accepted(1, "tcp://127.0.0.1:5560")
	em.QueueDepth(1, 12)
	em.Connected(2, "tcp://127.0.0.1:5561")

	if w := c.ReadyWaiter(); w != nil {
		if ready, err := w.WaitReady(time.Second); !ready || err != nil {
			t.Fatalf("WaitReady=%v, %v", ready, err)
		}
	}
	n, err := c.Process()
	if n != 3 || err != nil {
		t.Fatalf("Process=%d, %v", n, err)
	}
	st, _ := c.Status(1)
	if st.PendingMessages != 12 || st.Address.String() != "tcp://127.0.0.1:5560" {
		t.Fatalf("unexpected record %+v", st)
	}

	em.Shutdown()
	if _, err := c.Process(); err != nil {
		t.Fatal(err)
	}
	if c.ConnectionCount() != 0 {
		t.Fatalf("ConnectionCount after shutdown=%d", c.ConnectionCount())
	}
}

func TestCollatorOverflowFailure(t *testing.T) {
	em := channel.NewEmitter(channel.WithCapacity(2))
	c, err := collator.New(em)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		em.Accepted(api.ConnectionID(i), "peer")
	}
	n, err := c.Process()
	if !errors.Is(err, api.ErrChannelOverflow) || !errors.Is(err, api.ErrChannelFailure) {
		t.Fatalf("Process=%v", err)
	}
	if n != 2 || c.ConnectionCount() != 2 {
		t.Fatalf("applied=%d count=%d, want buffered events applied", n, c.ConnectionCount())
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if em.Subscribers() != 0 {
		t.Fatalf("Subscribers=%d", em.Subscribers())
	}
}

func TestCollatorsAreIndependent(t *testing.T) {
	em := channel.NewEmitter()
	a, err := collator.New(em, collator.WithName("a"))
	if err != nil {
		t.Fatal(err)
	}
	em.Accepted(1, "x")
	b, err := collator.New(em, collator.WithName("b"))
	if err != nil {
		t.Fatal(err)
	}
	em.Accepted(2, "y")

	if n, _ := a.Process(); n != 2 {
		t.Fatalf("a processed %d", n)
	}
	if n, _ := b.Process(); n != 1 {
		t.Fatalf("b processed %d", n)
	}
	_ = a.Close()
	em.Disconnected(2)
	if n, _ := b.Process(); n != 1 {
		t.Fatalf("b processed %d after a closed", n)
	}
	_ = b.Close()
}
