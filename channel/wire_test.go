package channel_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/channel"
)

func TestWireRecordSize(t *testing.T) {
	rec := channel.EncodeEvent(api.Accepted(1, "tcp://127.0.0.1:5560"))
	if len(rec) != channel.EventRecordSize {
		t.Fatalf("record size=%d, want %d", len(rec), channel.EventRecordSize)
	}
}

func TestWireCodec(t *testing.T) {
	events := []api.Event{
		api.Connected(7, "10.0.0.1"),
		api.Accepted(-3, ""),
		api.Disconnected(1 << 40),
		api.QueueDepthChanged(9, 1<<63),
		api.ClosedAll(),
	}
	for _, ev := range events {
		rec := channel.EncodeEvent(ev)
		got, err := channel.DecodeEvent(rec[:])
		if err != nil {
			t.Fatalf("%s: %v", ev, err)
		}
		if got != ev {
			t.Fatalf("decoded %s, want %s", got, ev)
		}
	}
}

func TestWireDropsForeignFields(t *testing.T) {
	ev := api.Event{Kind: api.EventDisconnected, ID: 4, Address: "ignored", Count: 12}
	rec := channel.EncodeEvent(ev)
	got, err := channel.DecodeEvent(rec[:])
	if err != nil {
		t.Fatal(err)
	}
	if got.Address != "" || got.Count != 0 || got.ID != 4 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestWireTruncatesAddress(t *testing.T) {
	long := strings.Repeat("a", api.AddressMaxSize*2)
	rec := channel.EncodeEvent(api.Connected(1, long))
	got, err := channel.DecodeEvent(rec[:])
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Address) != api.AddressMaxSize {
		t.Fatalf("address length=%d", len(got.Address))
	}
	if rec[channel.EventRecordSize-1] != 0 {
		t.Fatal("record not NUL-terminated")
	}
}

func TestWireMalformed(t *testing.T) {
	if _, err := channel.DecodeEvent(make([]byte, 3)); !errors.Is(err, api.ErrMalformedEvent) {
		t.Fatalf("short frame: %v", err)
	}
	bad := make([]byte, channel.EventRecordSize)
	bad[0] = 200
	if _, err := channel.DecodeEvent(bad); !errors.Is(err, api.ErrMalformedEvent) {
		t.Fatalf("bad kind: %v", err)
	}
	rec := channel.EncodeEvent(api.Connected(1, "x"))
	for i := 17; i < len(rec); i++ {
		rec[i] = 'z'
	}
	if _, err := channel.DecodeEvent(rec[:]); !errors.Is(err, api.ErrMalformedEvent) {
		t.Fatalf("unterminated address: %v", err)
	}
}
