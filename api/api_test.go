package api_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/momentics/hioload-collator/api"
)

func TestChannelFailureMatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("socket reset")
	err := api.ChannelFailure(cause)
	if !errors.Is(err, api.ErrChannelFailure) {
		t.Fatal("channel failure does not match ErrChannelFailure")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if errors.Is(err, api.ErrCollatorClosed) {
		t.Fatal("channel failure matches contract violation")
	}
	wrapped := fmt.Errorf("drain: %w", err)
	if api.CodeOf(wrapped) != api.ErrCodeChannelFailure {
		t.Fatalf("CodeOf=%s", api.CodeOf(wrapped))
	}
}

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want api.ErrorCode
	}{
		{nil, api.ErrCodeOK},
		{api.ErrChannelOverflow, api.ErrCodeChannelFailure},
		{api.ErrMalformedEvent, api.ErrCodeChannelFailure},
		{api.ErrCollatorClosed, api.ErrCodeContractViolation},
		{api.ErrEndpointClosed, api.ErrCodeContractViolation},
		{fmt.Errorf("snapshot: %w", api.ErrInvalidArgument), api.ErrCodeInvalidArgument},
		{api.ErrNotFound, api.ErrCodeNotFound},
		{errors.New("other"), api.ErrCodeInternal},
		{api.NewError(api.ErrCodeNotFound, "no such id"), api.ErrCodeNotFound},
	}
	for _, tc := range cases {
		if got := api.CodeOf(tc.err); got != tc.want {
			t.Errorf("CodeOf(%v)=%s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestErrorContext(t *testing.T) {
	err := api.NewError(api.ErrCodeInvalidArgument, "snapshot").WithContext("len", 0)
	if !strings.Contains(err.Error(), "len:0") {
		t.Fatalf("Error()=%q", err.Error())
	}
	if errors.Is(err, api.ErrChannelFailure) {
		t.Fatal("non-channel error matches ErrChannelFailure")
	}
}

func TestMakeAddressTruncates(t *testing.T) {
	long := strings.Repeat("a", api.AddressMaxSize+40)
	a := api.MakeAddress(long)
	if a.Len() != api.AddressMaxSize {
		t.Fatalf("Len=%d", a.Len())
	}
	if a[api.AddressMaxSize] != 0 {
		t.Fatal("address not terminated")
	}
	if a.String() != long[:api.AddressMaxSize] {
		t.Fatal("truncated prefix differs")
	}

	short := api.MakeAddress("tcp://127.0.0.1:5555")
	if short.String() != "tcp://127.0.0.1:5555" || short.Len() != 20 {
		t.Fatalf("short=%q len=%d", short.String(), short.Len())
	}
	if api.MakeAddress("").Len() != 0 {
		t.Fatal("empty address has length")
	}
}

func TestConnectionStatusState(t *testing.T) {
	if (api.ConnectionStatus{Connected: true}).State() != api.StateConnected {
		t.Fatal("connected record")
	}
	if (api.ConnectionStatus{}).State() != api.StateDisconnected {
		t.Fatal("disconnected record")
	}
}

func TestEventString(t *testing.T) {
	cases := map[string]api.Event{
		`accepted{id=3 addr="10.0.0.1:80"}`: api.Accepted(3, "10.0.0.1:80"),
		`disconnected{id=3}`:                api.Disconnected(3),
		`queue_depth_changed{id=3 count=9}`: api.QueueDepthChanged(3, 9),
		`closed_all{}`:                      api.ClosedAll(),
		`unknown(0){}`:                      {},
	}
	for want, ev := range cases {
		if got := ev.String(); got != want {
			t.Errorf("String()=%q, want %q", got, want)
		}
	}
	if api.EventKind(0).Valid() || api.EventKind(42).Valid() || !api.EventClosedAll.Valid() {
		t.Fatal("Valid range wrong")
	}
}
