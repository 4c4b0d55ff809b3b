// File: channel/wire.go
// Package channel
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-size, memory-copyable event record codec.

package channel

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/momentics/hioload-collator/api"
)

// Record layout: kind (1) | id (8, LE) | count (8, LE) | NUL-terminated address.
const (
	offKind    = 0
	offID      = 1
	offCount   = 9
	offAddress = 17

	// EventRecordSize is the encoded size of every event.
	EventRecordSize = offAddress + api.AddressMaxSize + 1
)

// Record is one encoded event.
type Record [EventRecordSize]byte

// EncodeEvent writes ev into a fixed-size record. Addresses longer than
// api.AddressMaxSize are truncated; the record is always NUL-terminated.
func EncodeEvent(ev api.Event) Record {
	var r Record
	r[offKind] = byte(ev.Kind)
	switch ev.Kind {
	case api.EventConnected, api.EventAccepted:
		binary.LittleEndian.PutUint64(r[offID:], uint64(ev.ID))
		addr := api.MakeAddress(ev.Address)
		copy(r[offAddress:], addr[:])
	case api.EventDisconnected:
		binary.LittleEndian.PutUint64(r[offID:], uint64(ev.ID))
	case api.EventQueueDepthChanged:
		binary.LittleEndian.PutUint64(r[offID:], uint64(ev.ID))
		binary.LittleEndian.PutUint64(r[offCount:], ev.Count)
	}
	return r
}

// DecodeEvent parses a record produced by EncodeEvent.
func DecodeEvent(b []byte) (api.Event, error) {
	if len(b) != EventRecordSize {
		return api.Event{}, fmt.Errorf("%w: size %d, want %d", api.ErrMalformedEvent, len(b), EventRecordSize)
	}
	kind := api.EventKind(b[offKind])
	if !kind.Valid() {
		return api.Event{}, fmt.Errorf("%w: kind %d", api.ErrMalformedEvent, b[offKind])
	}
	ev := api.Event{Kind: kind}
	switch kind {
	case api.EventConnected, api.EventAccepted:
		ev.ID = api.ConnectionID(binary.LittleEndian.Uint64(b[offID:]))
		addr := b[offAddress:]
		end := bytes.IndexByte(addr, 0)
		if end < 0 {
			return api.Event{}, fmt.Errorf("%w: unterminated address", api.ErrMalformedEvent)
		}
		ev.Address = string(addr[:end])
	case api.EventDisconnected:
		ev.ID = api.ConnectionID(binary.LittleEndian.Uint64(b[offID:]))
	case api.EventQueueDepthChanged:
		ev.ID = api.ConnectionID(binary.LittleEndian.Uint64(b[offID:]))
		ev.Count = binary.LittleEndian.Uint64(b[offCount:])
	}
	return ev, nil
}
