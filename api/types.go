// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

import "bytes"

// AddressMaxSize is the largest number of address bytes kept per connection.
const AddressMaxSize = 256

// ConnectionID identifies one connection for its lifetime. Assigned by the transport.
type ConnectionID int64

// Address is a bounded, NUL-terminated peer address buffer.
type Address [AddressMaxSize + 1]byte

// MakeAddress copies at most AddressMaxSize bytes of s and terminates them with NUL.
func MakeAddress(s string) Address {
	var a Address
	n := copy(a[:AddressMaxSize], s)
	a[n] = 0
	return a
}

// Len returns the number of bytes before the terminator.
func (a Address) Len() int {
	if i := bytes.IndexByte(a[:], 0); i >= 0 {
		return i
	}
	return AddressMaxSize
}

func (a Address) String() string {
	return string(a[:a.Len()])
}

// ConnectionState is the logical state of a connection record.
type ConnectionState int

const (
	StateUnknown ConnectionState = iota
	StateConnected
	StateDisconnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// ConnectionStatus is the record kept per connection.
type ConnectionStatus struct {
	ID              ConnectionID
	Address         Address
	Connected       bool
	PendingMessages uint64
}

// State reports the logical state of a stored record.
func (s ConnectionStatus) State() ConnectionState {
	if s.Connected {
		return StateConnected
	}
	return StateDisconnected
}
