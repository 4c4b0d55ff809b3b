// Package session
// Author: momentics <momentics@gmail.com>
//
// Live connection bookkeeping for endpoints. A Session is one accepted or
// dialed connection with an idempotent cancellation signal; Store is a sharded
// map from connection id to per-connection state.

package session
