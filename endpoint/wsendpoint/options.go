// File: endpoint/wsendpoint/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wsendpoint

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/momentics/hioload-collator/api"
)

// MessageHandler receives every inbound message of a connection. It runs on
// the connection's reader goroutine.
type MessageHandler func(id api.ConnectionID, msg []byte)

// Option customizes an Endpoint.
type Option func(*Endpoint)

// WithPath sets the HTTP path served by Listen. Default "/ws".
func WithPath(p string) Option {
	return func(e *Endpoint) {
		if p != "" {
			e.path = p
		}
	}
}

// WithOutboundQueue bounds the per-connection outbound queue.
func WithOutboundQueue(n int) Option {
	return func(e *Endpoint) {
		if n > 0 {
			e.outbound = n
		}
	}
}

// WithEventCapacity bounds every subscription queue.
func WithEventCapacity(n int) Option {
	return func(e *Endpoint) {
		e.eventCap = n
	}
}

// WithWriteTimeout sets the deadline applied to every write.
func WithWriteTimeout(d time.Duration) Option {
	return func(e *Endpoint) {
		e.writeTimeout = d
	}
}

// WithMessageHandler installs the inbound message callback.
func WithMessageHandler(h MessageHandler) Option {
	return func(e *Endpoint) {
		e.onMessage = h
	}
}

// WithBinary sends outbound messages as binary frames instead of text.
func WithBinary() Option {
	return func(e *Endpoint) {
		e.msgType = websocket.BinaryMessage
	}
}

// WithShards sets the shard count of the connection table.
func WithShards(n int) Option {
	return func(e *Endpoint) {
		e.shards = n
	}
}

// WithLogger sets the endpoint logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Endpoint) {
		if l != nil {
			e.log = l
		}
	}
}

// WithCheckOrigin overrides the upgrader origin check.
func WithCheckOrigin(fn func(origin string) bool) Option {
	return func(e *Endpoint) {
		if fn == nil {
			return
		}
		e.upgrader.CheckOrigin = func(r *http.Request) bool {
			return fn(r.Header.Get("Origin"))
		}
	}
}
