// Package wsendpoint
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// WebSocket endpoint publishing connection lifecycle events.
//
// An Endpoint accepts connections through an http.Handler (or its own
// listener) and dials outbound connections. Every connection gets a fresh
// api.ConnectionID; its lifecycle is published to subscribers as
// Accepted/Connected, QueueDepthChanged and Disconnected events, and Close
// publishes ClosedAll. Subscribers are typically collators.
package wsendpoint
