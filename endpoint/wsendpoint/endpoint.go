// File: endpoint/wsendpoint/endpoint.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection table, upgrade/dial paths and per-connection reader and writer.

package wsendpoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/channel"
	"github.com/momentics/hioload-collator/internal/session"
)

// ErrQueueFull is returned by Send when the connection's outbound queue is full.
var ErrQueueFull = errors.New("wsendpoint: outbound queue full")

const (
	defaultPath     = "/ws"
	defaultOutbound = 256
)

// Endpoint is a WebSocket endpoint. It implements api.Endpoint.
type Endpoint struct {
	em       *channel.Emitter
	upgrader websocket.Upgrader
	dialer   websocket.Dialer

	path         string
	outbound     int
	eventCap     int
	shards       int
	writeTimeout time.Duration
	msgType      int
	onMessage    MessageHandler
	log          *slog.Logger

	nextID atomic.Int64
	conns  *session.Store[*conn]
	wg     sync.WaitGroup

	mu     sync.Mutex // guards closed, srv, ln and connection registration
	closed bool
	srv    *http.Server
	ln     net.Listener
}

var _ api.Endpoint = (*Endpoint)(nil)

// conn is one live websocket connection.
type conn struct {
	sess *session.Session
	ws   *websocket.Conn
	out  chan []byte

	mu     sync.Mutex // orders depth and disconnect events
	depth  uint64
	closed bool
}

// New creates an endpoint with no connections.
func New(opts ...Option) *Endpoint {
	e := &Endpoint{
		path:     defaultPath,
		outbound: defaultOutbound,
		eventCap: channel.DefaultCapacity,
		msgType:  websocket.TextMessage,
		log:      slog.Default(),
		dialer:   *websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("component", "wsendpoint")
	e.em = channel.NewEmitter(channel.WithCapacity(e.eventCap), channel.WithLogger(e.log))
	e.conns = session.NewStore[*conn](e.shards)
	return e
}

// Subscribe implements api.Endpoint.
func (e *Endpoint) Subscribe() (api.EventChannel, error) {
	return e.em.Subscribe()
}

// Subscribers returns the number of live subscriptions.
func (e *Endpoint) Subscribers() int {
	return e.em.Subscribers()
}

// Handler returns an http.Handler upgrading requests to websocket
// connections owned by e.
func (e *Endpoint) Handler() http.Handler {
	return http.HandlerFunc(e.serveHTTP)
}

func (e *Endpoint) serveHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := e.upgrader.Upgrade(w, r, nil)
	if err != nil {
		e.log.Debug("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	if _, err := e.register(ws, r.RemoteAddr, api.EventAccepted); err != nil {
		ws.Close()
	}
}

// Listen serves the endpoint's path on addr until Close.
func (e *Endpoint) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("wsendpoint: listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle(e.path, e.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		ln.Close()
		return api.ErrEndpointClosed
	}
	if e.ln != nil {
		e.mu.Unlock()
		ln.Close()
		return fmt.Errorf("wsendpoint: already listening on %s", e.ln.Addr())
	}
	e.ln, e.srv = ln, srv
	e.mu.Unlock()

	e.log.Info("listening", "addr", ln.Addr().String(), "path", e.path)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.log.Error("serve", "error", err)
		}
	}()
	return nil
}

// Addr returns the listener address, or "" when not listening.
func (e *Endpoint) Addr() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ln == nil {
		return ""
	}
	return e.ln.Addr().String()
}

// URL returns the ws:// URL of the listener, or "" when not listening.
func (e *Endpoint) URL() string {
	addr := e.Addr()
	if addr == "" {
		return ""
	}
	return "ws://" + addr + e.path
}

// Dial opens an outbound connection to url and returns its id.
func (e *Endpoint) Dial(ctx context.Context, url string) (api.ConnectionID, error) {
	ws, _, err := e.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return 0, fmt.Errorf("wsendpoint: dial %s: %w", url, err)
	}
	id, err := e.register(ws, url, api.EventConnected)
	if err != nil {
		ws.Close()
		return 0, err
	}
	return id, nil
}

// register adds ws to the table, publishes its opening event and starts its
// reader and writer.
func (e *Endpoint) register(ws *websocket.Conn, addr string, kind api.EventKind) (api.ConnectionID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, api.ErrEndpointClosed
	}
	id := api.ConnectionID(e.nextID.Add(1))
	c := &conn{
		sess: session.New(id, addr),
		ws:   ws,
		out:  make(chan []byte, e.outbound),
	}
	e.conns.Put(id, c)
	if kind == api.EventConnected {
		e.em.Connected(id, addr)
	} else {
		e.em.Accepted(id, addr)
	}
	e.log.Debug("connection opened", "id", id, "addr", addr, "event", kind.String())

	e.wg.Add(2)
	go e.readLoop(c)
	go e.writeLoop(c)
	return id, nil
}

func (e *Endpoint) readLoop(c *conn) {
	defer e.wg.Done()
	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if !c.sess.Cancelled() {
				e.log.Debug("read", "id", c.sess.ID(), "error", err)
			}
			e.drop(c, true)
			return
		}
		if e.onMessage != nil {
			e.onMessage(c.sess.ID(), msg)
		}
	}
}

func (e *Endpoint) writeLoop(c *conn) {
	defer e.wg.Done()
	for {
		select {
		case <-c.sess.Done():
			return
		case msg := <-c.out:
			if e.writeTimeout > 0 {
				_ = c.ws.SetWriteDeadline(time.Now().Add(e.writeTimeout))
			}
			err := c.ws.WriteMessage(e.msgType, msg)
			c.mu.Lock()
			if !c.closed {
				c.depth--
				e.em.QueueDepth(c.sess.ID(), c.depth)
			}
			c.mu.Unlock()
			if err != nil {
				e.log.Debug("write", "id", c.sess.ID(), "error", err)
				e.drop(c, true)
				return
			}
		}
	}
}

// drop tears c down once. With notify it publishes Disconnected.
func (e *Endpoint) drop(c *conn, notify bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if notify {
		e.em.Disconnected(c.sess.ID())
	}
	c.mu.Unlock()

	c.sess.Cancel()
	_ = c.ws.Close()
	e.conns.Delete(c.sess.ID())
	e.log.Debug("connection closed", "id", c.sess.ID(), "lifetime", time.Since(c.sess.Opened()))
}

// Send enqueues msg on connection id.
func (e *Endpoint) Send(id api.ConnectionID, msg []byte) error {
	c, ok := e.conns.Get(id)
	if !ok {
		return api.ErrNotFound
	}
	return e.enqueue(c, msg)
}

func (e *Endpoint) enqueue(c *conn, msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return api.ErrNotFound
	}
	select {
	case c.out <- msg:
	default:
		return ErrQueueFull
	}
	c.depth++
	e.em.QueueDepth(c.sess.ID(), c.depth)
	return nil
}

// Broadcast enqueues msg on every connection and returns how many accepted it.
func (e *Endpoint) Broadcast(msg []byte) int {
	n := 0
	e.conns.Range(func(_ api.ConnectionID, c *conn) bool {
		if e.enqueue(c, msg) == nil {
			n++
		}
		return true
	})
	return n
}

// CloseConn closes connection id and publishes Disconnected.
func (e *Endpoint) CloseConn(id api.ConnectionID) error {
	c, ok := e.conns.Get(id)
	if !ok {
		return api.ErrNotFound
	}
	e.drop(c, true)
	return nil
}

// Conns returns the number of open connections.
func (e *Endpoint) Conns() int {
	return e.conns.Len()
}

// Close stops the listener, closes every connection and publishes ClosedAll.
// Subscribers keep their queued events; new subscriptions are refused.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return api.ErrEndpointClosed
	}
	e.closed = true
	srv := e.srv
	e.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Close()
	}
	e.conns.Range(func(_ api.ConnectionID, c *conn) bool {
		e.drop(c, false)
		return true
	})
	e.em.Shutdown()
	e.wg.Wait()
	e.log.Info("endpoint closed")
	return err
}
