// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

// Package gateway owns the link to the cooker's microcontroller. It is
// the only component allowed to touch the transport: outbound requests
// are serialized to wire format and written directly, inbound bytes are
// framed, classified, and buffered for polling. Transport failures are
// returned as errors, never thrown into caller paths.
package gateway

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/emberworks/cocotte/pkg/catalog"
	"github.com/emberworks/cocotte/pkg/cookwire"
	"github.com/emberworks/cocotte/pkg/telemetry"
)

// ErrNotConnected is returned for sends while the cooker link is down.
var ErrNotConnected = errors.New("cooker link not connected")

// DialFunc opens a transport to the cooker. The gateway redials through
// it after connection loss.
type DialFunc func() (io.ReadWriteCloser, error)

// Command is one buffered inbound device message awaiting consumption.
type Command struct {
	ID        string        `json:"id"`
	Kind      cookwire.Kind `json:"kind"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Processed bool          `json:"processed"`
}

// Config tunes the gateway.
type Config struct {
	// BufferCap bounds the inbound command buffer; oldest entries are
	// evicted beyond it. Defaults to 10 (matches the device firmware's
	// expectations about ack cadence).
	BufferCap int

	// RetryFast is the redial interval right after a drop, RetrySlow
	// the interval once the link has stayed down.
	RetryFast time.Duration
	RetrySlow time.Duration

	Metrics *telemetry.Metrics
}

func (c *Config) defaults() {
	if c.BufferCap <= 0 {
		c.BufferCap = 10
	}
	if c.RetryFast <= 0 {
		c.RetryFast = 2 * time.Second
	}
	if c.RetrySlow <= 0 {
		c.RetrySlow = 10 * time.Second
	}
}

// Gateway is the device boundary.
type Gateway struct {
	cfg  Config
	dial DialFunc

	// writeMu serializes outbound writes so two sends can never
	// interleave on the transport.
	writeMu sync.Mutex

	mu        sync.Mutex
	conn      io.ReadWriteCloser
	commands  []*Command
	nextID    uint64
	connected bool
	connSubs  map[int]func(bool)
	nextSub   int
	stats     *cookwire.Statistics

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a gateway. Call Run in a goroutine to start the reader.
func New(dial DialFunc, cfg Config) *Gateway {
	cfg.defaults()
	return &Gateway{
		cfg:      cfg,
		dial:     dial,
		connSubs: make(map[int]func(bool)),
		stats:    cookwire.NewStatistics(),
		done:     make(chan struct{}),
	}
}

// Run reads from the transport until Close, framing and buffering
// inbound messages and redialing with backoff after connection loss.
func (g *Gateway) Run() {
	framer := cookwire.NewFramer()
	buf := make([]byte, 256)

	for {
		select {
		case <-g.done:
			return
		default:
		}

		conn := g.currentConn()
		if conn == nil {
			conn = g.redial()
			if conn == nil {
				return // closed while redialing
			}
			framer.Reset()
		}

		n, err := conn.Read(buf)
		if err != nil {
			g.dropConn(conn, fmt.Errorf("read: %w", err))
			continue
		}
		for _, msg := range framer.Push(buf[:n]) {
			g.handleMessage(msg)
		}
		g.recordOverflows(framer)
	}
}

// Close stops the reader and closes the transport.
func (g *Gateway) Close() {
	g.closeOnce.Do(func() { close(g.done) })
	g.mu.Lock()
	conn := g.conn
	g.conn = nil
	g.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// SendRecipe writes the start-cooking command for a recipe. The
// customization travels with the request for the API contract; the wire
// carries only the recipe id (the cooker holds the recipe programs).
func (g *Gateway) SendRecipe(recipe catalog.Recipe, _ catalog.Customization) error {
	return g.write(cookwire.KindRecipe, cookwire.BuildRecipeMessage(recipe.ID))
}

// SendModuleDeltas writes a level-delta command.
func (g *Gateway) SendModuleDeltas(deltas []cookwire.LevelDelta) error {
	if len(deltas) == 0 {
		return nil
	}
	return g.write(cookwire.KindModule, cookwire.BuildModuleDeltas(deltas))
}

// SendEmergencyStop writes the abort command. Sends are direct writes
// with no outbound queue, so nothing can be ordered ahead of it; the
// write lock is held only for the duration of a single short write.
func (g *Gateway) SendEmergencyStop() error {
	return g.write(cookwire.KindEmergency, cookwire.BuildEmergencyStop())
}

// PollCommands returns copies of the buffered, unprocessed commands in
// arrival order. The buffer is not cleared; call Acknowledge.
func (g *Gateway) PollCommands() []Command {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []Command
	for _, c := range g.commands {
		if !c.Processed {
			out = append(out, *c)
		}
	}
	return out
}

// Acknowledge marks the given command ids processed; a nil slice marks
// every command currently buffered. Commands arriving after this call
// begins are never affected, so nothing delivered by a concurrent read
// is silently dropped. Returns the number of commands marked.
func (g *Gateway) Acknowledge(ids []string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	marked := 0
	if ids == nil {
		for _, c := range g.commands {
			if !c.Processed {
				c.Processed = true
				marked++
			}
		}
		return marked
	}

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	for _, c := range g.commands {
		if _, ok := want[c.ID]; ok && !c.Processed {
			c.Processed = true
			marked++
		}
	}
	return marked
}

// Connected reports the current link state.
func (g *Gateway) Connected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connected
}

// OnConnectionChange registers a listener notified on connect and
// disconnect edges only. The returned func unsubscribes.
func (g *Gateway) OnConnectionChange(fn func(bool)) func() {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.connSubs[id] = fn
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.connSubs, id)
		g.mu.Unlock()
	}
}

// Statistics returns a snapshot of the wire traffic counters.
func (g *Gateway) Statistics() cookwire.Statistics {
	g.mu.Lock()
	defer g.mu.Unlock()
	return *g.stats
}

func (g *Gateway) currentConn() io.ReadWriteCloser {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.conn
}

// redial dials until a transport comes up or the gateway closes. The
// first retry happens quickly; subsequent retries back off so a dead
// link is not hammered.
func (g *Gateway) redial() io.ReadWriteCloser {
	interval := g.cfg.RetryFast
	for {
		conn, err := g.dial()
		if err == nil {
			g.mu.Lock()
			g.conn = conn
			g.mu.Unlock()
			g.setConnected(true)
			return conn
		}
		log.Printf("gateway: dial failed, retrying in %v: %v", interval, err)

		select {
		case <-g.done:
			return nil
		case <-time.After(interval):
		}
		interval = g.cfg.RetrySlow
	}
}

// dropConn tears down a failed transport and flips the connected flag.
func (g *Gateway) dropConn(conn io.ReadWriteCloser, err error) {
	select {
	case <-g.done:
		return
	default:
	}
	log.Printf("gateway: connection lost: %v", err)

	g.mu.Lock()
	if g.conn == conn {
		g.conn = nil
	}
	g.mu.Unlock()
	conn.Close()
	g.setConnected(false)
}

// setConnected flips the flag and notifies listeners on edges only.
func (g *Gateway) setConnected(up bool) {
	g.mu.Lock()
	if g.connected == up {
		g.mu.Unlock()
		return
	}
	g.connected = up
	subs := make([]func(bool), 0, len(g.connSubs))
	for _, fn := range g.connSubs {
		subs = append(subs, fn)
	}
	g.mu.Unlock()

	if g.cfg.Metrics != nil {
		v := 0.0
		if up {
			v = 1.0
		}
		g.cfg.Metrics.Connected.Set(v)
	}
	for _, fn := range subs {
		fn(up)
	}
}

// handleMessage classifies one framed message and buffers it if it is
// device telemetry. Echoes of our own outbound commands are discarded;
// unrecognized prefixes are counted and logged but never fatal.
func (g *Gateway) handleMessage(msg string) {
	kind := cookwire.Classify(msg)

	g.mu.Lock()
	g.stats.Record(kind)
	g.mu.Unlock()
	if g.cfg.Metrics != nil {
		g.cfg.Metrics.WireMessages.WithLabelValues(string(kind)).Inc()
	}

	switch kind {
	case cookwire.KindStatus, cookwire.KindModule:
		g.buffer(kind, msg)
	case cookwire.KindRecipe, cookwire.KindEmergency:
		// Echo of an outbound command; harmless.
	default:
		if g.cfg.Metrics != nil {
			g.cfg.Metrics.ParseErrors.Inc()
		}
		log.Printf("gateway: unrecognized message %q", msg)
	}
}

// buffer appends a command, evicting the oldest beyond capacity.
func (g *Gateway) buffer(kind cookwire.Kind, msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	g.commands = append(g.commands, &Command{
		ID:        fmt.Sprintf("cmd-%d", g.nextID),
		Kind:      kind,
		Message:   msg,
		Timestamp: time.Now(),
	})
	if over := len(g.commands) - g.cfg.BufferCap; over > 0 {
		g.commands = append(g.commands[:0:0], g.commands[over:]...)
	}
}

func (g *Gateway) recordOverflows(f *cookwire.Framer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if f.Overflows() > g.stats.FramerOverflows {
		if g.cfg.Metrics != nil {
			g.cfg.Metrics.ParseErrors.Add(float64(f.Overflows() - g.stats.FramerOverflows))
		}
		g.stats.FramerOverflows = f.Overflows()
	}
}

// write serializes one outbound message. There is no send queue; every
// send is an immediate transport write.
func (g *Gateway) write(kind cookwire.Kind, msg string) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()

	if conn == nil {
		if g.cfg.Metrics != nil {
			g.cfg.Metrics.SendFailures.Inc()
		}
		return ErrNotConnected
	}

	if _, err := conn.Write([]byte(msg)); err != nil {
		if g.cfg.Metrics != nil {
			g.cfg.Metrics.SendFailures.Inc()
		}
		g.dropConn(conn, fmt.Errorf("write: %w", err))
		return fmt.Errorf("transport write: %w", err)
	}

	if g.cfg.Metrics != nil {
		g.cfg.Metrics.Sends.WithLabelValues(string(kind)).Inc()
	}
	g.setConnected(true)
	return nil
}
