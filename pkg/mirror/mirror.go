// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

// Package mirror copies state snapshots to an external store for
// cross-session durability. Writes are coalesced: a burst of changes to
// the same key collapses into one write after a quiet period. The
// mirror is best-effort; store failures are logged, never propagated
// into the control path.
package mirror

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Store is the durability backend.
type Store interface {
	Put(ctx context.Context, key string, payload []byte) error
}

// Snapshot produces the current value for a key. It must return a copy
// safe to encode off the caller's goroutine.
type Snapshot func() any

// Mirror schedules coalesced snapshot writes.
type Mirror struct {
	store Store
	delay time.Duration

	mu        sync.Mutex
	snapshots map[string]Snapshot
	timers    map[string]*time.Timer
	closed    bool
}

// New creates a mirror. delay is the coalescing window; zero defaults
// to one second.
func New(store Store, delay time.Duration) *Mirror {
	if delay <= 0 {
		delay = time.Second
	}
	return &Mirror{
		store:     store,
		delay:     delay,
		snapshots: make(map[string]Snapshot),
		timers:    make(map[string]*time.Timer),
	}
}

// Register binds a key to its snapshot producer.
func (m *Mirror) Register(key string, fn Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key] = fn
}

// Request schedules a write for key. Repeated requests within the
// coalescing window collapse into a single write of the latest
// snapshot. Unregistered keys are ignored.
func (m *Mirror) Request(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if _, ok := m.snapshots[key]; !ok {
		return
	}
	if t, ok := m.timers[key]; ok {
		t.Stop()
	}
	m.timers[key] = time.AfterFunc(m.delay, func() { m.write(key) })
}

// Flush writes every key with a pending request immediately.
func (m *Mirror) Flush() {
	m.mu.Lock()
	var pending []string
	for key, t := range m.timers {
		t.Stop()
		pending = append(pending, key)
	}
	m.mu.Unlock()

	for _, key := range pending {
		m.write(key)
	}
}

// Close flushes pending writes and stops accepting new requests.
func (m *Mirror) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.Flush()
}

func (m *Mirror) write(key string) {
	m.mu.Lock()
	fn := m.snapshots[key]
	delete(m.timers, key)
	m.mu.Unlock()
	if fn == nil {
		return
	}

	payload, err := cbor.Marshal(fn())
	if err != nil {
		log.Printf("mirror: encode %s: %v", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.Put(ctx, key, payload); err != nil {
		log.Printf("mirror: write %s: %v", key, err)
	}
}
