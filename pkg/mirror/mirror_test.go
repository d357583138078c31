// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package mirror

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu   sync.Mutex
	puts map[string][][]byte
	err  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{puts: make(map[string][][]byte)}
}

func (s *fakeStore) Put(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.puts[key] = append(s.puts[key], payload)
	return nil
}

func (s *fakeStore) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.puts[key])
}

func (s *fakeStore) last(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.puts[key]
	if len(ps) == 0 {
		return nil
	}
	return ps[len(ps)-1]
}

func TestRequest_CoalescesBursts(t *testing.T) {
	store := newFakeStore()
	m := New(store, 10*time.Millisecond)

	level := 2000
	m.Register("modules", func() any { return map[string]int{"water": level} })

	for i := 0; i < 20; i++ {
		level -= 10
		m.Request("modules")
	}

	require.Eventually(t, func() bool { return store.count("modules") == 1 },
		time.Second, time.Millisecond)

	// Quiet period passes with no further requests: still one write,
	// and it carries the latest snapshot.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, store.count("modules"))

	var got map[string]int
	require.NoError(t, cbor.Unmarshal(store.last("modules"), &got))
	assert.Equal(t, 1800, got["water"])
}

func TestRequest_SeparateKeysWriteSeparately(t *testing.T) {
	store := newFakeStore()
	m := New(store, 5*time.Millisecond)
	m.Register("modules", func() any { return "m" })
	m.Register("queue", func() any { return "q" })

	m.Request("modules")
	m.Request("queue")

	require.Eventually(t, func() bool {
		return store.count("modules") == 1 && store.count("queue") == 1
	}, time.Second, time.Millisecond)
}

func TestRequest_UnregisteredKeyIgnored(t *testing.T) {
	store := newFakeStore()
	m := New(store, time.Millisecond)
	m.Request("ghost")
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, store.count("ghost"))
}

func TestFlush_WritesPendingImmediately(t *testing.T) {
	store := newFakeStore()
	m := New(store, time.Hour) // never fires on its own
	m.Register("queue", func() any { return "state" })

	m.Request("queue")
	assert.Equal(t, 0, store.count("queue"))

	m.Flush()
	assert.Equal(t, 1, store.count("queue"))

	// Flush with nothing pending is a no-op.
	m.Flush()
	assert.Equal(t, 1, store.count("queue"))
}

func TestClose_FlushesAndRejectsNewRequests(t *testing.T) {
	store := newFakeStore()
	m := New(store, time.Hour)
	m.Register("modules", func() any { return 1 })

	m.Request("modules")
	m.Close()
	assert.Equal(t, 1, store.count("modules"))

	m.Request("modules")
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, store.count("modules"))
}

func TestWrite_StoreFailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("store down")
	m := New(store, time.Millisecond)
	m.Register("modules", func() any { return 1 })

	m.Request("modules")
	time.Sleep(20 * time.Millisecond)
	// No panic, no write recorded; a later recovery succeeds.
	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()

	m.Request("modules")
	require.Eventually(t, func() bool { return store.count("modules") == 1 },
		time.Second, time.Millisecond)
}
