// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package cookwire

import (
	"fmt"
	"time"
)

// Statistics tracks wire traffic counters. Not safe for concurrent use;
// the owner serializes updates.
type Statistics struct {
	StartTime time.Time

	TotalMessages   uint64
	StatusMessages  uint64
	ModuleMessages  uint64
	EchoedMessages  uint64 // RECIPE/EMERGENCY reflected back by the cooker
	UnknownMessages uint64
	FramerOverflows uint64
}

// NewStatistics creates a statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// Record counts one classified message.
func (s *Statistics) Record(kind Kind) {
	s.TotalMessages++
	switch kind {
	case KindStatus:
		s.StatusMessages++
	case KindModule:
		s.ModuleMessages++
	case KindRecipe, KindEmergency:
		s.EchoedMessages++
	default:
		s.UnknownMessages++
	}
}

// MessageRate returns messages per second since start.
func (s Statistics) MessageRate() float64 {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.TotalMessages) / elapsed
}

// Summary returns a one-line human-readable summary.
func (s Statistics) Summary() string {
	return fmt.Sprintf("messages=%d status=%d module=%d echoed=%d unknown=%d overflows=%d rate=%.1f/s",
		s.TotalMessages, s.StatusMessages, s.ModuleMessages,
		s.EchoedMessages, s.UnknownMessages, s.FramerOverflows, s.MessageRate())
}
