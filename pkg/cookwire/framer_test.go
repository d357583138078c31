// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package cookwire

import (
	"strings"
	"testing"
)

func TestFramer_SingleChunk(t *testing.T) {
	f := NewFramer()
	msgs := f.Push([]byte("STATUS:water-dispenser=1;MODULE:oil-dispenser=-15;"))

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2: %v", len(msgs), msgs)
	}
	if msgs[0] != "STATUS:water-dispenser=1" {
		t.Errorf("msgs[0] = %q", msgs[0])
	}
	if msgs[1] != "MODULE:oil-dispenser=-15" {
		t.Errorf("msgs[1] = %q", msgs[1])
	}
	if f.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", f.Pending())
	}
}

// Any split of the same byte stream must yield the same message sequence
// with nothing left in the buffer.
func TestFramer_SplitInvariance(t *testing.T) {
	stream := "STATUS:water=0,spice=1;MODULE:water=-300;RECIPE:tomato-soup;"
	want := []string{"STATUS:water=0,spice=1", "MODULE:water=-300", "RECIPE:tomato-soup"}

	tests := []struct {
		name   string
		chunks []string
	}{
		{"whole stream", []string{stream}},
		{"two chunks mid-message", []string{stream[:17], stream[17:]}},
		{"split at terminator", []string{stream[:23], stream[23:]}},
		{"byte at a time", strings.Split(stream, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFramer()
			var got []string
			for _, c := range tt.chunks {
				got = append(got, f.Push([]byte(c))...)
			}
			if len(got) != len(want) {
				t.Fatalf("got %d messages %v, want %v", len(got), got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("message %d = %q, want %q", i, got[i], want[i])
				}
			}
			if f.Pending() != 0 {
				t.Errorf("Pending() = %d, want 0", f.Pending())
			}
		})
	}
}

func TestFramer_PartialStaysBuffered(t *testing.T) {
	f := NewFramer()
	msgs := f.Push([]byte("STATUS:wat"))
	if len(msgs) != 0 {
		t.Fatalf("incomplete message yielded %v", msgs)
	}
	if f.Pending() != len("STATUS:wat") {
		t.Errorf("Pending() = %d", f.Pending())
	}

	msgs = f.Push([]byte("er=1;MOD"))
	if len(msgs) != 1 || msgs[0] != "STATUS:water=1" {
		t.Fatalf("got %v, want [STATUS:water=1]", msgs)
	}
	if f.Pending() != 3 {
		t.Errorf("Pending() = %d, want 3", f.Pending())
	}
}

func TestFramer_EmptyMessages(t *testing.T) {
	f := NewFramer()

	// Lone terminators and runs of terminators produce nothing and do
	// not corrupt framing of what follows.
	if msgs := f.Push([]byte(";")); len(msgs) != 0 {
		t.Errorf("lone terminator yielded %v", msgs)
	}
	if msgs := f.Push([]byte(";;;STATUS:water=1;;")); len(msgs) != 1 || msgs[0] != "STATUS:water=1" {
		t.Errorf("got %v, want [STATUS:water=1]", msgs)
	}
	if f.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", f.Pending())
	}
}

func TestFramer_EmptyChunk(t *testing.T) {
	f := NewFramer()
	if msgs := f.Push(nil); msgs != nil {
		t.Errorf("nil chunk yielded %v", msgs)
	}
}

func TestFramer_OverflowRecovers(t *testing.T) {
	f := NewFramer()
	noise := make([]byte, MaxBufferSize+1)
	for i := range noise {
		noise[i] = 'x'
	}
	f.Push(noise)

	if f.Overflows() != 1 {
		t.Fatalf("Overflows() = %d, want 1", f.Overflows())
	}
	if f.Pending() != 0 {
		t.Fatalf("Pending() = %d after overflow, want 0", f.Pending())
	}

	// Framing resumes cleanly.
	msgs := f.Push([]byte("STATUS:water=1;"))
	if len(msgs) != 1 || msgs[0] != "STATUS:water=1" {
		t.Errorf("got %v after overflow", msgs)
	}
}
