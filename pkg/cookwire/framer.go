// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package cookwire

// Framer accumulates a byte stream and splits it into ';'-terminated
// messages. Bytes after the last terminator stay buffered until the next
// chunk arrives, so messages may be split across reads at any point.
type Framer struct {
	buf       []byte
	overflows uint64
}

// NewFramer creates an empty framer.
func NewFramer() *Framer {
	return &Framer{buf: make([]byte, 0, 256)}
}

// Push appends a chunk and returns every complete message it closes, in
// order, without terminators. Empty messages (consecutive terminators)
// are dropped. Push never fails; on buffer overflow the accumulated
// bytes are discarded and counted, and framing resumes with the
// remainder of the chunk.
func (f *Framer) Push(chunk []byte) []string {
	f.buf = append(f.buf, chunk...)

	var msgs []string
	start := 0
	for i := 0; i < len(f.buf); i++ {
		if f.buf[i] != Terminator {
			continue
		}
		if i > start {
			msgs = append(msgs, string(f.buf[start:i]))
		}
		start = i + 1
	}
	f.buf = append(f.buf[:0], f.buf[start:]...)

	if len(f.buf) > MaxBufferSize {
		f.buf = f.buf[:0]
		f.overflows++
	}
	return msgs
}

// Pending returns the number of buffered bytes awaiting a terminator.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// Overflows returns how many times the accumulation buffer was dropped.
func (f *Framer) Overflows() uint64 {
	return f.overflows
}

// Reset discards any buffered bytes.
func (f *Framer) Reset() {
	f.buf = f.buf[:0]
}
