package session

import "sync"

// Buffer is a thread-safe rolling byte accumulator retained by the session
// for future context use. It is bounded but not a transcript: once the
// bound is exceeded the oldest half is dropped in bulk.
type Buffer struct {
	mu   sync.Mutex
	data []byte
	max  int
}

// NewBuffer creates a buffer that holds at most max bytes plus one chunk
// before trimming.
func NewBuffer(max int) *Buffer {
	return &Buffer{max: max}
}

// Write appends p, trimming the oldest half when the bound is exceeded.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = append(b.data, p...)
	if len(b.data) > b.max {
		half := len(b.data) / 2
		b.data = append(b.data[:0:0], b.data[half:]...)
	}
	return len(p), nil
}

// Bytes returns a copy of the retained window.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Len returns the number of retained bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}
