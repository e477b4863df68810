package term

import (
	"io"
	"sync"
)

// Handoff is a revocable io.Reader view over a Reader's input stream,
// lent to a full-screen program that insists on owning stdin. Programs
// built on plain readers cannot cancel a blocked Read themselves and may
// leave a goroutine parked inside it after they return; Release unblocks
// that goroutine with io.EOF and hands any bytes the view pulled but
// never consumed back to the Reader, so no keystroke is lost across the
// handoff boundary.
type Handoff struct {
	r    *Reader
	done chan struct{}

	mu     sync.Mutex
	buf    []byte
	closed bool
}

// Handoff lends out the input stream. The caller must Release it before
// using Poll again.
func (r *Reader) Handoff() *Handoff {
	return &Handoff{r: r, done: make(chan struct{})}
}

// Read blocks until input arrives or the handoff is released. After
// Release it always returns io.EOF.
func (h *Handoff) Read(p []byte) (int, error) {
	for {
		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			return 0, io.EOF
		}
		if len(h.buf) > 0 {
			n := copy(p, h.buf)
			h.buf = h.buf[n:]
			h.mu.Unlock()
			return n, nil
		}
		h.mu.Unlock()

		chunk, err := h.next()
		if err != nil {
			return 0, err
		}

		h.mu.Lock()
		if h.closed {
			// Released between receive and delivery: the bytes belong to
			// the Reader again.
			h.mu.Unlock()
			h.r.restore(chunk)
			return 0, io.EOF
		}
		h.buf = chunk
		h.mu.Unlock()
	}
}

// next produces the next pending chunk: bytes already parked on the
// Reader first, then the chunk channel.
func (h *Handoff) next() ([]byte, error) {
	h.r.mu.Lock()
	pending := h.r.rest
	h.r.rest = nil
	h.r.mu.Unlock()
	if len(pending) > 0 {
		return pending, nil
	}

	select {
	case chunk, ok := <-h.r.chunks:
		if !ok {
			return nil, io.EOF
		}
		return chunk, nil
	case <-h.done:
		return nil, io.EOF
	}
}

// Release revokes the view. A Read blocked inside it returns io.EOF, and
// unconsumed bytes go back to the Reader for Poll to decode. Idempotent.
func (h *Handoff) Release() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	buf := h.buf
	h.buf = nil
	close(h.done)
	h.mu.Unlock()

	if len(buf) > 0 {
		h.r.restore(buf)
	}
}
