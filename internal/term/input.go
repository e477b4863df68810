package term

import (
	"io"
	"sync"
	"time"
	"unicode/utf8"
)

// Reader owns the controlling terminal's input. A single goroutine reads
// raw chunks; the session consumes them as decoded key events via Poll.
// While a full-screen program needs the input stream instead, Handoff
// lends it out as a plain io.Reader and Release takes it back, returning
// any bytes the borrower pulled but never consumed.
type Reader struct {
	chunks chan []byte
	// kick wakes a blocked Poll after released handoff bytes land in rest.
	kick chan struct{}

	mu    sync.Mutex
	queue []KeyEvent
	rest  []byte
}

// NewReader starts reading from r. The goroutine exits when r does.
func NewReader(r io.Reader) *Reader {
	reader := &Reader{
		chunks: make(chan []byte),
		kick:   make(chan struct{}, 1),
	}
	go func() {
		defer close(reader.chunks)
		for {
			buf := make([]byte, 256)
			n, err := r.Read(buf)
			if n > 0 {
				reader.chunks <- buf[:n]
			}
			if err != nil {
				return
			}
		}
	}()
	return reader
}

// Poll returns the next key event, waiting at most timeout. The second
// return is false when no event arrived in time or input has ended.
func (r *Reader) Poll(timeout time.Duration) (KeyEvent, bool) {
	deadline := time.After(timeout)
	for {
		r.mu.Lock()
		if len(r.queue) > 0 {
			ev := r.queue[0]
			r.queue = r.queue[1:]
			r.mu.Unlock()
			return ev, true
		}
		if len(r.rest) > 0 {
			r.queue = decode(r.rest)
			r.rest = nil
			r.mu.Unlock()
			continue
		}
		r.mu.Unlock()

		select {
		case chunk, ok := <-r.chunks:
			if !ok {
				return KeyEvent{}, false
			}
			r.mu.Lock()
			r.rest = append(r.rest, chunk...)
			r.mu.Unlock()
		case <-r.kick:
			// A released handoff handed bytes back; re-examine rest.
		case <-deadline:
			return KeyEvent{}, false
		}
	}
}

// restore puts unconsumed bytes back at the front of the pending data and
// wakes a Poll that may be blocked on the chunk channel.
func (r *Reader) restore(b []byte) {
	r.mu.Lock()
	rest := make([]byte, 0, len(b)+len(r.rest))
	rest = append(rest, b...)
	rest = append(rest, r.rest...)
	r.rest = rest
	r.mu.Unlock()

	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// decode translates one raw chunk into key events. Escape sequences are
// recognized only when fully contained in the chunk; a terminal writes a
// whole sequence per keypress, so splits are not carried across reads.
func decode(buf []byte) []KeyEvent {
	var events []KeyEvent
	for i := 0; i < len(buf); {
		b := buf[i]
		switch {
		case b == 0x1b:
			ev, n := decodeEscape(buf[i:])
			events = append(events, ev)
			i += n
		case b == '\r':
			events = append(events, KeyEvent{Code: CodeEnter})
			i++
		case b == '\t':
			events = append(events, KeyEvent{Code: CodeTab})
			i++
		case b == 0x7f:
			events = append(events, KeyEvent{Code: CodeBackspace})
			i++
		case b == 0:
			events = append(events, KeyEvent{Code: CodeChar, Rune: '@', Ctrl: true})
			i++
		case b < 27:
			events = append(events, KeyEvent{Code: CodeChar, Rune: rune('a' + b - 1), Ctrl: true})
			i++
		case b < 32:
			events = append(events, KeyEvent{Code: CodeChar, Rune: rune('[' + b - 27), Ctrl: true})
			i++
		default:
			r, size := utf8.DecodeRune(buf[i:])
			if r == utf8.RuneError && size == 1 {
				// Not valid UTF-8; drop the byte rather than forwarding a
				// replacement character.
				i++
				continue
			}
			events = append(events, KeyEvent{Code: CodeChar, Rune: r})
			i += size
		}
	}
	return events
}

// decodeEscape consumes one escape-initiated sequence from the front of
// buf and returns the event plus the bytes consumed. A lone ESC, or a
// sequence this decoder does not know, yields CodeEsc for the ESC byte
// alone.
func decodeEscape(buf []byte) (KeyEvent, int) {
	if len(buf) < 2 {
		return KeyEvent{Code: CodeEsc}, 1
	}
	switch buf[1] {
	case '[':
		return decodeCSI(buf)
	case 'O':
		if len(buf) >= 3 {
			switch buf[2] {
			case 'P', 'Q', 'R', 'S':
				return KeyEvent{Code: CodeFunc, FKey: int(buf[2]-'P') + 1}, 3
			case 'H':
				return KeyEvent{Code: CodeHome}, 3
			case 'F':
				return KeyEvent{Code: CodeEnd}, 3
			}
		}
		return KeyEvent{Code: CodeEsc}, 1
	default:
		return KeyEvent{Code: CodeEsc}, 1
	}
}

// csiFinalEvents maps single-letter CSI finals.
var csiFinalEvents = map[byte]Code{
	'A': CodeUp,
	'B': CodeDown,
	'C': CodeRight,
	'D': CodeLeft,
	'H': CodeHome,
	'F': CodeEnd,
}

// csiTildeEvents maps `CSI <n> ~` sequences.
var csiTildeEvents = map[string]KeyEvent{
	"1":  {Code: CodeHome},
	"2":  {Code: CodeInsert},
	"3":  {Code: CodeDelete},
	"4":  {Code: CodeEnd},
	"5":  {Code: CodePageUp},
	"6":  {Code: CodePageDown},
	"15": {Code: CodeFunc, FKey: 5},
	"17": {Code: CodeFunc, FKey: 6},
	"18": {Code: CodeFunc, FKey: 7},
	"19": {Code: CodeFunc, FKey: 8},
	"20": {Code: CodeFunc, FKey: 9},
	"21": {Code: CodeFunc, FKey: 10},
	"23": {Code: CodeFunc, FKey: 11},
	"24": {Code: CodeFunc, FKey: 12},
}

func decodeCSI(buf []byte) (KeyEvent, int) {
	// buf starts with ESC [. Scan parameter bytes up to the final byte.
	for i := 2; i < len(buf); i++ {
		b := buf[i]
		if b >= '0' && b <= '9' || b == ';' {
			continue
		}
		if b == '~' {
			if ev, ok := csiTildeEvents[string(buf[2:i])]; ok {
				return ev, i + 1
			}
			return KeyEvent{Code: CodeNone}, i + 1
		}
		if code, ok := csiFinalEvents[b]; ok && i == 2 {
			return KeyEvent{Code: code}, i + 1
		}
		// Unknown final byte: swallow the sequence.
		return KeyEvent{Code: CodeNone}, i + 1
	}
	// Incomplete sequence in this chunk.
	return KeyEvent{Code: CodeEsc}, 1
}
