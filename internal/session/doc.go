// Package session multiplexes one interactive shell inside a PTY.
//
// The session spawns the shell attached to the subordinate side of a
// pseudo-terminal sized to the real terminal, puts the controlling terminal
// into raw mode, and runs two roles:
//
//   - the reader goroutine drains PTY output into the capture engine, the
//     retained rolling buffer, and (while not paused) the real stdout;
//   - the input loop polls for key events and forwards them to the child,
//     or on the trigger key pauses output echo and runs the chat overlay
//     to completion.
//
// The PTY's input side is a single shared writer behind a mutex, used by
// both the input loop and command injection from the overlay. The pause
// and liveness flags are single-writer atomics. Output keeps draining while
// the overlay is open so the child never stalls on a full pipe; only the
// echo to the real terminal is suppressed.
//
// Raw mode is restored on every exit path. The child's exit status is
// surfaced verbatim.
package session
