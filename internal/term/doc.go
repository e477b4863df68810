// Package term handles the controlling terminal: raw mode, size, and the
// translation between raw input bytes and key events.
//
// The session owns stdin for its whole lifetime. Reader pulls raw chunks
// on a dedicated goroutine and hands them out as decoded key events via
// Poll. While the chat overlay runs it borrows the stream through a
// Handoff, a revocable io.Reader; releasing the handoff unblocks any read
// still parked inside it and returns unconsumed bytes to the Reader, so
// the first keystroke after the overlay closes still reaches the shell.
//
// Encode maps a key event to the byte sequence the child shell expects:
// printables encode themselves, ctrl+letter maps into the 1-26 control
// range, and a fixed table covers the editing and function keys with
// standard ANSI escape sequences.
package term
