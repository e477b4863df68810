// Package capture recovers command boundaries from a shell's output stream.
//
// The wrapped shell is configured to emit OSC 133 shell-integration markers
// around every command it runs:
//   - ESC ] 133 ; C ; <command> BEL announces a command about to execute
//   - ESC ] 133 ; D ; <exit code> BEL announces a finished command
//
// The engine consumes raw output chunks, maintains at most one open command
// record at a time, strips marker spans from the text it attributes to
// records, and appends finalized records to an ordered history.
//
// Marker payloads are untrusted: malformed exit codes are ignored, a span
// missing its terminating BEL is passed through untouched, and a marker
// split across two read chunks is not recognized. Processing never fails on
// arbitrary input.
//
// A prompt-detection heuristic over the trailing output line is kept as an
// isolated fallback for callers that cannot rely on markers.
//
// The engine is not safe for concurrent use; it must be driven by a single
// caller (the session's output reader).
package capture
