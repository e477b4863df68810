// Package agent provides a resilient client for the remote agent service.
//
// The client wraps the generated gRPC stub with lazy connection
// establishment, bounded timeouts, and retry with exponential backoff. Any
// failure invalidates the cached connection so the next attempt performs a
// fresh handshake; a connection is never reused across a known-failed state.
//
// Send blocks for the full retry schedule and is intended to be called from
// a dedicated worker goroutine, never from the UI loop.
package agent
