// Package chat owns the conversation with the remote agent.
//
// Bridge holds the message list and a one-shot asynchronous request
// pipeline into the agent client: Submit hands the network call to a
// detached goroutine and returns immediately, Poll drains the result
// channel without blocking, and the spinner advances on a fixed cadence
// while a request is outstanding. At most one request is in flight at a
// time; a failed call resolves into a user-visible assistant message
// rather than an error.
//
// Bridge fields are only ever touched by the single consumer driving it;
// the buffered result channel is the one thing that crosses goroutines.
//
// Overlay is the modal bubbletea view over a Bridge, shown while the
// terminal session has its output paused.
package chat
