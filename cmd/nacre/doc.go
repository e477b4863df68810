// Command nacre wraps an interactive shell in a PTY, captures command
// boundaries via OSC 133 shell integration, and opens a chat overlay
// backed by a remote agent service on the trigger key.
package main
