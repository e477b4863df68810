// Package history persists captured shell commands to a local SQLite
// database. Each session gets a ULID; every finalized command is stored
// with its output, exit code, timestamps, and working directory. Writes
// are best-effort: a failing store never interrupts the live session.
package history
