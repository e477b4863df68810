package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/nacre-sh/nacre/internal/capture"
)

// maxStoredOutput caps per-command output stored in a row. Long outputs
// are truncated from the front, keeping the tail.
const maxStoredOutput = 64 * 1024

const schema = `
CREATE TABLE IF NOT EXISTS commands (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	command     TEXT NOT NULL,
	output      TEXT NOT NULL,
	exit_code   INTEGER,
	started_at  TIMESTAMP NOT NULL,
	recorded_at TIMESTAMP NOT NULL,
	working_dir TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_commands_session ON commands(session_id);
CREATE INDEX IF NOT EXISTS idx_commands_started ON commands(started_at);
`

// Entry is one persisted command row.
type Entry struct {
	SessionID  string
	Command    string
	Output     string
	ExitCode   *int
	StartedAt  time.Time
	RecordedAt time.Time
	WorkingDir string
}

// Store writes captured commands for one session to SQLite.
type Store struct {
	db        *sql.DB
	sessionID string
	logger    *zap.Logger
}

// Open opens (creating if needed) the database at path and assigns this
// session a fresh ULID.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	s := &Store{
		db:        db,
		sessionID: ulid.Make().String(),
		logger:    logger,
	}
	logger.Info("history store opened",
		zap.String("path", path),
		zap.String("session_id", s.sessionID))
	return s, nil
}

// SessionID returns the ULID assigned to this session.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Record persists one finalized command. Errors are logged, not returned,
// so it can serve directly as a capture finalize hook.
func (s *Store) Record(cmd capture.Command) {
	output := cmd.Output
	if len(output) > maxStoredOutput {
		output = output[len(output)-maxStoredOutput:]
	}

	var exitCode sql.NullInt64
	if cmd.ExitCode != nil {
		exitCode = sql.NullInt64{Int64: int64(*cmd.ExitCode), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO commands (session_id, command, output, exit_code, started_at, recorded_at, working_dir)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.sessionID, cmd.Command, output, exitCode, cmd.StartedAt, time.Now(), cmd.WorkingDir,
	)
	if err != nil {
		s.logger.Warn("record command failed",
			zap.String("command", cmd.Command),
			zap.Error(err))
	}
}

// Recent returns up to n most recently started commands across all
// sessions, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT session_id, command, output, exit_code, started_at, recorded_at, working_dir
		 FROM commands ORDER BY started_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var exitCode sql.NullInt64
		if err := rows.Scan(&e.SessionID, &e.Command, &e.Output, &exitCode,
			&e.StartedAt, &e.RecordedAt, &e.WorkingDir); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if exitCode.Valid {
			code := int(exitCode.Int64)
			e.ExitCode = &code
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
