package capture

import (
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Command is one captured shell command with its execution context.
type Command struct {
	Command    string
	Output     string
	ExitCode   *int
	StartedAt  time.Time
	WorkingDir string
}

// Complete reports whether an exit code was observed for the command.
func (c *Command) Complete() bool {
	return c.ExitCode != nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithOnFinalize registers a hook invoked with every finalized command,
// in history order. The hook runs on the caller's goroutine.
func WithOnFinalize(fn func(Command)) Option {
	return func(e *Engine) { e.onFinalize = fn }
}

// Engine tracks the currently executing command and the finalized history.
type Engine struct {
	history    []Command
	current    *Command
	prompt     promptBuffer
	onFinalize func(Command)
	logger     *zap.Logger
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessOutput consumes one chunk of shell output. It updates the open
// command record from any markers found in the chunk, attributes cleaned
// text to the record that is open at that point in the chunk, and reports
// whether the trailing output now looks like a shell prompt. Only the first
// start and first end marker per call are acted on; all well-formed marker
// spans are stripped from recorded output regardless.
func (e *Engine) ProcessOutput(chunk string, cwd string) bool {
	e.prompt.append(chunk)

	var sawStart, sawEnd bool
	for _, ev := range scanMarkers(chunk) {
		switch ev.kind {
		case eventText:
			if e.current != nil {
				e.current.Output += ev.payload
			}
		case eventStart:
			if sawStart {
				continue
			}
			sawStart = true
			e.finalizeCurrent()
			e.current = &Command{
				Command:    ev.payload,
				StartedAt:  time.Now(),
				WorkingDir: cwd,
			}
			e.logger.Debug("command started", zap.String("command", ev.payload))
		case eventEnd:
			if sawEnd {
				continue
			}
			sawEnd = true
			code, err := strconv.Atoi(ev.payload)
			if err != nil {
				e.logger.Debug("ignoring end marker with malformed exit code",
					zap.String("payload", ev.payload))
				continue
			}
			if e.current != nil {
				c := code
				e.current.ExitCode = &c
				e.finalizeCurrent()
			}
		}
	}

	return e.prompt.likely()
}

// finalizeCurrent moves the open record, if any, into the history.
func (e *Engine) finalizeCurrent() {
	if e.current == nil {
		return
	}
	cmd := *e.current
	e.current = nil
	e.history = append(e.history, cmd)
	e.logger.Debug("command finalized",
		zap.String("command", cmd.Command),
		zap.Int("output_bytes", len(cmd.Output)))
	if e.onFinalize != nil {
		e.onFinalize(cmd)
	}
}

// Flush finalizes the open record, if any. Called at session shutdown so
// a command still running when the shell dies is not lost.
func (e *Engine) Flush() {
	e.finalizeCurrent()
}

// Current returns the open command record, or nil.
func (e *Engine) Current() *Command {
	return e.current
}

// History returns all finalized commands in capture order.
func (e *Engine) History() []Command {
	return e.history
}

// Clear resets the engine.
func (e *Engine) Clear() {
	e.history = nil
	e.current = nil
	e.prompt.reset()
}
