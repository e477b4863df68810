package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/nacre-sh/nacre/internal/capture"
	"github.com/nacre-sh/nacre/internal/chat"
	"github.com/nacre-sh/nacre/internal/term"
)

// ErrSessionClosed is returned by input writes after the session has
// stopped.
var ErrSessionClosed = errors.New("session closed")

const (
	readChunkSize = 8192
	retainedBytes = 100 * 1024
	pollTimeout   = 100 * time.Millisecond

	// eot is the end-of-transmission byte forwarded for Ctrl+D.
	eot = 0x04
)

// Config holds the session's tunable pieces. Zero values fall back to the
// user's shell and the default trigger.
type Config struct {
	// ShellCommand is the shell binary to spawn. Defaults to $SHELL, then
	// /bin/zsh.
	ShellCommand string

	// TriggerKey opens the chat overlay when typed without a control
	// modifier. Defaults to '!'.
	TriggerKey rune

	Engine *capture.Engine
	Bridge *chat.Bridge
	Logger *zap.Logger
}

// Session multiplexes one shell behind a PTY with the chat overlay.
type Session struct {
	shell   string
	trigger rune

	engine   *capture.Engine
	bridge   *chat.Bridge
	retained *Buffer
	logger   *zap.Logger

	ptmx  *os.File
	child *exec.Cmd

	// writeMu guards the PTY input side, shared between the input loop and
	// overlay command injection.
	writeMu sync.Mutex

	running atomic.Bool
	paused  atomic.Bool

	reader     *term.Reader
	readerDone chan struct{}
}

// New creates a session. Engine and Bridge are required; Logger may be nil.
func New(cfg Config) *Session {
	shell := cfg.ShellCommand
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/zsh"
	}
	trigger := cfg.TriggerKey
	if trigger == 0 {
		trigger = '!'
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		shell:      shell,
		trigger:    trigger,
		engine:     cfg.Engine,
		bridge:     cfg.Bridge,
		retained:   NewBuffer(retainedBytes),
		logger:     logger,
		readerDone: make(chan struct{}),
	}
}

// Run spawns the shell and blocks until it exits, returning the child's
// exit status. Terminal mode is restored on every exit path.
func (s *Session) Run() (int, error) {
	hookDir, cleanup, err := writeHookConfig()
	if err != nil {
		return 0, err
	}
	defer cleanup()

	cmd := exec.Command(s.shell)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"ZDOTDIR="+hookDir,
	)

	cols, rows := term.Size(os.Stdout)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return 0, fmt.Errorf("spawn shell: %w", err)
	}
	s.ptmx = ptmx
	s.child = cmd
	s.logger.Info("session started",
		zap.String("shell", s.shell),
		zap.Int("pid", cmd.Process.Pid),
		zap.Int("cols", cols),
		zap.Int("rows", rows))

	state, err := term.MakeRaw(os.Stdin)
	if err != nil {
		ptmx.Close()
		cmd.Process.Kill()
		cmd.Wait()
		return 0, fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() {
		if err := term.Restore(os.Stdin, state); err != nil {
			s.logger.Error("restore terminal mode", zap.Error(err))
		}
	}()

	// TODO: propagate SIGWINCH to the child via pty.Setsize. For now the
	// signal is drained so the child keeps the size it was spawned with.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer func() {
		signal.Stop(winch)
		close(winch)
	}()
	go func() {
		for range winch {
			s.logger.Debug("resize ignored")
		}
	}()

	s.running.Store(true)
	s.reader = term.NewReader(os.Stdin)
	go s.readLoop()

	s.inputLoop()

	s.running.Store(false)
	s.ptmx.Close()
	<-s.readerDone
	s.engine.Flush()

	err = cmd.Wait()
	s.logger.Info("session ended")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("reap shell: %w", err)
	}
	return 0, nil
}

// readLoop drains PTY output into the capture engine, the retained buffer,
// and (while not paused) the real terminal. It keeps draining while the
// overlay is open so the child never stalls on a full pipe.
func (s *Session) readLoop() {
	defer close(s.readerDone)
	buf := make([]byte, readChunkSize)
	for s.running.Load() {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			cwd, _ := os.Getwd()
			s.engine.ProcessOutput(string(chunk), cwd)
			s.retained.Write(chunk)
			if !s.paused.Load() {
				if _, werr := os.Stdout.Write(chunk); werr != nil {
					s.logger.Error("write to terminal", zap.Error(werr))
					s.running.Store(false)
					return
				}
			}
		}
		if err != nil {
			if err != io.EOF && s.running.Load() {
				s.logger.Error("read shell output", zap.Error(err))
			}
			s.running.Store(false)
			return
		}
	}
}

// inputLoop polls for key events and forwards them to the child, entering
// the chat overlay on the trigger key. It exits when liveness clears or a
// write to the child fails.
func (s *Session) inputLoop() {
	for s.running.Load() {
		ev, ok := s.reader.Poll(pollTimeout)
		if !ok {
			continue
		}
		switch {
		case ev.Code == term.CodeChar && !ev.Ctrl && ev.Rune == s.trigger:
			s.enterChat()
		case ev.Code == term.CodeChar && ev.Ctrl && ev.Rune == 'd':
			if err := s.writeInput([]byte{eot}); err != nil {
				s.logger.Debug("forward EOT", zap.Error(err))
				return
			}
		default:
			seq := term.Encode(ev)
			if len(seq) == 0 {
				continue
			}
			if err := s.writeInput(seq); err != nil {
				s.logger.Debug("forward input", zap.Error(err))
				return
			}
		}
	}
}

// enterChat pauses output echo and runs the overlay to completion. The
// reader keeps draining the PTY throughout. A command the user picked in
// the overlay is injected into the shell's input afterwards, without a
// terminating newline so it can be reviewed before running.
func (s *Session) enterChat() {
	s.paused.Store(true)
	defer s.paused.Store(false)

	// The overlay borrows stdin for its lifetime. Bubbletea cannot cancel
	// a read on a plain reader, so its input goroutine may still sit in
	// Read when Run returns; Release unblocks it and reclaims any bytes it
	// pulled, keeping the next keystroke for the input loop.
	handoff := s.reader.Handoff()
	p := tea.NewProgram(chat.NewOverlay(s.bridge),
		tea.WithAltScreen(),
		tea.WithInput(handoff),
		tea.WithOutput(os.Stdout),
	)
	model, err := p.Run()
	handoff.Release()
	if err != nil {
		s.logger.Error("chat overlay", zap.Error(err))
		return
	}
	if overlay, ok := model.(chat.Overlay); ok {
		if cmd := overlay.InjectCommand(); cmd != "" {
			if err := s.writeInput([]byte(cmd)); err != nil {
				s.logger.Warn("inject command", zap.Error(err))
			}
		}
	}
}

// writeInput writes to the child's input side under the shared writer lock.
func (s *Session) writeInput(p []byte) error {
	if !s.running.Load() {
		return ErrSessionClosed
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := s.ptmx.Write(p)
	return err
}
