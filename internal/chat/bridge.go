package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nacre-sh/nacre/internal/agent"
)

// ErrorTag marks assistant messages produced by a failed agent call.
const ErrorTag = "error"

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Sender abstracts the agent client for the bridge.
type Sender interface {
	Send(ctx context.Context, message string, contextLines []string) (*agent.Response, error)
}

// result carries one agent reply from the request goroutine back to the
// consumer.
type result struct {
	resp *agent.Response
	err  error
}

// Bridge owns conversation state and the single outstanding request.
type Bridge struct {
	messages []Message
	client   Sender
	logger   *zap.Logger

	// pending is non-nil while a request is outstanding. Buffered so the
	// request goroutine never blocks, even if the session is closed before
	// the result is drained.
	pending chan result

	spinnerFrame int
	lastSpin     time.Time

	// suggested holds the extracted commands of the latest reply.
	suggested []string
}

// NewBridge creates a bridge seeded with a welcome message.
func NewBridge(client Sender, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bridge{client: client, logger: logger}
	b.messages = append(b.messages, Message{
		Role:      RoleAssistant,
		Content:   "Hi! Ask me anything about your shell session.\nPress esc to return to the terminal.",
		Timestamp: time.Now(),
		State:     StateReady,
	})
	return b
}

// Messages returns the conversation so far. The slice is owned by the
// bridge; callers must not mutate it.
func (b *Bridge) Messages() []Message {
	return b.messages
}

// Awaiting reports whether a request is outstanding.
func (b *Bridge) Awaiting() bool {
	return b.pending != nil
}

// Submit starts one conversation turn. It appends the user message plus a
// loading placeholder and hands the network call to a detached goroutine,
// returning without waiting on it. Submission is refused while a request
// is already outstanding or when text is blank.
func (b *Bridge) Submit(text string, contextLines []string) bool {
	if strings.TrimSpace(text) == "" || b.pending != nil {
		return false
	}

	now := time.Now()
	b.messages = append(b.messages,
		Message{Role: RoleUser, Content: text, Timestamp: now, State: StateReady},
		Message{Role: RoleAssistant, Content: "thinking", Timestamp: now, State: StateLoading},
	)

	ch := make(chan result, 1)
	b.pending = ch
	client := b.client
	go func() {
		resp, err := client.Send(context.Background(), text, contextLines)
		ch <- result{resp: resp, err: err}
	}()

	b.logger.Debug("chat turn submitted", zap.Int("messages", len(b.messages)))
	return true
}

// Poll drains the result channel without blocking. When a result is ready
// it resolves the loading placeholder and clears the outstanding-request
// marker, reporting true. Safe to call every UI tick.
func (b *Bridge) Poll() bool {
	if b.pending == nil {
		return false
	}
	select {
	case res := <-b.pending:
		b.pending = nil
		b.apply(res)
		return true
	default:
		return false
	}
}

// apply resolves the most recent loading placeholder with the result. A
// failed call becomes a diagnostic assistant message; the turn completes
// either way.
func (b *Bridge) apply(res result) {
	content := ""
	tag := ""
	if res.err != nil {
		content = fmt.Sprintf(
			"The agent service could not be reached.\n\n%v\n\nCheck that the service is running, then try again.",
			res.err)
		tag = ErrorTag
		b.suggested = nil
		b.logger.Warn("chat turn failed", zap.Error(res.err))
	} else {
		content = res.resp.Message
		tag = res.resp.AgentTag
		b.suggested = res.resp.Commands
	}

	for i := len(b.messages) - 1; i >= 0; i-- {
		if b.messages[i].State == StateLoading {
			b.messages[i].Content = content
			b.messages[i].State = StateReady
			b.messages[i].AgentTag = tag
			return
		}
	}
}

// TickSpinner advances the spinner frame when a request is outstanding and
// the cadence interval has elapsed, reporting whether it moved. Purely
// cosmetic; independent of the response channel.
func (b *Bridge) TickSpinner() bool {
	if b.pending == nil {
		return false
	}
	if time.Since(b.lastSpin) < spinnerInterval {
		return false
	}
	b.spinnerFrame = (b.spinnerFrame + 1) % len(spinnerFrames)
	b.lastSpin = time.Now()
	return true
}

// SpinnerFrame returns the current spinner glyph.
func (b *Bridge) SpinnerFrame() string {
	return spinnerFrames[b.spinnerFrame]
}

// SuggestedCommands returns the commands extracted from the latest reply.
func (b *Bridge) SuggestedCommands() []string {
	return b.suggested
}
