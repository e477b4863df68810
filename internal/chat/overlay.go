package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tickMsg drives Poll and the spinner while the overlay is visible.
type tickMsg time.Time

const tickInterval = 50 * time.Millisecond

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Overlay is the modal chat view. It renders the bridge's message list and
// forwards input to it; all conversation state lives in the bridge so the
// overlay can be closed and reopened without losing history.
type Overlay struct {
	bridge *Bridge

	input textinput.Model
	vp    viewport.Model

	width  int
	height int
	ready  bool

	// inject is the command the user picked for execution in the shell,
	// collected by the session after the overlay closes.
	inject string
}

// NewOverlay creates the modal view over a bridge.
func NewOverlay(bridge *Bridge) Overlay {
	ti := textinput.New()
	ti.Placeholder = "ask the agent..."
	ti.CharLimit = 2000
	ti.Focus()

	return Overlay{
		bridge: bridge,
		input:  ti,
	}
}

// InjectCommand returns the suggested command the user chose to run in the
// shell, or "".
func (m Overlay) InjectCommand() string {
	return m.inject
}

func (m Overlay) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func (m Overlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		updated := m.bridge.Poll()
		if m.bridge.TickSpinner() {
			updated = true
		}
		if updated && m.ready {
			m.vp.SetContent(m.renderMessages())
			m.vp.GotoBottom()
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 6 // borders, input box, help line
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width-4, vpHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width - 4
			m.vp.Height = vpHeight
		}
		m.vp.SetContent(m.renderMessages())
		m.vp.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit

		case "enter":
			if m.bridge.Submit(m.input.Value(), nil) {
				m.input.Reset()
				if m.ready {
					m.vp.SetContent(m.renderMessages())
					m.vp.GotoBottom()
				}
			}
			return m, nil

		case "ctrl+e":
			if cmds := m.bridge.SuggestedCommands(); len(cmds) > 0 {
				m.inject = cmds[0]
				return m, tea.Quit
			}
			return m, nil

		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd

		case "home":
			m.vp.GotoTop()
			return m, nil

		case "end":
			m.vp.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Overlay) View() string {
	if !m.ready {
		return "loading..."
	}

	messages := chatBoxStyle.Width(m.width - 2).Render(m.vp.View())
	input := inputBoxStyle.Width(m.width - 2).Render(m.input.View())
	help := helpStyle.Render("  enter: send  ctrl+e: run suggestion  ↑/↓: scroll  esc: close")

	return lipgloss.JoinVertical(lipgloss.Left, messages, input, help)
}

// renderMessages flattens the bridge's conversation into viewport content.
func (m Overlay) renderMessages() string {
	var b strings.Builder
	for _, msg := range m.bridge.Messages() {
		b.WriteString(m.renderHeader(msg))
		b.WriteString("\n")

		if msg.State == StateLoading {
			b.WriteString(loadingStyle.Render(m.bridge.SpinnerFrame() + " " + msg.Content + "..."))
			b.WriteString("\n")
		} else {
			b.WriteString(msg.Content)
			b.WriteString("\n")
		}

		b.WriteString(separatorStyle.Render(strings.Repeat("─", 35)))
		b.WriteString("\n")
	}

	if cmds := m.bridge.SuggestedCommands(); len(cmds) > 0 {
		b.WriteString(suggestionStyle.Render(fmt.Sprintf("suggested: %s (ctrl+e to run)", cmds[0])))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Overlay) renderHeader(msg Message) string {
	ts := msg.Timestamp.Format("15:04:05")
	var header string
	switch msg.Role {
	case RoleUser:
		header = userStyle.Render("you") + dimStyle.Render(" · "+ts)
	default:
		header = assistantStyle.Render("nacre") + dimStyle.Render(" · "+ts)
	}
	if msg.AgentTag != "" {
		style := tagStyle
		if msg.AgentTag == ErrorTag {
			style = errorTagStyle
		}
		header += " " + style.Render("["+msg.AgentTag+"]")
	}
	return header
}
