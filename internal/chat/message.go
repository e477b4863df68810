package chat

import "time"

// Role identifies who authored a message.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

// String returns the display name for the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "you"
	case RoleAssistant:
		return "nacre"
	default:
		return "unknown"
	}
}

// MessageState tracks whether a message is still waiting on the agent.
type MessageState int

const (
	StateLoading MessageState = iota
	StateReady
)

// Message is one entry in the conversation.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
	State     MessageState
	// AgentTag names the agent that produced an assistant message
	// (toolsmith, researcher, scribe, general) or "error" for a failed
	// call. Empty for user messages.
	AgentTag string
}
