package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a model request to run one registered tool.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Message is one entry of a conversation transcript. Exactly one of Text,
// ToolCall, or ToolResult is meaningful depending on Role: user and assistant
// messages carry Text, an assistant message may instead carry a ToolCall, and
// a tool message carries the named tool's result payload.
type Message struct {
	Role       Role           `json:"role"`
	Text       string         `json:"text,omitempty"`
	ToolCall   *ToolCall      `json:"tool_call,omitempty"`
	ToolName   string         `json:"tool_name,omitempty"`
	ToolResult map[string]any `json:"tool_result,omitempty"`
	At         time.Time      `json:"at"`
}

type Identity struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Conversation is one session's full dialogue state: the ordered message
// history, the customer's contact details once provided, and the free-form
// trip context accumulated across turns.
type Conversation struct {
	SessionID string         `json:"session_id"`
	Messages  []Message      `json:"messages"`
	Identity  Identity       `json:"identity"`
	Trip      map[string]any `json:"trip,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewConversation(sessionID string) *Conversation {
	return &Conversation{SessionID: sessionID}
}

// MergeIdentity overwrites only the fields the caller actually supplied, so a
// later turn without contact details never blanks out earlier ones.
func (c *Conversation) MergeIdentity(id Identity) {
	if id.Name != "" {
		c.Identity.Name = id.Name
	}
	if id.Email != "" {
		c.Identity.Email = id.Email
	}
	if id.Phone != "" {
		c.Identity.Phone = id.Phone
	}
}
