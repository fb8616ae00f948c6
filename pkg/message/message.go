// Package message defines the conversational message and the ordered log
// that every memory strategy records history into.
package message

import "strings"

// Role identifies the author of a message. Any non-empty label is accepted;
// the constants below cover the roles the agent produces.
type Role string

const (
	// RoleUser marks input from the human side of the conversation.
	RoleUser Role = "user"
	// RoleAssistant marks replies produced by the model.
	RoleAssistant Role = "assistant"
	// RoleSystem marks operator-supplied instructions.
	RoleSystem Role = "system"
)

// Message is one turn of a conversation. It is a value type; copies never
// alias the recorded history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// New returns a message with the given role and content.
func New(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// String renders the message as "role: content".
func (m Message) String() string {
	return string(m.Role) + ": " + m.Content
}

// Render renders messages one per line, in order, with no trailing newline.
// An empty slice renders as the empty string.
func Render(msgs []Message) string {
	if len(msgs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}
