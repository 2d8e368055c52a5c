package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleStatus Role = "status"
)

// MessageType distinguishes transient progress messages from regular ones.
type MessageType string

const (
	MessageTypeThinking MessageType = "thinking"
	MessageTypeNormal   MessageType = "normal"
)

// AgentMessage is one turn in a conversation. IDs are random UUIDs so rapid
// successive messages never collide.
type AgentMessage struct {
	ID        string      `json:"id"`
	Role      Role        `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type,omitempty"`
	Completed bool        `json:"completed,omitempty"`
}

// NewMessage creates a normal message authored by role.
func NewMessage(role Role, content string) AgentMessage {
	return AgentMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewStatusMessage creates a completed "thinking" progress message.
func NewStatusMessage(content string) AgentMessage {
	msg := NewMessage(RoleStatus, content)
	msg.Type = MessageTypeThinking
	msg.Completed = true
	return msg
}
