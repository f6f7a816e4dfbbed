package entity

import (
	"fmt"
	"time"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// ParseMessageRole accepts only the roles a stored conversation can hold.
func ParseMessageRole(s string) (MessageRole, error) {
	switch MessageRole(s) {
	case MessageRoleUser, MessageRoleAssistant:
		return MessageRole(s), nil
	default:
		return "", fmt.Errorf("unknown message role %q", s)
	}
}

func (r MessageRole) String() string {
	return string(r)
}

// ChatMessage is append-only; ordering within a session is by CreatedAt.
type ChatMessage struct {
	SessionId string
	Role      MessageRole
	Content   string
	CreatedAt time.Time
}
