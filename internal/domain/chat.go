package domain

import (
	"fmt"
	"strings"
)

// ChatRole identifies who wrote a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn of a conversation supplied by the client.
type ChatMessage struct {
	Role ChatRole `json:"role" validate:"required,oneof=user model"`
	Text string   `json:"text" validate:"required"`
}

// Validate checks the message author and content.
func (m ChatMessage) Validate() error {
	if m.Role != ChatRoleUser && m.Role != ChatRoleModel {
		return fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
	}
	if strings.TrimSpace(m.Text) == "" {
		return ErrEmptyContent
	}
	return nil
}

// SandboxFile is a file visible to a simulated terminal session.
type SandboxFile struct {
	Name    string `json:"name" validate:"required"`
	Content string `json:"content"`
}
