package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	MessageRoleUser  MessageRole = "user"
	MessageRoleAgent MessageRole = "agent"
)

// MessageStatus is a tagged variant: exactly one state at a time, so
// combinations like canceled-and-failed cannot be represented.
type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusCompleted MessageStatus = "completed"
	MessageStatusCanceled  MessageStatus = "canceled"
	MessageStatusFailed    MessageStatus = "failed"
)

type ChatMessage struct {
	Id        uuid.UUID     `json:"id"`
	Role      MessageRole   `json:"role"`
	Content   string        `json:"content"`
	Status    MessageStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// ChatSession is the in-memory message log for one character. It lives for the
// process lifetime only and is never persisted.
type ChatSession struct {
	PathName string         `json:"path_name"`
	Messages []*ChatMessage `json:"messages"`
}

// LastMessage returns the newest message, or nil for an empty session.
func (s *ChatSession) LastMessage() *ChatMessage {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// InProgress reports whether the session has an outstanding agent call.
func (s *ChatSession) InProgress() bool {
	last := s.LastMessage()
	return last != nil && last.Status == MessageStatusPending
}
