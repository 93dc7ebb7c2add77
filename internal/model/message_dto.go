package model

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type MessageResponse struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	SenderID uuid.UUID `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
	Read     bool      `json:"read"`
}

// ThreadHistory is the payload of opening a thread: the full message list
// ordered by SentAt ascending. Opening marks everything from the other
// participant as read, so UnreadCount is always zero afterwards.
type ThreadHistory struct {
	ThreadID string            `json:"thread_id"`
	Type     ConversationType  `json:"type"`
	Messages []MessageResponse `json:"messages"`
}
