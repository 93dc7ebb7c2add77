package model

import (
	"time"

	"github.com/google/uuid"
)

type ConversationType string

const (
	ConversationTypeProperty  ConversationType = "property"
	ConversationTypeCommunity ConversationType = "community"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterProperty  Filter = "property"
	FilterCommunity Filter = "community"
)

// ParseFilter maps the URL tab parameter onto the filter enum. An empty or
// unknown value falls back to "all" so stale deep links keep working.
func ParseFilter(tab string) Filter {
	switch Filter(tab) {
	case FilterProperty:
		return FilterProperty
	case FilterCommunity:
		return FilterCommunity
	default:
		return FilterAll
	}
}

// Matches reports whether a conversation type is visible under the filter.
func (f Filter) Matches(t ConversationType) bool {
	switch f {
	case FilterProperty:
		return t == ConversationTypeProperty
	case FilterCommunity:
		return t == ConversationTypeCommunity
	default:
		return true
	}
}

type OtherUser struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
}

type PropertyRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type LastMessage struct {
	Content  string    `json:"content"`
	SenderID uuid.UUID `json:"sender_id"`
	SentAt   time.Time `json:"sent_at"`
}

// Conversation is the unified projection of a two-party thread from either
// domain. ID is unique only within its domain; (ID, Type) is the real key.
type Conversation struct {
	ID   string           `json:"id"`
	Type ConversationType `json:"type"`

	// The single remote participant. Every thread is viewer + one other user.
	OtherUser OtherUser `json:"other_user"`

	// Present only for property conversations.
	Property *PropertyRef `json:"property,omitempty"`

	// Most recent message, used for preview text and as the sort key.
	LastMessage *LastMessage `json:"last_message,omitempty"`

	// Messages from OtherUser without a read acknowledgment from the viewer.
	UnreadCount int `json:"unread_count"`

	// Advanced only by new messages, not by read-state changes.
	UpdatedAt time.Time `json:"updated_at"`
}

type InboxCounts struct {
	All       int `json:"all"`
	Property  int `json:"property"`
	Community int `json:"community"`
}

// InboxSnapshot is the aggregator's result. Degraded names the domains whose
// store could not be reached; their conversations are simply missing from the
// list rather than failing the whole inbox.
type InboxSnapshot struct {
	Conversations []Conversation     `json:"conversations"`
	Counts        InboxCounts        `json:"counts"`
	Degraded      []ConversationType `json:"degraded,omitempty"`
}

type GetInboxRequest struct {
	Tab string `json:"tab" validate:"omitempty,inbox_tab"`
}
