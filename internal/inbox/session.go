package inbox

import (
	"context"
	"errors"
	"strings"

	"CasaLinkAPI/internal/model"
)

// ErrEmptyMessage rejects whitespace-only sends locally, before any network
// call is made.
var ErrEmptyMessage = errors.New("message content is empty")

// ThreadOps is the thread detail slice of the inbox API.
type ThreadOps interface {
	Open(ctx context.Context, conversationType model.ConversationType, threadID string) (*model.ThreadHistory, error)
	Send(ctx context.Context, conversationType model.ConversationType, threadID string, content string) (*model.MessageResponse, error)
}

// OpenRequest asks the host to load history for the session's thread.
type OpenRequest struct {
	Epoch    uint64
	Type     model.ConversationType
	ThreadID string
}

type HistoryResult struct {
	Epoch   uint64
	History *model.ThreadHistory
	Err     error
}

type SendResult struct {
	Epoch   uint64
	Message *model.MessageResponse
	Err     error
}

// DetailSession manages the message history of exactly one selected
// conversation. Each Open bumps the epoch and drops the previous thread's
// state; results tagged with an old epoch are discarded.
type DetailSession struct {
	epoch    uint64
	threadID string
	convType model.ConversationType

	messages []model.MessageResponse
	loading  bool
	lastErr  error

	refreshNeeded bool
}

func NewDetailSession() *DetailSession {
	return &DetailSession{}
}

// Open tears down the previous thread's state and starts loading the new
// one. Opening marks the other participant's messages read server-side, so
// the next aggregate shows a zero unread count for this conversation.
func (s *DetailSession) Open(conversationType model.ConversationType, threadID string) OpenRequest {
	s.epoch++
	s.threadID = threadID
	s.convType = conversationType
	s.messages = nil
	s.loading = true
	s.lastErr = nil
	return OpenRequest{Epoch: s.epoch, Type: conversationType, ThreadID: threadID}
}

// Close tears the session down; any in-flight results become stale.
func (s *DetailSession) Close() {
	s.epoch++
	s.threadID = ""
	s.convType = ""
	s.messages = nil
	s.loading = false
	s.lastErr = nil
}

// ApplyHistory applies a completed history load. Returns false for results
// belonging to a torn-down session.
func (s *DetailSession) ApplyHistory(result HistoryResult) bool {
	if result.Epoch != s.epoch {
		return false
	}

	s.loading = false
	if result.Err != nil || result.History == nil {
		s.lastErr = result.Err
		return true
	}

	s.messages = result.History.Messages
	s.lastErr = nil
	// Opening acknowledged the unread messages; the list's badge is stale
	// until the controller refreshes.
	s.refreshNeeded = true
	return true
}

// ValidateSend performs the local empty-content check and returns the
// trimmed content ready for dispatch.
func (s *DetailSession) ValidateSend(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	return trimmed, nil
}

// ApplySend appends the accepted message to the history. The session never
// touches the controller's cached list; it only raises the refresh flag.
func (s *DetailSession) ApplySend(result SendResult) bool {
	if result.Epoch != s.epoch {
		return false
	}

	if result.Err != nil {
		s.lastErr = result.Err
		return true
	}

	if result.Message != nil {
		s.messages = append(s.messages, *result.Message)
	}
	s.lastErr = nil
	s.refreshNeeded = true
	return true
}

// TakeRefreshNeeded reports and clears the pending refresh signal.
func (s *DetailSession) TakeRefreshNeeded() bool {
	needed := s.refreshNeeded
	s.refreshNeeded = false
	return needed
}

func (s *DetailSession) Epoch() uint64 {
	return s.epoch
}

func (s *DetailSession) ThreadID() string {
	return s.threadID
}

func (s *DetailSession) Type() model.ConversationType {
	return s.convType
}

func (s *DetailSession) Messages() []model.MessageResponse {
	return s.messages
}

func (s *DetailSession) Loading() bool {
	return s.loading
}

func (s *DetailSession) Err() error {
	return s.lastErr
}
