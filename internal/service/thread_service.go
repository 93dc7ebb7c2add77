package service

import (
	"context"
	"log/slog"
	"strings"

	"CasaLinkAPI/internal/adapter"
	"CasaLinkAPI/internal/helper"
	"CasaLinkAPI/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ThreadService is the server side of a thread detail session: full history
// with the mark-read side effect, sends, and deletion. Deletion routing on
// the conversation type happens here and nowhere else.
type ThreadService struct {
	adapters  map[model.ConversationType]adapter.ThreadAdapter
	validator *validator.Validate
	cache     *InboxCache
}

func NewThreadService(property adapter.ThreadAdapter, community adapter.ThreadAdapter, validator *validator.Validate, cache *InboxCache) *ThreadService {
	return &ThreadService{
		adapters: map[model.ConversationType]adapter.ThreadAdapter{
			model.ConversationTypeProperty:  property,
			model.ConversationTypeCommunity: community,
		},
		validator: validator,
		cache:     cache,
	}
}

func (s *ThreadService) adapterFor(t model.ConversationType) (adapter.ThreadAdapter, error) {
	a, ok := s.adapters[t]
	if !ok {
		return nil, helper.NewNotFoundError("")
	}
	return a, nil
}

// Open loads the full history ordered by sent time and marks everything from
// the other participant as read. Reading is idempotent; a second open leaves
// the unread count at zero.
func (s *ThreadService) Open(ctx context.Context, viewerID uuid.UUID, t model.ConversationType, threadID string) (*model.ThreadHistory, error) {
	a, err := s.adapterFor(t)
	if err != nil {
		return nil, err
	}

	messages, err := a.ListMessages(ctx, viewerID, threadID)
	if err != nil {
		return nil, mapAdapterError(err)
	}

	// Read acknowledgment is best effort: history still renders if the store
	// rejects the mark, and the unread count recovers on the next open.
	if err := a.MarkRead(ctx, viewerID, threadID); err != nil {
		slog.Warn("Failed to mark thread as read", "error", err, "threadID", threadID, "type", t)
	} else {
		s.cache.Invalidate(ctx, viewerID)
	}

	return &model.ThreadHistory{
		ThreadID: threadID,
		Type:     t,
		Messages: messages,
	}, nil
}

// Send appends a message to the thread. Empty and whitespace-only content is
// rejected locally, before any store call.
func (s *ThreadService) Send(ctx context.Context, viewerID uuid.UUID, t model.ConversationType, threadID string, req model.SendMessageRequest) (*model.MessageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		slog.Warn("Validation failed", "error", err, "viewerID", viewerID)
		return nil, helper.NewBadRequestError("")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, helper.NewBadRequestError("Message content is required")
	}

	a, err := s.adapterFor(t)
	if err != nil {
		return nil, err
	}

	message, err := a.SendMessage(ctx, viewerID, threadID, content)
	if err != nil {
		return nil, mapAdapterError(err)
	}

	s.cache.Invalidate(ctx, viewerID)

	return message, nil
}

// Delete removes the thread for the requesting participant. The store
// decides whether that is a soft per-participant hide or a hard delete.
func (s *ThreadService) Delete(ctx context.Context, viewerID uuid.UUID, t model.ConversationType, threadID string) error {
	a, err := s.adapterFor(t)
	if err != nil {
		return err
	}

	if err := a.DeleteThread(ctx, viewerID, threadID); err != nil {
		return mapAdapterError(err)
	}

	s.cache.Invalidate(ctx, viewerID)

	return nil
}
