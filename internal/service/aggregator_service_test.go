package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"CasaLinkAPI/internal/adapter"
	"CasaLinkAPI/internal/config"
	"CasaLinkAPI/internal/helper"
	"CasaLinkAPI/internal/model"
)

type fakeThreadAdapter struct {
	domain        model.ConversationType
	conversations []model.Conversation
	messages      []model.MessageResponse
	listErr       error

	markReadCalls int
	markReadErr   error
	deleteCalls   []string
	deleteErr     error
	sentContent   []string
}

func (f *fakeThreadAdapter) Type() model.ConversationType {
	return f.domain
}

func (f *fakeThreadAdapter) ListConversations(_ context.Context, _ uuid.UUID) ([]model.Conversation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.conversations, nil
}

func (f *fakeThreadAdapter) ListMessages(_ context.Context, _ uuid.UUID, _ string) ([]model.MessageResponse, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.messages, nil
}

func (f *fakeThreadAdapter) SendMessage(_ context.Context, _ uuid.UUID, threadID string, content string) (*model.MessageResponse, error) {
	f.sentContent = append(f.sentContent, content)
	return &model.MessageResponse{ID: "m1", ThreadID: threadID, Content: content}, nil
}

func (f *fakeThreadAdapter) MarkRead(_ context.Context, _ uuid.UUID, _ string) error {
	f.markReadCalls++
	return f.markReadErr
}

func (f *fakeThreadAdapter) DeleteThread(_ context.Context, _ uuid.UUID, threadID string) error {
	f.deleteCalls = append(f.deleteCalls, threadID)
	return f.deleteErr
}

func conv(id string, t model.ConversationType, updated time.Time) model.Conversation {
	return model.Conversation{
		ID:        id,
		Type:      t,
		OtherUser: model.OtherUser{ID: uuid.New(), DisplayName: "User " + id},
		UpdatedAt: updated,
	}
}

func TestAggregate_MergesAndOrdersAcrossDomains(t *testing.T) {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	property := &fakeThreadAdapter{
		domain: model.ConversationTypeProperty,
		conversations: []model.Conversation{
			conv("p1", model.ConversationTypeProperty, base),
			conv("p2", model.ConversationTypeProperty, base.Add(-time.Hour)),
		},
	}
	community := &fakeThreadAdapter{
		domain: model.ConversationTypeCommunity,
		conversations: []model.Conversation{
			conv("c1", model.ConversationTypeCommunity, base.Add(-30*time.Minute)),
		},
	}

	s := NewAggregatorService(property, community, config.NewValidator(), nil)
	snapshot, err := s.Aggregate(context.Background(), uuid.New(), model.GetInboxRequest{Tab: "all"})

	assert.NoError(t, err)
	ids := make([]string, 0, len(snapshot.Conversations))
	for _, c := range snapshot.Conversations {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"p1", "c1", "p2"}, ids)
	assert.Equal(t, model.InboxCounts{All: 3, Property: 2, Community: 1}, snapshot.Counts)
	assert.Empty(t, snapshot.Degraded)
}

func TestAggregate_TimestampTieBreaksOnID(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	property := &fakeThreadAdapter{
		domain:        model.ConversationTypeProperty,
		conversations: []model.Conversation{conv("aaa", model.ConversationTypeProperty, at)},
	}
	community := &fakeThreadAdapter{
		domain:        model.ConversationTypeCommunity,
		conversations: []model.Conversation{conv("zzz", model.ConversationTypeCommunity, at)},
	}

	s := NewAggregatorService(property, community, config.NewValidator(), nil)

	// Same input, both orders, same output.
	for i := 0; i < 2; i++ {
		snapshot, err := s.Aggregate(context.Background(), uuid.New(), model.GetInboxRequest{Tab: "all"})
		assert.NoError(t, err)
		assert.Equal(t, "zzz", snapshot.Conversations[0].ID)
		assert.Equal(t, "aaa", snapshot.Conversations[1].ID)
	}
}

func TestAggregate_CountsStayUnfilteredPerTab(t *testing.T) {
	base := time.Now()
	property := &fakeThreadAdapter{
		domain: model.ConversationTypeProperty,
		conversations: []model.Conversation{
			conv("p1", model.ConversationTypeProperty, base),
			conv("p2", model.ConversationTypeProperty, base),
		},
	}
	community := &fakeThreadAdapter{
		domain:        model.ConversationTypeCommunity,
		conversations: []model.Conversation{conv("c1", model.ConversationTypeCommunity, base)},
	}

	s := NewAggregatorService(property, community, config.NewValidator(), nil)
	snapshot, err := s.Aggregate(context.Background(), uuid.New(), model.GetInboxRequest{Tab: "community"})

	assert.NoError(t, err)
	assert.Len(t, snapshot.Conversations, 1)
	assert.Equal(t, model.ConversationTypeCommunity, snapshot.Conversations[0].Type)
	assert.Equal(t, model.InboxCounts{All: 3, Property: 2, Community: 1}, snapshot.Counts)
}

func TestAggregate_PartialFailureDegradesInsteadOfBlanking(t *testing.T) {
	property := &fakeThreadAdapter{
		domain:  model.ConversationTypeProperty,
		listErr: adapter.ErrUnavailable,
	}
	community := &fakeThreadAdapter{
		domain:        model.ConversationTypeCommunity,
		conversations: []model.Conversation{conv("c1", model.ConversationTypeCommunity, time.Now())},
	}

	s := NewAggregatorService(property, community, config.NewValidator(), nil)
	snapshot, err := s.Aggregate(context.Background(), uuid.New(), model.GetInboxRequest{Tab: "all"})

	assert.NoError(t, err)
	assert.Len(t, snapshot.Conversations, 1)
	assert.Equal(t, []model.ConversationType{model.ConversationTypeProperty}, snapshot.Degraded)
	assert.Equal(t, model.InboxCounts{All: 1, Property: 0, Community: 1}, snapshot.Counts)
}

func TestAggregate_BothDomainsFailing(t *testing.T) {
	property := &fakeThreadAdapter{domain: model.ConversationTypeProperty, listErr: adapter.ErrUnavailable}
	community := &fakeThreadAdapter{domain: model.ConversationTypeCommunity, listErr: adapter.ErrUnavailable}

	s := NewAggregatorService(property, community, config.NewValidator(), nil)
	_, err := s.Aggregate(context.Background(), uuid.New(), model.GetInboxRequest{Tab: "all"})

	appErr, ok := err.(*helper.AppError)
	if assert.True(t, ok) {
		assert.Equal(t, 503, appErr.Code)
	}
}

func TestAggregate_UnknownTabRejected(t *testing.T) {
	base := time.Now()
	property := &fakeThreadAdapter{
		domain:        model.ConversationTypeProperty,
		conversations: []model.Conversation{conv("p1", model.ConversationTypeProperty, base)},
	}
	community := &fakeThreadAdapter{domain: model.ConversationTypeCommunity}

	s := NewAggregatorService(property, community, config.NewValidator(), nil)

	_, err := s.Aggregate(context.Background(), uuid.New(), model.GetInboxRequest{Tab: "archived"})
	appErr, ok := err.(*helper.AppError)
	if assert.True(t, ok) {
		assert.Equal(t, 400, appErr.Code)
	}

	// Absent tab means the all view.
	snapshot, err := s.Aggregate(context.Background(), uuid.New(), model.GetInboxRequest{})
	assert.NoError(t, err)
	assert.Len(t, snapshot.Conversations, 1)
}

func TestAggregate_RestrictedFilterFailsWhenItsDomainIsDown(t *testing.T) {
	property := &fakeThreadAdapter{domain: model.ConversationTypeProperty, listErr: adapter.ErrUnavailable}
	community := &fakeThreadAdapter{
		domain:        model.ConversationTypeCommunity,
		conversations: []model.Conversation{conv("c1", model.ConversationTypeCommunity, time.Now())},
	}

	s := NewAggregatorService(property, community, config.NewValidator(), nil)

	_, err := s.Aggregate(context.Background(), uuid.New(), model.GetInboxRequest{Tab: "property"})
	assert.Error(t, err)

	snapshot, err := s.Aggregate(context.Background(), uuid.New(), model.GetInboxRequest{Tab: "community"})
	assert.NoError(t, err)
	assert.Len(t, snapshot.Conversations, 1)
}
