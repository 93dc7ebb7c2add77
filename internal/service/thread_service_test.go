package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"CasaLinkAPI/internal/adapter"
	"CasaLinkAPI/internal/config"
	"CasaLinkAPI/internal/helper"
	"CasaLinkAPI/internal/model"
)

func newThreadService(property, community adapter.ThreadAdapter) *ThreadService {
	return NewThreadService(property, community, config.NewValidator(), nil)
}

func TestOpen_ReturnsHistoryAndMarksRead(t *testing.T) {
	property := &fakeThreadAdapter{
		domain: model.ConversationTypeProperty,
		messages: []model.MessageResponse{
			{ID: "m1", ThreadID: "t1", Content: "is it available?"},
			{ID: "m2", ThreadID: "t1", Content: "yes, come see it"},
		},
	}
	community := &fakeThreadAdapter{domain: model.ConversationTypeCommunity}
	s := newThreadService(property, community)

	history, err := s.Open(context.Background(), uuid.New(), model.ConversationTypeProperty, "t1")

	assert.NoError(t, err)
	assert.Equal(t, "t1", history.ThreadID)
	assert.Len(t, history.Messages, 2)
	assert.Equal(t, 1, property.markReadCalls)
	assert.Equal(t, 0, community.markReadCalls)
}

func TestOpen_MarkReadFailureDoesNotFailHistory(t *testing.T) {
	property := &fakeThreadAdapter{
		domain:      model.ConversationTypeProperty,
		messages:    []model.MessageResponse{{ID: "m1", ThreadID: "t1", Content: "hello"}},
		markReadErr: adapter.ErrUnavailable,
	}
	s := newThreadService(property, &fakeThreadAdapter{domain: model.ConversationTypeCommunity})

	history, err := s.Open(context.Background(), uuid.New(), model.ConversationTypeProperty, "t1")

	assert.NoError(t, err)
	assert.Len(t, history.Messages, 1)
}

func TestOpen_IsIdempotent(t *testing.T) {
	property := &fakeThreadAdapter{
		domain:   model.ConversationTypeProperty,
		messages: []model.MessageResponse{{ID: "m1", ThreadID: "t1", Content: "hello"}},
	}
	s := newThreadService(property, &fakeThreadAdapter{domain: model.ConversationTypeCommunity})

	viewer := uuid.New()
	_, err := s.Open(context.Background(), viewer, model.ConversationTypeProperty, "t1")
	assert.NoError(t, err)
	_, err = s.Open(context.Background(), viewer, model.ConversationTypeProperty, "t1")
	assert.NoError(t, err)
	assert.Equal(t, 2, property.markReadCalls)
}

func TestOpen_NotFoundMapsTo404(t *testing.T) {
	property := &fakeThreadAdapter{domain: model.ConversationTypeProperty, listErr: adapter.ErrNotFound}
	s := newThreadService(property, &fakeThreadAdapter{domain: model.ConversationTypeCommunity})

	_, err := s.Open(context.Background(), uuid.New(), model.ConversationTypeProperty, "missing")

	appErr, ok := err.(*helper.AppError)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	}
}

func TestSend_RejectsEmptyContentLocally(t *testing.T) {
	property := &fakeThreadAdapter{domain: model.ConversationTypeProperty}
	s := newThreadService(property, &fakeThreadAdapter{domain: model.ConversationTypeCommunity})

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := s.Send(context.Background(), uuid.New(), model.ConversationTypeProperty, "t1", model.SendMessageRequest{Content: content})
		appErr, ok := err.(*helper.AppError)
		if assert.True(t, ok, "content %q", content) {
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
		}
	}
	assert.Empty(t, property.sentContent)
}

func TestSend_TrimsAndDelivers(t *testing.T) {
	property := &fakeThreadAdapter{domain: model.ConversationTypeProperty}
	s := newThreadService(property, &fakeThreadAdapter{domain: model.ConversationTypeCommunity})

	message, err := s.Send(context.Background(), uuid.New(), model.ConversationTypeProperty, "t1",
		model.SendMessageRequest{Content: "  see you at 5  "})

	assert.NoError(t, err)
	assert.Equal(t, "see you at 5", message.Content)
	assert.Equal(t, []string{"see you at 5"}, property.sentContent)
}

func TestDelete_RoutesToExactlyOneDomain(t *testing.T) {
	property := &fakeThreadAdapter{domain: model.ConversationTypeProperty}
	community := &fakeThreadAdapter{domain: model.ConversationTypeCommunity}
	s := newThreadService(property, community)

	err := s.Delete(context.Background(), uuid.New(), model.ConversationTypeCommunity, "t2")

	assert.NoError(t, err)
	assert.Empty(t, property.deleteCalls)
	assert.Equal(t, []string{"t2"}, community.deleteCalls)
}

func TestDelete_ForbiddenMapsTo403(t *testing.T) {
	community := &fakeThreadAdapter{domain: model.ConversationTypeCommunity, deleteErr: adapter.ErrForbidden}
	s := newThreadService(&fakeThreadAdapter{domain: model.ConversationTypeProperty}, community)

	err := s.Delete(context.Background(), uuid.New(), model.ConversationTypeCommunity, "t2")

	appErr, ok := err.(*helper.AppError)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusForbidden, appErr.Code)
	}
}
