package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"CasaLinkAPI/internal/config"
	"CasaLinkAPI/internal/model"

	"github.com/google/uuid"
)

// CommunityThreadAdapter reads direct threads from the community store. The
// store is property-agnostic: a thread is just two profiles (a and b) plus
// their message history, with per-direction seen state.
type CommunityThreadAdapter struct {
	store *storeClient
}

func NewCommunityThreadAdapter(cfg *config.AppConfig, httpClient *http.Client) *CommunityThreadAdapter {
	return &CommunityThreadAdapter{
		store: &storeClient{
			baseURL:    cfg.CommunityStoreURL,
			token:      cfg.CommunityStoreToken,
			httpClient: httpClient,
			domain:     model.ConversationTypeCommunity,
		},
	}
}

type communityProfile struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
}

type communityLastMessage struct {
	Body      string    `json:"body"`
	AuthorID  uuid.UUID `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type communityThreadRecord struct {
	ID           string                `json:"id"`
	ParticipantA communityProfile      `json:"participant_a"`
	ParticipantB communityProfile      `json:"participant_b"`
	LastMessage  *communityLastMessage `json:"last_message"`
	UnreadCount  int                   `json:"unread_count"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type communityMessageRecord struct {
	ID        string    `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Seen      bool      `json:"seen"`
}

func (a *CommunityThreadAdapter) Type() model.ConversationType {
	return model.ConversationTypeCommunity
}

func (a *CommunityThreadAdapter) ListConversations(ctx context.Context, viewerID uuid.UUID) ([]model.Conversation, error) {
	var payload struct {
		Threads []communityThreadRecord `json:"threads"`
	}
	path := "/internal/v1/threads?profile_id=" + url.QueryEscape(viewerID.String())
	if err := a.store.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}

	conversations := make([]model.Conversation, 0, len(payload.Threads))
	for _, record := range payload.Threads {
		conversation, ok := record.toConversation(viewerID)
		if !ok {
			continue
		}
		conversations = append(conversations, conversation)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})

	return dedupeConversations(conversations), nil
}

func (r communityThreadRecord) toConversation(viewerID uuid.UUID) (model.Conversation, bool) {
	var other communityProfile
	switch viewerID {
	case r.ParticipantA.ProfileID:
		other = r.ParticipantB
	case r.ParticipantB.ProfileID:
		other = r.ParticipantA
	default:
		return model.Conversation{}, false
	}

	if r.ID == "" || other.ProfileID == uuid.Nil {
		return model.Conversation{}, false
	}

	conversation := model.Conversation{
		ID:   r.ID,
		Type: model.ConversationTypeCommunity,
		OtherUser: model.OtherUser{
			ID:          other.ProfileID,
			DisplayName: other.Name,
			AvatarURL:   other.Avatar,
		},
		UnreadCount: r.UnreadCount,
		UpdatedAt:   r.UpdatedAt,
	}

	if r.LastMessage != nil {
		conversation.LastMessage = &model.LastMessage{
			Content:  r.LastMessage.Body,
			SenderID: r.LastMessage.AuthorID,
			SentAt:   r.LastMessage.CreatedAt,
		}
		if conversation.UpdatedAt.IsZero() {
			conversation.UpdatedAt = r.LastMessage.CreatedAt
		}
	}

	clampUnread(&conversation, viewerID)

	return conversation, true
}

func (a *CommunityThreadAdapter) ListMessages(ctx context.Context, viewerID uuid.UUID, threadID string) ([]model.MessageResponse, error) {
	var payload struct {
		Messages []communityMessageRecord `json:"messages"`
	}
	path := fmt.Sprintf("/internal/v1/threads/%s/messages?profile_id=%s",
		url.PathEscape(threadID), url.QueryEscape(viewerID.String()))
	if err := a.store.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}

	messages := make([]model.MessageResponse, 0, len(payload.Messages))
	for _, record := range payload.Messages {
		messages = append(messages, model.MessageResponse{
			ID:       record.ID,
			ThreadID: threadID,
			SenderID: record.AuthorID,
			Content:  record.Body,
			SentAt:   record.CreatedAt,
			Read:     record.Seen,
		})
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SentAt.Before(messages[j].SentAt)
	})

	return messages, nil
}

func (a *CommunityThreadAdapter) SendMessage(ctx context.Context, viewerID uuid.UUID, threadID string, content string) (*model.MessageResponse, error) {
	body := map[string]string{
		"author_id": viewerID.String(),
		"body":      content,
	}
	var payload struct {
		Message communityMessageRecord `json:"message"`
	}
	path := fmt.Sprintf("/internal/v1/threads/%s/messages", url.PathEscape(threadID))
	if err := a.store.doJSON(ctx, http.MethodPost, path, body, &payload); err != nil {
		return nil, err
	}

	return &model.MessageResponse{
		ID:       payload.Message.ID,
		ThreadID: threadID,
		SenderID: payload.Message.AuthorID,
		Content:  payload.Message.Body,
		SentAt:   payload.Message.CreatedAt,
		Read:     payload.Message.Seen,
	}, nil
}

func (a *CommunityThreadAdapter) MarkRead(ctx context.Context, viewerID uuid.UUID, threadID string) error {
	body := map[string]string{"profile_id": viewerID.String()}
	path := fmt.Sprintf("/internal/v1/threads/%s/seen", url.PathEscape(threadID))
	return a.store.doJSON(ctx, http.MethodPost, path, body, nil)
}

func (a *CommunityThreadAdapter) DeleteThread(ctx context.Context, viewerID uuid.UUID, threadID string) error {
	path := fmt.Sprintf("/internal/v1/threads/%s?profile_id=%s",
		url.PathEscape(threadID), url.QueryEscape(viewerID.String()))
	return a.store.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// PurgeDeleted triggers the community store's retention sweep.
func (a *CommunityThreadAdapter) PurgeDeleted(ctx context.Context, olderThanDays int) (int, error) {
	body := map[string]int{"older_than_days": olderThanDays}
	var payload struct {
		Purged int `json:"purged"`
	}
	if err := a.store.doJSON(ctx, http.MethodPost, "/internal/v1/maintenance/purge", body, &payload); err != nil {
		return 0, err
	}
	return payload.Purged, nil
}
