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

// PropertyThreadAdapter reads inquiry threads from the property store. Every
// thread is scoped by a listing plus the two participants (inquirer and
// owner); the store keys messages by sender/receiver.
type PropertyThreadAdapter struct {
	store *storeClient
}

func NewPropertyThreadAdapter(cfg *config.AppConfig, httpClient *http.Client) *PropertyThreadAdapter {
	return &PropertyThreadAdapter{
		store: &storeClient{
			baseURL:    cfg.PropertyStoreURL,
			token:      cfg.PropertyStoreToken,
			httpClient: httpClient,
			domain:     model.ConversationTypeProperty,
		},
	}
}

type propertyParticipant struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
}

type propertyLastMessage struct {
	Content  string    `json:"content"`
	SenderID uuid.UUID `json:"sender_id"`
	SentAt   time.Time `json:"sent_at"`
}

type propertyThreadRecord struct {
	ID       string `json:"id"`
	Property struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"property"`
	Sender        propertyParticipant  `json:"sender"`
	Receiver      propertyParticipant  `json:"receiver"`
	LastMessage   *propertyLastMessage `json:"last_message"`
	UnreadCount   int                  `json:"unread_count"`
	LastMessageAt time.Time            `json:"last_message_at"`
}

type propertyMessageRecord struct {
	ID       string     `json:"id"`
	SenderID uuid.UUID  `json:"sender_id"`
	Content  string     `json:"content"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
}

func (a *PropertyThreadAdapter) Type() model.ConversationType {
	return model.ConversationTypeProperty
}

func (a *PropertyThreadAdapter) ListConversations(ctx context.Context, viewerID uuid.UUID) ([]model.Conversation, error) {
	var payload struct {
		Data []propertyThreadRecord `json:"data"`
	}
	path := "/internal/v1/inquiries?user_id=" + url.QueryEscape(viewerID.String())
	if err := a.store.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}

	conversations := make([]model.Conversation, 0, len(payload.Data))
	for _, record := range payload.Data {
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

func (r propertyThreadRecord) toConversation(viewerID uuid.UUID) (model.Conversation, bool) {
	var other propertyParticipant
	switch viewerID {
	case r.Sender.ID:
		other = r.Receiver
	case r.Receiver.ID:
		other = r.Sender
	default:
		// The store should only return the viewer's threads; anything else
		// is dropped rather than surfaced half-mapped.
		return model.Conversation{}, false
	}

	if r.ID == "" || other.ID == uuid.Nil {
		return model.Conversation{}, false
	}

	conversation := model.Conversation{
		ID:   r.ID,
		Type: model.ConversationTypeProperty,
		OtherUser: model.OtherUser{
			ID:          other.ID,
			DisplayName: other.DisplayName,
			AvatarURL:   other.AvatarURL,
		},
		Property: &model.PropertyRef{
			ID:    r.Property.ID,
			Title: r.Property.Title,
		},
		UnreadCount: r.UnreadCount,
		UpdatedAt:   r.LastMessageAt,
	}

	if r.LastMessage != nil {
		conversation.LastMessage = &model.LastMessage{
			Content:  r.LastMessage.Content,
			SenderID: r.LastMessage.SenderID,
			SentAt:   r.LastMessage.SentAt,
		}
		if conversation.UpdatedAt.IsZero() {
			conversation.UpdatedAt = r.LastMessage.SentAt
		}
	}

	clampUnread(&conversation, viewerID)

	return conversation, true
}

func (a *PropertyThreadAdapter) ListMessages(ctx context.Context, viewerID uuid.UUID, threadID string) ([]model.MessageResponse, error) {
	var payload struct {
		Data []propertyMessageRecord `json:"data"`
	}
	path := fmt.Sprintf("/internal/v1/inquiries/%s/messages?user_id=%s",
		url.PathEscape(threadID), url.QueryEscape(viewerID.String()))
	if err := a.store.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}

	messages := make([]model.MessageResponse, 0, len(payload.Data))
	for _, record := range payload.Data {
		messages = append(messages, model.MessageResponse{
			ID:       record.ID,
			ThreadID: threadID,
			SenderID: record.SenderID,
			Content:  record.Content,
			SentAt:   record.SentAt,
			Read:     record.ReadAt != nil,
		})
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SentAt.Before(messages[j].SentAt)
	})

	return messages, nil
}

func (a *PropertyThreadAdapter) SendMessage(ctx context.Context, viewerID uuid.UUID, threadID string, content string) (*model.MessageResponse, error) {
	body := map[string]string{
		"sender_id": viewerID.String(),
		"content":   content,
	}
	var payload struct {
		Data propertyMessageRecord `json:"data"`
	}
	path := fmt.Sprintf("/internal/v1/inquiries/%s/messages", url.PathEscape(threadID))
	if err := a.store.doJSON(ctx, http.MethodPost, path, body, &payload); err != nil {
		return nil, err
	}

	return &model.MessageResponse{
		ID:       payload.Data.ID,
		ThreadID: threadID,
		SenderID: payload.Data.SenderID,
		Content:  payload.Data.Content,
		SentAt:   payload.Data.SentAt,
		Read:     payload.Data.ReadAt != nil,
	}, nil
}

func (a *PropertyThreadAdapter) MarkRead(ctx context.Context, viewerID uuid.UUID, threadID string) error {
	body := map[string]string{"user_id": viewerID.String()}
	path := fmt.Sprintf("/internal/v1/inquiries/%s/read", url.PathEscape(threadID))
	return a.store.doJSON(ctx, http.MethodPost, path, body, nil)
}

func (a *PropertyThreadAdapter) DeleteThread(ctx context.Context, viewerID uuid.UUID, threadID string) error {
	path := fmt.Sprintf("/internal/v1/inquiries/%s?user_id=%s",
		url.PathEscape(threadID), url.QueryEscape(viewerID.String()))
	return a.store.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// PurgeDeleted asks the store to hard-delete threads every participant
// removed longer than the retention window ago. Used by the sweeper only.
func (a *PropertyThreadAdapter) PurgeDeleted(ctx context.Context, olderThanDays int) (int, error) {
	body := map[string]int{"older_than_days": olderThanDays}
	var payload struct {
		Purged int `json:"purged"`
	}
	if err := a.store.doJSON(ctx, http.MethodPost, "/internal/v1/maintenance/purge", body, &payload); err != nil {
		return 0, err
	}
	return payload.Purged, nil
}
