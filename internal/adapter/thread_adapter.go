package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"CasaLinkAPI/internal/model"

	"github.com/google/uuid"
)

// Sentinel errors for the thread store boundary. Services map these onto the
// HTTP error envelope; the aggregator additionally downgrades ErrUnavailable
// to a degraded snapshot instead of failing the whole inbox.
var (
	// ErrUnavailable covers unreachable stores, 5xx responses and timeouts.
	ErrUnavailable = errors.New("thread store unavailable")

	// ErrNotFound means the thread does not exist or the viewer is not a
	// participant. Stores do not distinguish the two cases.
	ErrNotFound = errors.New("thread not found")

	// ErrForbidden means the viewer is a participant but lacks the right to
	// perform the operation (domain rules differ per store).
	ErrForbidden = errors.New("operation forbidden")

	// ErrInvalid is a request the store rejected as malformed.
	ErrInvalid = errors.New("invalid thread request")
)

// ThreadAdapter normalizes one domain's thread store into the unified
// conversation shape. Implementations return fully populated conversations
// or drop the record; partial projections never leave the adapter.
type ThreadAdapter interface {
	Type() model.ConversationType
	ListConversations(ctx context.Context, viewerID uuid.UUID) ([]model.Conversation, error)
	ListMessages(ctx context.Context, viewerID uuid.UUID, threadID string) ([]model.MessageResponse, error)
	SendMessage(ctx context.Context, viewerID uuid.UUID, threadID string, content string) (*model.MessageResponse, error)
	MarkRead(ctx context.Context, viewerID uuid.UUID, threadID string) error
	DeleteThread(ctx context.Context, viewerID uuid.UUID, threadID string) error
}

// storeClient is the REST plumbing shared by both thread store adapters.
type storeClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	domain     model.ConversationType
}

func (c *storeClient) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode store request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build store request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Thread store request failed", "domain", c.domain, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, path); err != nil {
		return err
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Error("Failed to decode thread store response", "domain", c.domain, "path", path, "error", err)
		return fmt.Errorf("%w: malformed response", ErrUnavailable)
	}

	return nil
}

func (c *storeClient) checkStatus(resp *http.Response, path string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return ErrInvalid
	default:
		slog.Error("Unexpected thread store status", "domain", c.domain, "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}

// dedupeConversations enforces one conversation per (otherUser [, property])
// pair within a domain. Input is expected newest-first; the first occurrence
// of a key wins, so duplicate threads collapse onto the most recent one.
func dedupeConversations(conversations []model.Conversation) []model.Conversation {
	seen := make(map[string]struct{}, len(conversations))
	result := make([]model.Conversation, 0, len(conversations))
	for _, c := range conversations {
		key := c.OtherUser.ID.String()
		if c.Property != nil {
			key += "|" + c.Property.ID
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, c)
	}
	return result
}

// clampUnread zeroes the unread count when the viewer authored the last
// message. Stores occasionally report a stale counter right after a send.
func clampUnread(c *model.Conversation, viewerID uuid.UUID) {
	if c.LastMessage != nil && c.LastMessage.SenderID == viewerID {
		c.UnreadCount = 0
	}
	if c.UnreadCount < 0 {
		c.UnreadCount = 0
	}
}
