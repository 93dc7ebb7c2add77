package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"CasaLinkAPI/internal/model"
)

var (
	// ErrUnavailable covers transport failures and 5xx responses; callers may
	// retry.
	ErrUnavailable = errors.New("inbox api unavailable")
	ErrNotFound    = errors.New("thread not found")
	ErrForbidden   = errors.New("forbidden")
	ErrRateLimited = errors.New("rate limited")
)

// Client is the typed HTTP client for the inbox API. It satisfies the
// inbox package's Aggregator, ThreadOps, and Deleter interfaces.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type successEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapStatus(resp)
	}

	if out == nil {
		return nil
	}

	var envelope successEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *Client) mapStatus(resp *http.Response) error {
	message := ""
	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		message = envelope.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if message == "" {
			message = "invalid request"
		}
		return errors.New(message)
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}

// Aggregate fetches the merged inbox for the given filter.
func (c *Client) Aggregate(ctx context.Context, filter model.Filter) (*model.InboxSnapshot, error) {
	path := "/api/inbox?tab=" + url.QueryEscape(string(filter))
	var snapshot model.InboxSnapshot
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *Client) threadPath(conversationType model.ConversationType, threadID string) string {
	return fmt.Sprintf("/api/inbox/threads/%s/%s",
		url.PathEscape(string(conversationType)), url.PathEscape(threadID))
}

// Open loads the message history and marks the thread read.
func (c *Client) Open(ctx context.Context, conversationType model.ConversationType, threadID string) (*model.ThreadHistory, error) {
	var history model.ThreadHistory
	if err := c.doJSON(ctx, http.MethodGet, c.threadPath(conversationType, threadID), nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Send posts a message to the thread.
func (c *Client) Send(ctx context.Context, conversationType model.ConversationType, threadID string, content string) (*model.MessageResponse, error) {
	body := model.SendMessageRequest{Content: content}
	var message model.MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, c.threadPath(conversationType, threadID)+"/messages", body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// Delete removes the thread from the caller's inbox.
func (c *Client) Delete(ctx context.Context, conversationType model.ConversationType, threadID string) error {
	return c.doJSON(ctx, http.MethodDelete, c.threadPath(conversationType, threadID), nil, nil)
}
