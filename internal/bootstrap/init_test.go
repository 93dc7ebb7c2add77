package bootstrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"CasaLinkAPI/internal/config"
	"CasaLinkAPI/internal/helper"
	"CasaLinkAPI/internal/model"
)

// fakeStore is a minimal in-memory thread store speaking the property or
// community wire shape, enough to run the service end to end over HTTP.
type fakeStore struct {
	mux      *http.ServeMux
	deletes  []string
	failNext bool
}

func newPropertyStore(viewer, owner uuid.UUID, at time.Time) *fakeStore {
	s := &fakeStore{mux: http.NewServeMux()}

	record := map[string]interface{}{
		"id":       "p1",
		"property": map[string]string{"id": "prop-1", "title": "Sunny flat"},
		"sender":   map[string]interface{}{"id": viewer, "display_name": "Viewer"},
		"receiver": map[string]interface{}{"id": owner, "display_name": "Owner"},
		"last_message": map[string]interface{}{
			"content": "is it available?", "sender_id": owner, "sent_at": at,
		},
		"unread_count":    1,
		"last_message_at": at,
	}

	s.mux.HandleFunc("GET /internal/v1/inquiries", func(w http.ResponseWriter, r *http.Request) {
		if s.failNext {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{record}})
	})
	s.mux.HandleFunc("GET /internal/v1/inquiries/p1/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []interface{}{
				map[string]interface{}{"id": "m1", "sender_id": owner, "content": "is it available?", "sent_at": at},
			},
		})
	})
	s.mux.HandleFunc("POST /internal/v1/inquiries/p1/read", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s.mux.HandleFunc("POST /internal/v1/inquiries/p1/messages", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"id": "m2", "sender_id": body["sender_id"], "content": body["content"], "sent_at": time.Now(),
			},
		})
	})
	s.mux.HandleFunc("DELETE /internal/v1/inquiries/p1", func(w http.ResponseWriter, r *http.Request) {
		s.deletes = append(s.deletes, r.URL.Query().Get("user_id"))
		w.WriteHeader(http.StatusNoContent)
	})
	return s
}

func newCommunityStore(viewer, neighbor uuid.UUID, at time.Time) *fakeStore {
	s := &fakeStore{mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /internal/v1/threads", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"threads": []interface{}{
				map[string]interface{}{
					"id":            "c1",
					"participant_a": map[string]interface{}{"profile_id": viewer, "name": "Viewer"},
					"participant_b": map[string]interface{}{"profile_id": neighbor, "name": "Neighbor"},
					"last_message": map[string]interface{}{
						"body": "meeting tomorrow", "author_id": neighbor, "created_at": at,
					},
					"unread_count": 2,
					"updated_at":   at,
				},
			},
		})
	})
	s.mux.HandleFunc("DELETE /internal/v1/threads/c1", func(w http.ResponseWriter, r *http.Request) {
		s.deletes = append(s.deletes, r.URL.Query().Get("profile_id"))
		w.WriteHeader(http.StatusNoContent)
	})
	return s
}

type testEnv struct {
	router         http.Handler
	cfg            *config.AppConfig
	viewer         uuid.UUID
	token          string
	propertyStore  *fakeStore
	communityStore *fakeStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	viewer := uuid.New()
	other := uuid.New()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	propertyStore := newPropertyStore(viewer, other, base)
	communityStore := newCommunityStore(viewer, other, base.Add(-30*time.Minute))

	propertyServer := httptest.NewServer(propertyStore.mux)
	communityServer := httptest.NewServer(communityStore.mux)
	t.Cleanup(propertyServer.Close)
	t.Cleanup(communityServer.Close)

	cfg := &config.AppConfig{
		AppEnv:                "test",
		AppCorsAllowedOrigins: []string{"*"},
		PropertyStoreURL:      propertyServer.URL,
		CommunityStoreURL:     communityServer.URL,
		StoreTimeoutSeconds:   5,
		JWTSecret:             "test-secret",
		JWTExp:                3600,
		SendRateLimit:         30,
		SendRateWindowSeconds: 60,
	}

	router := Init(cfg, config.NewValidator(), config.NewStoreHTTPClient(cfg), nil, config.NewChi(cfg))

	token, err := helper.GenerateJWT(cfg.JWTSecret, cfg.JWTExp, viewer)
	assert.NoError(t, err)

	return &testEnv{
		router:         router,
		cfg:            cfg,
		viewer:         viewer,
		token:          token,
		propertyStore:  propertyStore,
		communityStore: communityStore,
	}
}

func (env *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+env.token)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeSnapshot(t *testing.T, recorder *httptest.ResponseRecorder) model.InboxSnapshot {
	t.Helper()
	var envelope struct {
		Data model.InboxSnapshot `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope.Data
}

func TestGetInbox_MergedAndOrdered(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/inbox", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	snapshot := decodeSnapshot(t, resp)
	assert.Len(t, snapshot.Conversations, 2)
	assert.Equal(t, "p1", snapshot.Conversations[0].ID)
	assert.Equal(t, "c1", snapshot.Conversations[1].ID)
	assert.Equal(t, model.InboxCounts{All: 2, Property: 1, Community: 1}, snapshot.Counts)
}

func TestGetInbox_TabFilterKeepsTotalCounts(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/inbox?tab=community", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	snapshot := decodeSnapshot(t, resp)
	assert.Len(t, snapshot.Conversations, 1)
	assert.Equal(t, "c1", snapshot.Conversations[0].ID)
	assert.Equal(t, model.InboxCounts{All: 2, Property: 1, Community: 1}, snapshot.Counts)
}

func TestGetInbox_UnknownTabRejected(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/inbox?tab=archived", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// No tab parameter means the all view.
	resp = env.request(t, http.MethodGet, "/api/inbox", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeSnapshot(t, resp).Conversations, 2)
}

func TestGetInbox_DegradesWhenOneStoreIsDown(t *testing.T) {
	env := newTestEnv(t)
	env.propertyStore.failNext = true

	resp := env.request(t, http.MethodGet, "/api/inbox", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	snapshot := decodeSnapshot(t, resp)
	assert.Len(t, snapshot.Conversations, 1)
	assert.Equal(t, "c1", snapshot.Conversations[0].ID)
	assert.Equal(t, []model.ConversationType{model.ConversationTypeProperty}, snapshot.Degraded)
}

func TestGetInbox_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/inbox", nil)
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/inbox", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	recorder = httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestOpenThread_ReturnsHistory(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/inbox/threads/property/p1", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data model.ThreadHistory `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "p1", envelope.Data.ThreadID)
	assert.Len(t, envelope.Data.Messages, 1)
}

func TestOpenThread_UnknownTypeIs404(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/inbox/threads/archived/p1", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSendMessage_EmptyContentRejected(t *testing.T) {
	env := newTestEnv(t)

	for _, content := range []string{"", "   "} {
		resp := env.request(t, http.MethodPost, "/api/inbox/threads/property/p1/messages",
			model.SendMessageRequest{Content: content})
		assert.Equal(t, http.StatusBadRequest, resp.Code, fmt.Sprintf("content %q", content))
	}
}

func TestSendMessage_Delivers(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/inbox/threads/property/p1/messages",
		model.SendMessageRequest{Content: "can I visit tomorrow?"})
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data model.MessageResponse `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "can I visit tomorrow?", envelope.Data.Content)
}

func TestDeleteThread_RoutesByType(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodDelete, "/api/inbox/threads/community/c1", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	assert.Empty(t, env.propertyStore.deletes)
	assert.Equal(t, []string{env.viewer.String()}, env.communityStore.deletes)
}
