package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"CasaLinkAPI/internal/adapter"
	"CasaLinkAPI/internal/config"
	"CasaLinkAPI/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// InboxCache keeps per-viewer snapshots in redis under inbox:<viewer>:<tab>.
// A nil cache (no redis configured, tests) disables caching entirely. Cache
// misses and redis failures both fall through to the stores; the cache is
// never authoritative.
type InboxCache struct {
	redisAdapter *adapter.RedisAdapter
	ttl          time.Duration
}

func NewInboxCache(cfg *config.AppConfig, redisAdapter *adapter.RedisAdapter) *InboxCache {
	if redisAdapter == nil {
		return nil
	}
	return &InboxCache{
		redisAdapter: redisAdapter,
		ttl:          time.Duration(cfg.InboxCacheTTLSeconds) * time.Second,
	}
}

func inboxCacheKey(viewerID uuid.UUID, filter model.Filter) string {
	return fmt.Sprintf("inbox:%s:%s", viewerID, filter)
}

func (c *InboxCache) Get(ctx context.Context, viewerID uuid.UUID, filter model.Filter) *model.InboxSnapshot {
	if c == nil {
		return nil
	}

	raw, err := c.redisAdapter.Get(ctx, inboxCacheKey(viewerID, filter))
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Inbox cache read failed", "error", err, "viewerID", viewerID)
		}
		return nil
	}

	var snapshot model.InboxSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		slog.Warn("Inbox cache entry corrupted, dropping", "error", err, "viewerID", viewerID)
		_ = c.redisAdapter.Del(ctx, inboxCacheKey(viewerID, filter))
		return nil
	}

	return &snapshot
}

func (c *InboxCache) Set(ctx context.Context, viewerID uuid.UUID, filter model.Filter, snapshot *model.InboxSnapshot) {
	if c == nil || snapshot == nil {
		return
	}

	// Degraded snapshots are not cached: a store outage should not pin a
	// partial inbox for the TTL once the store recovers.
	if len(snapshot.Degraded) > 0 {
		return
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		slog.Error("Failed to encode inbox snapshot for cache", "error", err)
		return
	}

	if err := c.redisAdapter.Set(ctx, inboxCacheKey(viewerID, filter), raw, c.ttl); err != nil {
		slog.Warn("Inbox cache write failed", "error", err, "viewerID", viewerID)
	}
}

// Invalidate drops every tab's snapshot for the viewer. Called after send,
// read and delete so the next aggregate reflects the mutation.
func (c *InboxCache) Invalidate(ctx context.Context, viewerID uuid.UUID) {
	if c == nil {
		return
	}

	keys := []string{
		inboxCacheKey(viewerID, model.FilterAll),
		inboxCacheKey(viewerID, model.FilterProperty),
		inboxCacheKey(viewerID, model.FilterCommunity),
	}
	if err := c.redisAdapter.Del(ctx, keys...); err != nil {
		slog.Warn("Inbox cache invalidation failed", "error", err, "viewerID", viewerID)
	}
}
