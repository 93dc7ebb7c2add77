package service

import (
	"context"
	"log/slog"
	"sort"

	"CasaLinkAPI/internal/adapter"
	"CasaLinkAPI/internal/helper"
	"CasaLinkAPI/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AggregatorService merges both thread domains into the single ordered list
// the inbox renders, plus per-tab totals.
type AggregatorService struct {
	property  adapter.ThreadAdapter
	community adapter.ThreadAdapter
	validator *validator.Validate
	cache     *InboxCache
}

func NewAggregatorService(property adapter.ThreadAdapter, community adapter.ThreadAdapter, validator *validator.Validate, cache *InboxCache) *AggregatorService {
	return &AggregatorService{
		property:  property,
		community: community,
		validator: validator,
		cache:     cache,
	}
}

// Aggregate fetches both domains, merges and sorts, and computes counts from
// the unfiltered totals so tab badges stay correct whichever tab is active.
// A single failing domain degrades the snapshot instead of blanking the
// inbox; the call only fails when no domain relevant to the filter could be
// reached.
func (s *AggregatorService) Aggregate(ctx context.Context, viewerID uuid.UUID, req model.GetInboxRequest) (*model.InboxSnapshot, error) {
	if err := s.validator.Struct(req); err != nil {
		slog.Warn("Validation failed", "error", err, "viewerID", viewerID)
		return nil, helper.NewBadRequestError("")
	}
	filter := model.ParseFilter(req.Tab)

	if cached := s.cache.Get(ctx, viewerID, filter); cached != nil {
		return cached, nil
	}

	propertyConvs, propertyErr := s.property.ListConversations(ctx, viewerID)
	if propertyErr != nil {
		slog.Error("Property domain aggregation failed", "error", propertyErr, "viewerID", viewerID)
	}

	communityConvs, communityErr := s.community.ListConversations(ctx, viewerID)
	if communityErr != nil {
		slog.Error("Community domain aggregation failed", "error", communityErr, "viewerID", viewerID)
	}

	if propertyErr != nil && communityErr != nil {
		return nil, mapAdapterError(propertyErr)
	}
	if propertyErr != nil && filter == model.FilterProperty {
		return nil, mapAdapterError(propertyErr)
	}
	if communityErr != nil && filter == model.FilterCommunity {
		return nil, mapAdapterError(communityErr)
	}

	snapshot := &model.InboxSnapshot{
		Counts: model.InboxCounts{
			All:       len(propertyConvs) + len(communityConvs),
			Property:  len(propertyConvs),
			Community: len(communityConvs),
		},
	}
	if propertyErr != nil {
		snapshot.Degraded = append(snapshot.Degraded, model.ConversationTypeProperty)
	}
	if communityErr != nil {
		snapshot.Degraded = append(snapshot.Degraded, model.ConversationTypeCommunity)
	}

	merged := make([]model.Conversation, 0, len(propertyConvs)+len(communityConvs))
	if filter.Matches(model.ConversationTypeProperty) {
		merged = append(merged, propertyConvs...)
	}
	if filter.Matches(model.ConversationTypeCommunity) {
		merged = append(merged, communityConvs...)
	}
	sortConversations(merged)
	snapshot.Conversations = merged

	s.cache.Set(ctx, viewerID, filter, snapshot)

	return snapshot, nil
}

// sortConversations orders by most recent activity first. Ties fall back to
// ID descending so the order is stable across domains with equal timestamps.
func sortConversations(conversations []model.Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID > b.ID
	})
}
