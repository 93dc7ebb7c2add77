package bootstrap

import (
	"net/http"

	"CasaLinkAPI/internal/adapter"
	"CasaLinkAPI/internal/config"
	"CasaLinkAPI/internal/controller"
	"CasaLinkAPI/internal/middleware"
	"CasaLinkAPI/internal/repository"
	"CasaLinkAPI/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Init wires the inbox service. redisAdapter may be nil; caching and rate
// limiting then degrade to pass-throughs, which is how tests run.
func Init(cfg *config.AppConfig, validator *validator.Validate, storeHTTPClient *http.Client, redisAdapter *adapter.RedisAdapter, chiMux *chi.Mux) *chi.Mux {
	propertyAdapter := adapter.NewPropertyThreadAdapter(cfg, storeHTTPClient)
	communityAdapter := adapter.NewCommunityThreadAdapter(cfg, storeHTTPClient)

	cache := service.NewInboxCache(cfg, redisAdapter)

	aggregatorService := service.NewAggregatorService(propertyAdapter, communityAdapter, validator, cache)
	threadService := service.NewThreadService(propertyAdapter, communityAdapter, validator, cache)

	inboxController := controller.NewInboxController(aggregatorService)
	threadController := controller.NewThreadController(threadService)

	authMiddleware := middleware.NewAuthMiddleware(cfg)

	var rateLimitRepo *repository.RateLimitRepository
	if redisAdapter != nil {
		rateLimitRepo = repository.NewRateLimitRepository(redisAdapter)
	}
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimitRepo)

	route := NewRoute(cfg, chiMux, inboxController, threadController, authMiddleware, rateLimitMiddleware)
	route.Register()

	return chiMux
}
