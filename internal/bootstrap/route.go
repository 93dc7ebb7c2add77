package bootstrap

import (
	"net/http"
	"time"

	"CasaLinkAPI/internal/config"
	"CasaLinkAPI/internal/controller"
	"CasaLinkAPI/internal/middleware"

	"github.com/go-chi/chi/v5"
)

type Route struct {
	cfg                 *config.AppConfig
	chi                 *chi.Mux
	inboxController     *controller.InboxController
	threadController    *controller.ThreadController
	authMiddleware      *middleware.AuthMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
}

func NewRoute(cfg *config.AppConfig, chi *chi.Mux, inboxController *controller.InboxController, threadController *controller.ThreadController, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) *Route {
	return &Route{
		cfg:                 cfg,
		chi:                 chi,
		inboxController:     inboxController,
		threadController:    threadController,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (route *Route) Register() {
	route.chi.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Welcome to CasaLinkAPI"))
	})

	sendWindow := time.Duration(route.cfg.SendRateWindowSeconds) * time.Second

	route.chi.Route("/api/inbox", func(r chi.Router) {
		r.Use(route.authMiddleware.VerifyToken)

		r.Get("/", route.inboxController.GetInbox)
		r.Get("/threads/{type}/{threadID}", route.threadController.OpenThread)
		r.Delete("/threads/{type}/{threadID}", route.threadController.DeleteThread)

		r.With(route.rateLimitMiddleware.Limit("send", route.cfg.SendRateLimit, sendWindow)).
			Post("/threads/{type}/{threadID}/messages", route.threadController.SendMessage)
	})
}
