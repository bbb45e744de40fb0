package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bharat3645/NomadAI/internal/handler/webhook"
	"github.com/bharat3645/NomadAI/pkg/utils"
)

// NewRouter wires the webhook receiver and the liveness endpoint.
func NewRouter(webhookHandler *webhook.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	webhookHandler.RegisterRoutes(r)

	return r
}
