package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"oleobot/internal/platform/middleware"
	dErrors "oleobot/pkg/domain-errors"
)

// RouterConfig carries what the router mounts. Metrics may be nil.
type RouterConfig struct {
	Updates *UpdatesHandler
	Health  *HealthHandler
	Gateway middleware.GatewayValidator
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewRouter wires the webhook, health and metrics endpoints. Only the webhook
// requires a gateway token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)

	r.Get("/healthz", cfg.Health.handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.Logger(cfg.Logger))
		v1.Use(middleware.ContentTypeJSON)
		v1.Use(middleware.RequireGateway(cfg.Gateway, cfg.Logger))
		v1.Post("/updates", cfg.Updates.handleUpdate)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError centralizes domain error translation to HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	writeJSON(w, code.HTTPStatus(), map[string]string{
		"error": string(code),
	})
}
