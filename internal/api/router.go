// Package api exposes the assistant over HTTP for platform bridges.
package api

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/plata/internal/assistant"
	"github.com/Veraticus/plata/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// maxAudioBytes bounds voice message uploads.
	maxAudioBytes = 20 << 20
	// maxJSONBytes bounds JSON request bodies.
	maxJSONBytes = 64 << 10
)

// Assistant is the subset of *assistant.Assistant the handlers call.
type Assistant interface {
	HandleText(ctx context.Context, user model.User, messageID, text string) ([]assistant.Reply, error)
	HandleAudio(ctx context.Context, user model.User, messageID string, audio []byte, mimeType string) ([]assistant.Reply, error)
	Confirm(ctx context.Context, user model.User, correlationID string) (assistant.Reply, error)
	Cancel(ctx context.Context, user model.User, correlationID string) (assistant.Reply, error)
}

// Config configures the router.
type Config struct {
	// Token, when set, is required as a bearer token on /v1 routes.
	Token string
	// Timeout bounds each /v1 request.
	Timeout time.Duration
	// Metrics serves /metrics; nil disables the route.
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewRouter builds the HTTP routes.
func NewRouter(a Assistant, cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	h := &handlers{assistant: a, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		if cfg.Token != "" {
			r.Use(bearerAuth(cfg.Token))
		}

		r.Post("/messages", h.postMessage)
		r.Post("/audio", h.postAudio)
		r.Post("/pending/{id}/confirm", h.confirm)
		r.Post("/pending/{id}/cancel", h.cancel)
	})

	return r
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
