package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/adapter"
)

// Runs is the slice of the run service the HTTP layer needs.
type Runs interface {
	Submit(ctx context.Context, description string) (*model.PipelineRun, error)
	Get(ctx context.Context, id string) (*model.PipelineRun, error)
	List(ctx context.Context) ([]*model.PipelineRun, error)
}

// RateLimiter gates run submissions per client. Nil disables limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	runs          Runs
	store         adapter.ObjectStore
	auth          *AuthManager
	apiKey        string
	limiter       RateLimiter
	ratePerMinute int
	log           *zerolog.Logger
}

func NewServer(
	runs Runs,
	store adapter.ObjectStore,
	auth *AuthManager,
	apiKey string,
	limiter RateLimiter,
	ratePerMinute int,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		runs:          runs,
		store:         store,
		auth:          auth,
		apiKey:        apiKey,
		limiter:       limiter,
		ratePerMinute: ratePerMinute,
		log:           &l,
	}
}

// Router builds the public HTTP surface. Everything under /api/v1/runs
// requires either a minted session token or the raw API key as bearer.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/v1/session", s.handleLogin)
	r.Delete("/api/v1/session", s.handleLogout)

	r.Route("/api/v1/runs", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/", s.handleSubmit)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
	})
	return r
}

// authMiddleware accepts a session JWT (header or cookie) or the raw API
// key as a bearer token.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if _, err := s.auth.ParseFromRequest(r); err == nil {
			next.ServeHTTP(w, r)
			return
		}
		if tok, ok := bearerToken(r); ok && subtle.ConstantTimeCompare([]byte(tok), []byte(s.apiKey)) == 1 {
			next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}
