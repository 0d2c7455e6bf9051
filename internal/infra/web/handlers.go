package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ad-video-pipeline/internal/domain"
	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/infra/redis"
)

const presignExpiry = 15 * time.Minute

type loginRequest struct {
	APIKey string `json:"api_key"`
}

type submitRequest struct {
	Description string `json:"description"`
}

// runResponse is a PipelineRun plus a presigned download link for the
// final video once the run has completed.
type runResponse struct {
	model.PipelineRun
	FinalURL string `json:"final_url,omitempty"`
}

func bearerToken(r *http.Request) (string, bool) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" {
		return "", false
	}
	parts := strings.SplitN(hdr, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogin exchanges the API key for a short-lived session token. The
// token also lands in an HttpOnly cookie for browser clients.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.apiKey == "" || subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(s.apiKey)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to mint session token")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleLogout expires the session cookie. The bearer token itself stays
// valid until its TTL runs out.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if s.limiter != nil && s.ratePerMinute > 0 {
		ok, err := s.limiter.Allow(ctx, redis.SubmitKey(clientID(r)), s.ratePerMinute, time.Minute)
		if err != nil {
			s.log.Error().Err(err).Msg("rate limiter unavailable")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "Too many runs, slow down", http.StatusTooManyRequests)
			return
		}
	}

	run, err := s.runs.Submit(ctx, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrRateLimited):
			http.Error(w, "Pipeline is at capacity, retry later", http.StatusServiceUnavailable)
		default:
			s.log.Error().Err(err).Msg("failed to submit run")
			http.Error(w, "Failed to submit run", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusAccepted, runResponse{PipelineRun: *run})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	run, err := s.runs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			http.Error(w, "Run not found", http.StatusNotFound)
			return
		}
		s.log.Error().Err(err).Str("run_id", id).Msg("failed to load run")
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return
	}

	resp := runResponse{PipelineRun: *run}
	if run.Status == model.RunStatusCompleted && !run.Result.Final.IsZero() {
		url, err := s.store.PresignGet(ctx, run.Result.Final, presignExpiry)
		if err != nil {
			// run data is still useful without the link
			s.log.Warn().Err(err).Str("run_id", id).Msg("failed to presign final video")
		} else {
			resp.FinalURL = url
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list runs")
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// clientID keys rate limiting by the caller's address, port stripped.
func clientID(r *http.Request) string {
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
