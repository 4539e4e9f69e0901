package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"reelchat/internal/catalog"
	"reelchat/internal/logging"
	"reelchat/internal/recommend"
	"reelchat/internal/services"
)

type respondRequest struct {
	Messages []recommend.Message `json:"messages"`
}

type respondResponse struct {
	Response    string            `json:"response"`
	TMDBData    []catalog.Item    `json:"tmdbData,omitempty"`
	QueryParams map[string]string `json:"queryParams,omitempty"`
	RequestType string            `json:"requestType,omitempty"`
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "request body must be JSON with a messages array")
		return
	}
	if len(req.Messages) == 0 {
		s.writeError(w, http.StatusBadRequest, "messages must contain at least one entry")
		return
	}

	started := time.Now()
	result, err := s.engine.Respond(r.Context(), req.Messages)
	if err != nil {
		s.logger.Error("respond failed",
			logging.Error(err),
			logging.String(logging.FieldRequestID, requestIDFromResponse(w)))
		s.writeError(w, services.HTTPStatus(err), "failed to generate a response")
		return
	}

	payload := respondResponse{Response: result.Text}
	if result.Intent == recommend.IntentMovie || result.Intent == recommend.IntentTV {
		payload.TMDBData = result.Items
		payload.RequestType = string(result.Intent)
		if len(result.Query) > 0 {
			payload.QueryParams = result.Query
		}
	}

	s.logger.Info("served turn",
		logging.String(logging.FieldRequestID, requestIDFromResponse(w)),
		logging.String(logging.FieldIntent, string(result.Intent)),
		logging.Int("result_count", len(result.Items)),
		logging.Duration("elapsed", time.Since(started)))
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	kind, err := catalog.ParseMediaKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "kind must be movie or tv")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	item, err := s.details.Details(r.Context(), kind, id)
	if err != nil {
		var statusErr *catalog.StatusError
		if errors.As(err, &statusErr) {
			s.writeError(w, statusErr.Code, statusErr.Message)
			return
		}
		s.logger.Error("title lookup failed",
			logging.Error(err),
			logging.String(logging.FieldMediaKind, string(kind)),
			logging.Int64("id", id))
		s.writeError(w, services.HTTPStatus(err), "failed to fetch title details")
		return
	}
	s.writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}
	if s.genres != nil {
		status["genres_loaded"] = s.genres.Ready()
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func requestIDFromResponse(w http.ResponseWriter) string {
	return w.Header().Get("X-Request-Id")
}
