// Package api provides HTTP API handlers for the handpong spectator server.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/handpong/internal/store"
)

// MaxListLimit caps the limit query parameter.
const MaxListLimit = 500

// MatchHandler handles HTTP requests for match resources.
type MatchHandler struct {
	store *store.Store
}

// NewMatchHandler creates a new MatchHandler with the given store.
func NewMatchHandler(s *store.Store) *MatchHandler {
	return &MatchHandler{store: s}
}

// ServeHTTP routes /api/matches, /api/matches/best and /api/matches/{id}.
func (h *MatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/matches")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	if path == "best" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.best(w, r)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type matchResponse struct {
	ID         string `json:"id"`
	LeftScore  int    `json:"left_score"`
	RightScore int    `json:"right_score"`
	Total      int    `json:"total"`
	Frames     int    `json:"frames"`
	DurationMs int64  `json:"duration_ms"`
	StartedAt  string `json:"started_at"`
	EndedAt    string `json:"ended_at"`
}

type listMatchesResponse struct {
	Matches []matchResponse `json:"matches"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(m *store.Match) matchResponse {
	return matchResponse{
		ID:         m.ID,
		LeftScore:  m.LeftScore,
		RightScore: m.RightScore,
		Total:      m.Total,
		Frames:     m.Frames,
		DurationMs: m.Duration().Milliseconds(),
		StartedAt:  m.StartedAt.Format(time.RFC3339),
		EndedAt:    m.EndedAt.Format(time.RFC3339),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/matches?limit=N.
func (h *MatchHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxListLimit)
	}

	matches, err := h.store.Matches().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list matches")
		return
	}

	response := listMatchesResponse{
		Matches: make([]matchResponse, 0, len(matches)),
	}
	for _, m := range matches {
		response.Matches = append(response.Matches, toResponse(m))
	}

	writeJSON(w, http.StatusOK, response)
}

// best handles GET /api/matches/best.
func (h *MatchHandler) best(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.Matches().Best()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no matches recorded")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get best match")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(m))
}

// get handles GET /api/matches/{id}.
func (h *MatchHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	m, err := h.store.Matches().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get match")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(m))
}

// delete handles DELETE /api/matches/{id}.
func (h *MatchHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Matches().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete match")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
