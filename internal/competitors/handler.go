package competitors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/NPierce1798/launchlens/internal/auth"
	"github.com/NPierce1798/launchlens/internal/llm"
	"github.com/NPierce1798/launchlens/internal/models"
	"github.com/NPierce1798/launchlens/internal/store"
)

// maxCandidates caps how many competitors the extract endpoint returns even
// when the model offers more.
const maxCandidates = 5

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Finder proposes competitor candidates for an idea.
type Finder interface {
	FindRelevantCompanies(ctx context.Context, ic llm.IdeaContext) ([]models.CompetitorCandidate, error)
}

// TrackedStore defines the persistence interface for tracked competitors.
type TrackedStore interface {
	TrackCompetitor(ctx context.Context, userID, idea string, info models.CompetitorCandidate) (*models.TrackedCompetitor, error)
	ListTracked(ctx context.Context, userID string) ([]models.TrackedCompetitor, error)
	UntrackCompetitor(ctx context.Context, userID, id string) error
}

// Handler holds competitor HTTP handlers.
type Handler struct {
	finder  Finder
	tracked TrackedStore
	log     *logrus.Logger
}

func NewHandler(finder Finder, tracked TrackedStore, log *logrus.Logger) *Handler {
	return &Handler{finder: finder, tracked: tracked, log: log}
}

// Extract asks the model for competitors addressing the submitted idea.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var ic llm.IdeaContext
	if err := json.NewDecoder(r.Body).Decode(&ic); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if ic.Idea == "" {
		http.Error(w, `{"error":"idea is required"}`, http.StatusBadRequest)
		return
	}

	candidates, err := h.finder.FindRelevantCompanies(r.Context(), ic)
	if err != nil {
		h.log.Errorf("find companies: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to find competitors",
		})
		return
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	if candidates == nil {
		candidates = []models.CompetitorCandidate{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"competitors": candidates})
}

// TrackRequest is the JSON body for POST /api/competitors/tracked.
type TrackRequest struct {
	Idea string                     `json:"idea"`
	Info models.CompetitorCandidate `json:"info"`
}

// Track saves a candidate the user wants to follow.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Idea == "" || req.Info.Name == "" {
		http.Error(w, `{"error":"idea and competitor name are required"}`, http.StatusBadRequest)
		return
	}

	t, err := h.tracked.TrackCompetitor(r.Context(), auth.UserID(r), req.Idea, req.Info)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// List returns the user's tracked competitors.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tracked, err := h.tracked.ListTracked(r.Context(), auth.UserID(r))
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if tracked == nil {
		tracked = []models.TrackedCompetitor{}
	}
	writeJSON(w, http.StatusOK, tracked)
}

// Untrack stops following a competitor.
func (h *Handler) Untrack(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.tracked.UntrackCompetitor(r.Context(), auth.UserID(r), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"delete failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
