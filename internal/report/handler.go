package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/NPierce1798/launchlens/internal/auth"
	"github.com/NPierce1798/launchlens/internal/models"
	"github.com/NPierce1798/launchlens/internal/store"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ReportWriter defines the persistence interface for generated reports.
type ReportWriter interface {
	Upsert(ctx context.Context, userID, competitorName string, data models.ReportData) error
	ListByUser(ctx context.Context, userID string) ([]models.CompetitorReport, error)
	GetByName(ctx context.Context, userID, competitorName string) (*models.CompetitorReport, error)
	Delete(ctx context.Context, userID, competitorName string) error
}

// Handler holds report HTTP handlers.
type Handler struct {
	builder *Builder
	reports ReportWriter
	log     *logrus.Logger
}

func NewHandler(builder *Builder, reports ReportWriter, log *logrus.Logger) *Handler {
	return &Handler{builder: builder, reports: reports, log: log}
}

// Generate runs the enrichment pipeline for a batch of candidate stubs and
// writes each result back best-effort. Write failures never fail the
// request; the generated batch is always returned.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)

	var candidates []models.CompetitorCandidate
	if err := json.NewDecoder(r.Body).Decode(&candidates); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if len(candidates) == 0 {
		http.Error(w, `{"error":"at least one competitor is required"}`, http.StatusBadRequest)
		return
	}

	results := h.builder.BuildReports(r.Context(), candidates)

	for _, data := range results {
		if err := h.reports.Upsert(r.Context(), userID, data.Original.Name, data); err != nil {
			h.log.Warnf("report write-back for %q failed: %v", data.Original.Name, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": results})
}

// List returns all generated reports for the current user.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListByUser(r.Context(), auth.UserID(r))
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []models.CompetitorReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// Get returns one report looked up by competitor name.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	report, err := h.reports.GetByName(r.Context(), auth.UserID(r), name)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Delete removes one report.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := h.reports.Delete(r.Context(), auth.UserID(r), name)
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
