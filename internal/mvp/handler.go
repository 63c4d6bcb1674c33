package mvp

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/NPierce1798/launchlens/internal/auth"
	"github.com/NPierce1798/launchlens/internal/models"
	"github.com/NPierce1798/launchlens/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Handler holds MVP plan and insight HTTP handlers.
type Handler struct {
	generator     *Generator
	plans         PlanStore
	keyConfigured bool
	log           *logrus.Logger
}

func NewHandler(generator *Generator, plans PlanStore, keyConfigured bool, log *logrus.Logger) *Handler {
	return &Handler{generator: generator, plans: plans, keyConfigured: keyConfigured, log: log}
}

// InsightsRequest is the JSON body for POST /api/mvp/insights.
type InsightsRequest struct {
	MVP        models.PlanData `json:"mvp"`
	MVPID      string          `json:"mvpId"`
	Regenerate bool            `json:"regenerate"`
}

// InsightsResponse is returned by both insight endpoints.
type InsightsResponse struct {
	Success     bool                   `json:"success"`
	Insights    *models.InsightsBundle `json:"insights"`
	GeneratedAt *time.Time             `json:"generatedAt,omitempty"`
}

// GenerateInsights produces (or reuses) the insight bundle for a plan. The
// route sits behind auth middleware, so an invalid bearer is rejected before
// any collaborator call.
func (h *Handler) GenerateInsights(w http.ResponseWriter, r *http.Request) {
	if !h.keyConfigured {
		http.Error(w, `{"error":"OpenAI API key not configured"}`, http.StatusInternalServerError)
		return
	}

	var req InsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.MVPID == "" {
		http.Error(w, `{"error":"mvpId is required"}`, http.StatusBadRequest)
		return
	}

	bundle, generatedAt, err := h.generator.GenerateInsights(r.Context(), auth.UserID(r), req.MVPID, req.MVP, req.Regenerate)
	if err != nil {
		h.log.Errorf("mvp insights: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to generate insights",
		})
		return
	}

	writeJSON(w, http.StatusOK, InsightsResponse{Success: true, Insights: bundle, GeneratedAt: generatedAt})
}

// GetInsights returns the stored bundle for an owned plan.
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	mvpID := r.URL.Query().Get("mvpId")
	if mvpID == "" {
		http.Error(w, `{"error":"mvpId is required"}`, http.StatusBadRequest)
		return
	}

	plan, err := h.plans.GetPlan(r.Context(), auth.UserID(r), mvpID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"MVP plan not found or access denied"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, InsightsResponse{
		Success:     true,
		Insights:    plan.Insights,
		GeneratedAt: plan.InsightsGeneratedAt,
	})
}

// Create saves a plan built by the MVP wizard.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var data models.PlanData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if data.ProblemStatement == "" || data.Solution == "" {
		http.Error(w, `{"error":"problemStatement and solution are required"}`, http.StatusBadRequest)
		return
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	plan, err := h.plans.CreatePlan(r.Context(), auth.UserID(r), data)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// List returns all of the user's plans, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.ListPlans(r.Context(), auth.UserID(r))
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if plans == nil {
		plans = []models.MVPPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// Get returns a single owned plan.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plan, err := h.plans.GetPlan(r.Context(), auth.UserID(r), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Delete removes an owned plan.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.plans.DeletePlan(r.Context(), auth.UserID(r), id)
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
