package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/assert/v2"

	"github.com/NPierce1798/launchlens/internal/auth"
	"github.com/NPierce1798/launchlens/internal/llm"
	"github.com/NPierce1798/launchlens/internal/models"
	"github.com/NPierce1798/launchlens/internal/store"
)

type fakeReportStore struct {
	mu       sync.Mutex
	upserts  map[string]models.ReportData
	upsertEr error
	reports  []models.CompetitorReport
	getErr   error
}

func (f *fakeReportStore) Upsert(ctx context.Context, userID, competitorName string, data models.ReportData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upserts == nil {
		f.upserts = map[string]models.ReportData{}
	}
	f.upserts[userID+"/"+competitorName] = data
	return f.upsertEr
}

func (f *fakeReportStore) ListByUser(ctx context.Context, userID string) ([]models.CompetitorReport, error) {
	return f.reports, f.getErr
}

func (f *fakeReportStore) GetByName(ctx context.Context, userID, competitorName string) (*models.CompetitorReport, error) {
	for i := range f.reports {
		if f.reports[i].CompetitorName == competitorName {
			return &f.reports[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeReportStore) Delete(ctx context.Context, userID, competitorName string) error {
	return f.getErr
}

// withUser fakes the auth middleware for handler tests.
func withUser(userID string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), auth.UserIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func newTestHandler(reports ReportWriter) *Handler {
	builder := NewBuilder(
		&fakeEnricher{},
		&fakeNews{items: map[string][]models.NewsItem{
			"Acme": {{Title: "t", Link: "l", Content: "c"}},
		}},
		&fakeSummarizer{result: &llm.Summary{Summary: "fine"}},
		quietLogger(),
	)
	return NewHandler(builder, reports, quietLogger())
}

func TestGenerate_ReturnsBatchAndWritesBack(t *testing.T) {
	reports := &fakeReportStore{}
	h := newTestHandler(reports)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/reports/generate",
		strings.NewReader(`[{"name":"Acme","website":"https://acme.io"},{"name":"Beta"}]`))
	withUser("u1", h.Generate)(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Data []models.ReportData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 2, len(res.Data))
	assert.Equal(t, "Acme", res.Data[0].Original.Name)
	assert.Equal(t, "Beta", res.Data[1].Original.Name)

	assert.Equal(t, 2, len(reports.upserts))
	assert.Equal(t, "fine", reports.upserts["u1/Acme"].Summary)
}

func TestGenerate_WriteBackFailureIsSoft(t *testing.T) {
	reports := &fakeReportStore{upsertEr: errors.New("mongo down")}
	h := newTestHandler(reports)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/reports/generate",
		strings.NewReader(`[{"name":"Acme"}]`))
	withUser("u1", h.Generate)(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Data []models.ReportData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, len(res.Data))
}

func TestGenerate_InvalidBody(t *testing.T) {
	h := newTestHandler(&fakeReportStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/reports/generate", strings.NewReader(`{"not":"an array"}`))
	withUser("u1", h.Generate)(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_EmptyBatch(t *testing.T) {
	h := newTestHandler(&fakeReportStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/reports/generate", strings.NewReader(`[]`))
	withUser("u1", h.Generate)(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReport_ByName(t *testing.T) {
	reports := &fakeReportStore{reports: []models.CompetitorReport{
		{UserID: "u1", CompetitorName: "Acme", ReportData: models.ReportData{Summary: "s"}},
	}}
	h := newTestHandler(reports)

	r := chi.NewRouter()
	r.Get("/api/reports/{name}", withUser("u1", h.Get))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/reports/Acme", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res models.CompetitorReport
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Acme", res.CompetitorName)
}

func TestGetReport_NotFound(t *testing.T) {
	h := newTestHandler(&fakeReportStore{})

	r := chi.NewRouter()
	r.Get("/api/reports/{name}", withUser("u1", h.Get))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/reports/Nope", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
