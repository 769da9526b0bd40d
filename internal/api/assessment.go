package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
	"github.com/MikeSquared-Agency/Resilience/internal/export"
	"github.com/MikeSquared-Agency/Resilience/internal/session"
	"github.com/MikeSquared-Agency/Resilience/internal/store"
)

type AssessmentHandler struct {
	session *session.Session
	logger  *slog.Logger
}

func NewAssessmentHandler(s *session.Session, logger *slog.Logger) *AssessmentHandler {
	return &AssessmentHandler{session: s, logger: logger}
}

type CatalogResponse struct {
	Groups  []catalog.Group            `json:"groups"`
	Metrics []catalog.MetricDefinition `json:"metrics"`
}

type SetMetricRequest struct {
	Value *int `json:"value"`
}

type SetWeightRequest struct {
	Value *float64 `json:"value"`
}

func (h *AssessmentHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	cat := h.session.Catalog()
	writeJSON(w, http.StatusOK, CatalogResponse{Groups: catalog.Groups(), Metrics: cat.Definitions()})
}

func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.View())
}

func (h *AssessmentHandler) SetMetric(w http.ResponseWriter, r *http.Request) {
	var req SetMetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "integer value required"})
		return
	}

	view, err := h.session.SetMetric(r.Context(), chi.URLParam(r, "id"), *req.Value)
	if errors.Is(err, store.ErrInvalidID) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *AssessmentHandler) SetWeight(w http.ResponseWriter, r *http.Request) {
	var req SetWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "numeric value required"})
		return
	}

	view, err := h.session.SetWeight(r.Context(), catalog.Group(chi.URLParam(r, "group")), *req.Value)
	if errors.Is(err, store.ErrUnknownGroup) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *AssessmentHandler) SetContext(w http.ResponseWriter, r *http.Request) {
	var req store.AssessmentContext
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	writeJSON(w, http.StatusOK, h.session.SetContext(r.Context(), req))
}

func (h *AssessmentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Reset(r.Context()))
}

func (h *AssessmentHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	view := h.session.View()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="resilience-assessment.csv"`)
	if err := export.WriteCSV(w, h.session.Catalog(), view.Snapshot, view.Result); err != nil {
		h.logger.Warn("csv export failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
