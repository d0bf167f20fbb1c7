package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/travel-advisor/internal/application/plan"
	"github.com/travel-advisor/internal/domain"
	"github.com/travel-advisor/internal/pkg/validate"
	"go.uber.org/zap"
)

// PlanHandler serves the travel planning endpoints.
type PlanHandler struct {
	svc plan.Service
	log *zap.Logger
}

func NewPlanHandler(svc plan.Service, log *zap.Logger) *PlanHandler {
	return &PlanHandler{svc: svc, log: orNop(log)}
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "planId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plan not found")
			return
		}
		writeInternal(w, r, h.log, "Internal server error", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	planID, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeInternal(w, r, h.log, "Internal Server Error", err)
		return
	}
	writeJSON(w, http.StatusOK, PlanIDEnvelope{PlanID: planID})
}

func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "planId")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plan not found")
			return
		}
		writeInternal(w, r, h.log, "Internal server error", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Travel plan deleted successfully"})
}

func (h *PlanHandler) CreateTravelGuide(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateGuideRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	guide, err := h.svc.GenerateGuide(r.Context(), req)
	if err != nil {
		writeInternal(w, r, h.log, "Failed to create travel guide", err)
		return
	}
	writeJSON(w, http.StatusOK, guide)
}
