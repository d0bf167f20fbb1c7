package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/travel-advisor/internal/application/spot"
	"github.com/travel-advisor/internal/domain"
	"github.com/travel-advisor/internal/pkg/validate"
	"go.uber.org/zap"
)

// SpotHandler serves the spot discovery endpoints.
type SpotHandler struct {
	svc spot.Service
	log *zap.Logger
}

func NewSpotHandler(svc spot.Service, log *zap.Logger) *SpotHandler {
	return &SpotHandler{svc: svc, log: orNop(log)}
}

type batchSpotRequest struct {
	CityName  string   `json:"cityName" validate:"required"`
	SpotNames []string `json:"spotNames" validate:"required,min=1,dive,required"`
}

func (h *SpotHandler) PopularSpots(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "cityName")
	preference := chi.URLParam(r, "preference")
	res, err := h.svc.PopularSpots(r.Context(), city, preference)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, "cityName is required")
			return
		}
		writeInternal(w, r, h.log, "Failed to fetch tourist spots", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *SpotHandler) SpotInfo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	spotID, err := h.svc.Resolve(r.Context(), q.Get("spotName"), q.Get("cityName"))
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, "spotName and cityName are required")
			return
		}
		writeInternal(w, r, h.log, "Failed to fetch search result", err)
		return
	}
	writeJSON(w, http.StatusOK, SpotIDEnvelope{SpotID: spotID})
}

func (h *SpotHandler) SpotInfoBatch(w http.ResponseWriter, r *http.Request) {
	var req batchSpotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := h.svc.ResolveMany(r.Context(), req.CityName, req.SpotNames)
	out := BatchSpotEnvelope{Results: make([]BatchSpotResult, 0, len(results))}
	for _, res := range results {
		item := BatchSpotResult{SpotName: res.Key, SpotID: res.Value}
		if !res.OK() {
			item.SpotID = ""
			item.Error = "Failed to fetch search result"
			if errors.Is(res.Err, domain.ErrNotFound) {
				item.Error = "Spot not found"
			}
		}
		out.Results = append(out.Results, item)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SpotHandler) SpotDetails(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Details(r.Context(), r.URL.Query().Get("spotId"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Spot not found")
		case errors.Is(err, domain.ErrBadRequest):
			writeError(w, http.StatusBadRequest, "spotId is required")
		default:
			writeInternal(w, r, h.log, "Failed to retrieve spot details", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, SpotDetailsEnvelope{SpotDetails: s})
}
