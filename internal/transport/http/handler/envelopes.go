package handler

import (
	"encoding/json"
	"net/http"

	"github.com/travel-advisor/internal/domain"
	"go.uber.org/zap"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps validate-otp and login responses.
type AuthEnvelope struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
}

type TokenEnvelope struct {
	Token string `json:"token"`
}

type QRCodeEnvelope struct {
	QRCodeURL string `json:"qrCodeUrl"`
}

type SpotIDEnvelope struct {
	SpotID string `json:"spotId"`
}

type SpotDetailsEnvelope struct {
	SpotDetails *domain.Spot `json:"spotDetails"`
}

// BatchSpotResult reports one name of a batch resolution.
type BatchSpotResult struct {
	SpotName string `json:"spotName"`
	SpotID   string `json:"spotId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type BatchSpotEnvelope struct {
	Results []BatchSpotResult `json:"results"`
}

type PlanIDEnvelope struct {
	PlanID string `json:"planId"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeInternal logs the cause and answers 500 with a generic message.
func writeInternal(w http.ResponseWriter, r *http.Request, log *zap.Logger, msg string, err error) {
	log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, msg)
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
