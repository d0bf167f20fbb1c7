package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/travel-advisor/internal/application/user"
	"github.com/travel-advisor/internal/domain"
	"github.com/travel-advisor/internal/pkg/validate"
	"go.uber.org/zap"
)

// UserHandler serves the account endpoints.
type UserHandler struct {
	svc user.Service
	log *zap.Logger
}

func NewUserHandler(svc user.Service, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: orNop(log)}
}

// UserProfile is the public view of a user; the TOTP seed never appears.
type UserProfile struct {
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	Created       time.Time `json:"created"`
	FavoriteSpots []string  `json:"favoriteSpots"`
	TravelPlans   []string  `json:"travelPlans"`
}

func toProfile(u *domain.User) UserProfile {
	return UserProfile{
		UserID:        u.UserID,
		Username:      u.Username,
		Created:       u.Created,
		FavoriteSpots: nonNil(u.FavoriteSpots),
		TravelPlans:   nonNil(u.TravelPlans),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// authError maps account errors to the client-facing 400/401 messages.
func authError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, user.ErrUsernameTaken):
		return http.StatusBadRequest, "Username already exists", true
	case errors.Is(err, user.ErrPendingMissing):
		return http.StatusBadRequest, "Invalid request or user not found", true
	case errors.Is(err, user.ErrUnknownUser):
		return http.StatusBadRequest, "User not found", true
	case errors.Is(err, user.ErrInvalidOTP):
		return http.StatusBadRequest, "Invalid OTP", true
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid token", true
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, "invalid request", true
	}
	return 0, "", false
}

func (h *UserHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, msg, ok := authError(err); ok {
		writeError(w, status, msg)
		return
	}
	writeInternal(w, r, h.log, "Internal Server Error", err)
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	qr, err := h.svc.Register(r.Context(), req.Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, QRCodeEnvelope{QRCodeURL: qr})
}

func (h *UserHandler) ValidateOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.OTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, userID, err := h.svc.ValidateOTP(r.Context(), req.Username, req.OTP)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Message: "User successfully registered", Token: token, UserID: userID})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.OTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, userID, err := h.svc.Login(r.Context(), req.Username, req.OTP)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Message: "Logged in successfully", Token: token, UserID: userID})
}

func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshTokenRequest
	if err := decodeJSON(r, &req); err != nil || req.ExpiredToken == "" {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	token, err := h.svc.RefreshToken(r.Context(), req.ExpiredToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{Token: token})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(u))
}

func (h *UserHandler) SetTravelPlans(w http.ResponseWriter, r *http.Request) {
	var req domain.TravelPlansRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SetTravelPlans(r.Context(), chi.URLParam(r, "userId"), req.TravelPlans); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Travel plans updated successfully"})
}

func (h *UserHandler) SetFavoriteSpots(w http.ResponseWriter, r *http.Request) {
	var req domain.FavoriteSpotsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SetFavoriteSpots(r.Context(), chi.URLParam(r, "userId"), req.FavoriteSpots); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Favorite spots updated successfully"})
}
