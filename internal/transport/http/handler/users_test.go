package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/travel-advisor/internal/application/user"
	"github.com/travel-advisor/internal/domain"
)

// --- mock ---

type mockUserSvc struct{ mock.Mock }

func (m *mockUserSvc) Register(ctx context.Context, username string) (string, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Error(1)
}

func (m *mockUserSvc) ValidateOTP(ctx context.Context, username, code string) (string, string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockUserSvc) Login(ctx context.Context, username, code string) (string, string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockUserSvc) RefreshToken(ctx context.Context, expiredToken string) (string, error) {
	args := m.Called(ctx, expiredToken)
	return args.String(0), args.Error(1)
}

func (m *mockUserSvc) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) SetTravelPlans(ctx context.Context, userID string, planIDs []string) error {
	return m.Called(ctx, userID, planIDs).Error(0)
}

func (m *mockUserSvc) SetFavoriteSpots(ctx context.Context, userID string, spotIDs []string) error {
	return m.Called(ctx, userID, spotIDs).Error(0)
}

// --- tests ---

func TestRegister(t *testing.T) {
	svc := new(mockUserSvc)
	svc.On("Register", mock.Anything, "alice").Return("data:image/png;base64,AAA", nil)
	svc.On("Register", mock.Anything, "bob").Return("", user.ErrUsernameTaken)
	h := NewUserHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.Register(rr, httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(`{"username":"alice"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"qrCodeUrl":"data:image/png;base64,AAA"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Register(rr, httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(`{"username":"bob"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Username already exists"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Register(rr, httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestValidateOTP(t *testing.T) {
	svc := new(mockUserSvc)
	svc.On("ValidateOTP", mock.Anything, "alice", "123456").Return("tok", "u1", nil)
	svc.On("ValidateOTP", mock.Anything, "alice", "000000").Return("", "", user.ErrInvalidOTP)
	svc.On("ValidateOTP", mock.Anything, "ghost", "123456").Return("", "", user.ErrPendingMissing)
	h := NewUserHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.ValidateOTP(rr, httptest.NewRequest(http.MethodPost, "/users/validate-otp", strings.NewReader(`{"username":"alice","otp":"123456"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"User successfully registered","token":"tok","userId":"u1"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ValidateOTP(rr, httptest.NewRequest(http.MethodPost, "/users/validate-otp", strings.NewReader(`{"username":"alice","otp":"000000"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid OTP"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ValidateOTP(rr, httptest.NewRequest(http.MethodPost, "/users/validate-otp", strings.NewReader(`{"username":"ghost","otp":"123456"}`)))
	assert.JSONEq(t, `{"error":"Invalid request or user not found"}`, rr.Body.String())
}

func TestLogin(t *testing.T) {
	svc := new(mockUserSvc)
	svc.On("Login", mock.Anything, "alice", "123456").Return("tok", "u1", nil)
	svc.On("Login", mock.Anything, "ghost", "123456").Return("", "", user.ErrUnknownUser)
	h := NewUserHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{"username":"alice","otp":"123456"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Logged in successfully","token":"tok","userId":"u1"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{"username":"ghost","otp":"123456"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, rr.Body.String())
}

func TestRefreshToken(t *testing.T) {
	svc := new(mockUserSvc)
	svc.On("RefreshToken", mock.Anything, "old").Return("new", nil)
	svc.On("RefreshToken", mock.Anything, "forged").Return("", user.ErrInvalidToken)
	h := NewUserHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.RefreshToken(rr, httptest.NewRequest(http.MethodPost, "/users/refresh-token", strings.NewReader(`{"expiredToken":"old"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"token":"new"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.RefreshToken(rr, httptest.NewRequest(http.MethodPost, "/users/refresh-token", strings.NewReader(`{"expiredToken":"forged"}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.RefreshToken(rr, httptest.NewRequest(http.MethodPost, "/users/refresh-token", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetUser_OmitsSecret(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	svc := new(mockUserSvc)
	svc.On("Get", mock.Anything, "u1").Return(&domain.User{
		UserID: "u1", Username: "alice", Created: created, TOTPSecret: "SEED", FavoriteSpots: []string{"s1"},
	}, nil)
	svc.On("Get", mock.Anything, "u2").Return(nil, domain.ErrNotFound)
	svc.On("Get", mock.Anything, "u3").Return(nil, errors.New("mongo down"))
	h := NewUserHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.Get(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/users/u1", nil), map[string]string{"userId": "u1"}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"userId":"u1","username":"alice","created":"2024-05-01T00:00:00Z","favoriteSpots":["s1"],"travelPlans":[]}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "SEED")

	rr = httptest.NewRecorder()
	h.Get(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/users/u2", nil), map[string]string{"userId": "u2"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.Get(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/users/u3", nil), map[string]string{"userId": "u3"}))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
}

func TestSetLists(t *testing.T) {
	svc := new(mockUserSvc)
	svc.On("SetTravelPlans", mock.Anything, "u1", []string{"p1"}).Return(nil)
	svc.On("SetFavoriteSpots", mock.Anything, "u1", []string{"s1", "s2"}).Return(nil)
	svc.On("SetFavoriteSpots", mock.Anything, "u9", []string{}).Return(domain.ErrNotFound)
	h := NewUserHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.SetTravelPlans(rr, withURLParams(httptest.NewRequest(http.MethodPut, "/users/u1/travelPlans",
		strings.NewReader(`{"travelPlans":["p1"]}`)), map[string]string{"userId": "u1"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Travel plans updated successfully"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.SetFavoriteSpots(rr, withURLParams(httptest.NewRequest(http.MethodPut, "/users/u1/favoriteSpots",
		strings.NewReader(`{"favoriteSpots":["s1","s2"]}`)), map[string]string{"userId": "u1"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Favorite spots updated successfully"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.SetFavoriteSpots(rr, withURLParams(httptest.NewRequest(http.MethodPut, "/users/u9/favoriteSpots",
		strings.NewReader(`{"favoriteSpots":[]}`)), map[string]string{"userId": "u9"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
