package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travel-advisor/internal/config"
	"github.com/travel-advisor/internal/domain"
	jwtinfra "github.com/travel-advisor/internal/infrastructure/jwt"
	"github.com/travel-advisor/internal/pkg/metrics"
)

// --- stubs ---

type stubSpotSvc struct{ lastPreference string }

func (s *stubSpotSvc) Resolve(context.Context, string, string) (string, error) { return "spot-1", nil }
func (s *stubSpotSvc) ResolveMany(context.Context, string, []string) []domain.Result[string] {
	return nil
}
func (s *stubSpotSvc) Details(context.Context, string) (*domain.Spot, error) {
	return nil, domain.ErrNotFound
}
func (s *stubSpotSvc) PopularSpots(_ context.Context, _ string, preference string) (*domain.PopularSpots, error) {
	s.lastPreference = preference
	return &domain.PopularSpots{IsCity: true}, nil
}

type stubPlanSvc struct{}

func (stubPlanSvc) Get(context.Context, string) (*domain.TravelPlan, error) { return nil, domain.ErrNotFound }
func (stubPlanSvc) Create(context.Context, domain.CreatePlanRequest) (string, error) {
	return "p1", nil
}
func (stubPlanSvc) Delete(context.Context, string) error { return nil }
func (stubPlanSvc) GenerateGuide(context.Context, domain.CreateGuideRequest) (*domain.TravelGuide, error) {
	return &domain.TravelGuide{}, nil
}

type stubUserSvc struct{}

func (stubUserSvc) Register(context.Context, string) (string, error) { return "data:", nil }
func (stubUserSvc) ValidateOTP(context.Context, string, string) (string, string, error) {
	return "t", "u1", nil
}
func (stubUserSvc) Login(context.Context, string, string) (string, string, error) {
	return "t", "u1", nil
}
func (stubUserSvc) RefreshToken(context.Context, string) (string, error) { return "t", nil }
func (stubUserSvc) Get(_ context.Context, userID string) (*domain.User, error) {
	return &domain.User{UserID: userID, Username: "alice"}, nil
}
func (stubUserSvc) SetTravelPlans(context.Context, string, []string) error   { return nil }
func (stubUserSvc) SetFavoriteSpots(context.Context, string, []string) error { return nil }

func testCommon() Common {
	reg := prometheus.NewRegistry()
	return Common{Metrics: metrics.New("test", reg), Gatherer: reg}
}

func testConfig() *config.Config {
	return &config.Config{AllowedOrigins: []string{"*"}, JWTSecret: "s3cret", JWTExpiry: time.Hour}
}

func serve(h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// --- tests ---

func TestSpotRouter_Routes(t *testing.T) {
	svc := &stubSpotSvc{}
	r := NewSpotRouter(testConfig(), svc, testCommon())

	rr := serve(r, http.MethodGet, "/popularSpotIn/Paris", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "", svc.lastPreference)

	rr = serve(r, http.MethodGet, "/popularSpotIn/Paris/museums", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "museums", svc.lastPreference)

	rr = serve(r, http.MethodGet, "/spotInfo?spotName=Louvre&cityName=Paris", "", nil)
	assert.JSONEq(t, `{"spotId":"spot-1"}`, rr.Body.String())

	rr = serve(r, http.MethodGet, "/spotDetails?spotId=x", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPlanRouter_Routes(t *testing.T) {
	r := NewPlanRouter(testConfig(), stubPlanSvc{}, testCommon())

	rr := serve(r, http.MethodPost, "/plans", `{"timeCost":1}`, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"planId":"p1"}`, rr.Body.String())

	rr = serve(r, http.MethodPost, "/plans", `{"timeCost":"3","startPoint":"Gare du Nord, Paris","spots":[]}`, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(r, http.MethodPost, "/plans/createTravelGuide",
		`{"startPoint":"Gare du Nord, Paris","spots":{"Paris":["Louvre"]},"timeCost":"3"}`, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(r, http.MethodGet, "/plans/p404", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(r, http.MethodDelete, "/plans/p1", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUserRouter_ProtectedRoutesNeedToken(t *testing.T) {
	cfg := testConfig()
	tokens, err := jwtinfra.NewProvider(cfg)
	require.NoError(t, err)
	r := NewUserRouter(cfg, stubUserSvc{}, tokens, testCommon())

	rr := serve(r, http.MethodGet, "/users/u1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(r, http.MethodPut, "/users/u1/favoriteSpots", `{"favoriteSpots":[]}`, map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	tok, err := tokens.Sign("u1")
	require.NoError(t, err)
	rr = serve(r, http.MethodGet, "/users/u1", "", map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"userId":"u1"`)

	rr = serve(r, http.MethodPost, "/users/refresh-token", `{"expiredToken":"x"}`, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUserRouter_RateLimitsLogin(t *testing.T) {
	cfg := testConfig()
	tokens, err := jwtinfra.NewProvider(cfg)
	require.NoError(t, err)
	r := NewUserRouter(cfg, stubUserSvc{}, tokens, testCommon())

	var limited bool
	for i := 0; i < 20; i++ {
		hdr := map[string]string{"X-Forwarded-For": fmt.Sprintf("10.0.0.%d", i)}
		rr := serve(r, http.MethodPost, "/users/login", `{"username":"alice","otp":"123456"}`, hdr)
		if rr.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited)
}

func TestUserRouter_TrustedProxyHeadersSeparateClients(t *testing.T) {
	cfg := testConfig()
	cfg.TrustProxyHeaders = true
	tokens, err := jwtinfra.NewProvider(cfg)
	require.NoError(t, err)
	r := NewUserRouter(cfg, stubUserSvc{}, tokens, testCommon())

	for i := 0; i < 20; i++ {
		hdr := map[string]string{"X-Real-Ip": fmt.Sprintf("198.51.100.%d", i)}
		rr := serve(r, http.MethodPost, "/users/login", `{"username":"alice","otp":"123456"}`, hdr)
		require.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestBaseRouter_HealthAndMetrics(t *testing.T) {
	r := NewPlanRouter(testConfig(), stubPlanSvc{}, testCommon())

	rr := serve(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"service":"plans","status":"ok"}`, rr.Body.String())

	serve(r, http.MethodGet, "/plans/p404", "", nil)
	rr = serve(r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `test_http_requests_total{method="GET",route="/plans/{planId}",service="plans",status="404"} 1`)
}
