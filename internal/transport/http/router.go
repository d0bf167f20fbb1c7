package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/travel-advisor/internal/application/plan"
	"github.com/travel-advisor/internal/application/spot"
	"github.com/travel-advisor/internal/application/user"
	"github.com/travel-advisor/internal/config"
	jwtinfra "github.com/travel-advisor/internal/infrastructure/jwt"
	"github.com/travel-advisor/internal/transport/http/handler"
	appmiddleware "github.com/travel-advisor/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Service names used in logs, metrics labels and the registry.
const (
	ServiceSpots = "spots"
	ServicePlans = "plans"
	ServiceUsers = "users"
)

type tokenVerifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// newBaseRouter applies the middleware stack shared by all services and mounts /health and /metrics.
func newBaseRouter(cfg *config.Config, service string, common Common) chi.Router {
	log := common.logger().Named(service)

	r := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.Instrument(service, common.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	healthH := handler.NewHealthHandler(service, common.Health)
	r.Get("/health", healthH.Check)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(common.gatherer(), promhttp.HandlerOpts{}))
	return r
}

// NewSpotRouter builds the spot discovery service router.
func NewSpotRouter(cfg *config.Config, svc spot.Service, common Common) http.Handler {
	r := newBaseRouter(cfg, ServiceSpots, common)
	h := handler.NewSpotHandler(svc, common.logger().Named(ServiceSpots))

	r.Get("/popularSpotIn/{cityName}", h.PopularSpots)
	r.Get("/popularSpotIn/{cityName}/{preference}", h.PopularSpots)
	r.Get("/spotInfo", h.SpotInfo)
	r.Post("/spotInfo/batch", h.SpotInfoBatch)
	r.Get("/spotDetails", h.SpotDetails)
	return r
}

// NewPlanRouter builds the travel planning service router.
func NewPlanRouter(cfg *config.Config, svc plan.Service, common Common) http.Handler {
	r := newBaseRouter(cfg, ServicePlans, common)
	h := handler.NewPlanHandler(svc, common.logger().Named(ServicePlans))

	r.Route("/plans", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Post("/createTravelGuide", h.CreateTravelGuide)
		r.Get("/{planId}", h.Get)
		r.Delete("/{planId}", h.Delete)
	})
	return r
}

// NewUserRouter builds the user account service router.
func NewUserRouter(cfg *config.Config, svc user.Service, tokens tokenVerifier, common Common) http.Handler {
	r := newBaseRouter(cfg, ServiceUsers, common)
	h := handler.NewUserHandler(svc, common.logger().Named(ServiceUsers))

	// 5 requests/second, burst of 10 on the unauthenticated account endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	r.Route("/users", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/register", h.Register)
		r.With(sensitiveRL.Limit).Post("/validate-otp", h.ValidateOTP)
		r.With(sensitiveRL.Limit).Post("/login", h.Login)
		r.Post("/refresh-token", h.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(tokens))

			r.Get("/{userId}", h.Get)
			r.Put("/{userId}/travelPlans", h.SetTravelPlans)
			r.Put("/{userId}/favoriteSpots", h.SetFavoriteSpots)
		})
	})
	return r
}
