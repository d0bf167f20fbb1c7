package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/travel-advisor/internal/application/plan"
	"github.com/travel-advisor/internal/application/spot"
	"github.com/travel-advisor/internal/application/user"
	"github.com/travel-advisor/internal/config"
	"github.com/travel-advisor/internal/infrastructure/foursquare"
	jwtinfra "github.com/travel-advisor/internal/infrastructure/jwt"
	"github.com/travel-advisor/internal/infrastructure/mongodb"
	"github.com/travel-advisor/internal/infrastructure/openai"
	redisinfra "github.com/travel-advisor/internal/infrastructure/redis"
	"github.com/travel-advisor/internal/infrastructure/totp"
	"github.com/travel-advisor/internal/pkg/logger"
	"github.com/travel-advisor/internal/pkg/metrics"
	"github.com/travel-advisor/internal/server"
	transporthttp "github.com/travel-advisor/internal/transport/http"
	"github.com/travel-advisor/internal/transport/http/handler"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const metricsNamespace = "travel_advisor"

// app holds the process-wide connections shared by every command.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	mongo    *mongo.Client
	db       *mongo.Database
	redis    *goredis.Client
}

func newApp(ctx context.Context) (*app, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	cfg := config.Load()

	zl, err := logger.New(logger.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &app{
		cfg:      cfg,
		log:      zl,
		registry: reg,
		metrics:  metrics.New(metricsNamespace, reg),
	}

	a.mongo, err = mongodb.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.db = a.mongo.Database(cfg.MongoDB)
	mongodb.Bootstrap(ctx, a.db, cfg.MongoCollections, zl)

	if cfg.RedisAddr != "" {
		rc, err := redisinfra.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			zl.Warn("popular spots cache disabled", zap.Error(err))
		} else {
			a.redis = rc
		}
	}
	zl.Info("connections ready", zap.String("env", cfg.AppEnv), zap.String("mongo_db", cfg.MongoDB), zap.Bool("redis", a.redis != nil))
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.log.Error("mongo disconnect", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

func (a *app) common() transporthttp.Common {
	checks := map[string]handler.Pinger{
		"mongo": func(ctx context.Context) error { return a.mongo.Ping(ctx, nil) },
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}
	return transporthttp.Common{
		Logger:   a.log,
		Metrics:  a.metrics,
		Gatherer: a.registry,
		Health:   checks,
	}
}

func (a *app) tempUserRepo() *mongodb.TempUserRepo {
	return mongodb.NewTempUserRepo(a.db, a.cfg.MongoCollections.TempUsers)
}

// services builds the static registry of the three HTTP services.
func (a *app) services() ([]server.Service, error) {
	cfg := a.cfg
	common := a.common()

	completer := openai.NewCompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel, a.metrics)
	places := foursquare.NewClient(cfg.FoursquareBaseURL, cfg.FoursquareAPIKey, &http.Client{Timeout: 15 * time.Second}, a.metrics)

	spotDeps := spot.ServiceDeps{
		SpotRepo:   mongodb.NewSpotRepo(a.db, cfg.MongoCollections.Spots),
		Places:     places,
		Completer:  completer,
		StaleAfter: cfg.SpotStaleAfter,
		Metrics:    a.metrics,
		Logger:     a.log,
	}
	if a.redis != nil {
		spotDeps.Cache = redisinfra.NewPopularCache(a.redis, cfg.PopularCacheTTL)
	}
	spotSvc := spot.NewService(spotDeps)

	planSvc := plan.NewService(plan.ServiceDeps{
		PlanRepo:  mongodb.NewPlanRepo(a.db, cfg.MongoCollections.Plans),
		Completer: completer,
		Logger:    a.log,
	})

	tokens, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:      mongodb.NewUserRepo(a.db, cfg.MongoCollections.Users),
		TempUserRepo:  a.tempUserRepo(),
		Authenticator: totp.NewAuthenticator(totp.DefaultIssuer),
		Tokens:        tokens,
		Logger:        a.log,
	})

	return []server.Service{
		{Name: transporthttp.ServiceSpots, Port: cfg.SpotPort, Handler: transporthttp.NewSpotRouter(cfg, spotSvc, common)},
		{Name: transporthttp.ServicePlans, Port: cfg.PlanPort, Handler: transporthttp.NewPlanRouter(cfg, planSvc, common)},
		{Name: transporthttp.ServiceUsers, Port: cfg.UserPort, Handler: transporthttp.NewUserRouter(cfg, userSvc, tokens, common)},
	}, nil
}
