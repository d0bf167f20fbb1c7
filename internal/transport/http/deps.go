package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/travel-advisor/internal/pkg/metrics"
	"github.com/travel-advisor/internal/transport/http/handler"
	"go.uber.org/zap"
)

// Common holds what every service router shares.
type Common struct {
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	// Health lists the dependency checks served on /health.
	Health map[string]handler.Pinger
}

func (c Common) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c Common) gatherer() prometheus.Gatherer {
	if c.Gatherer == nil {
		return prometheus.DefaultGatherer
	}
	return c.Gatherer
}
