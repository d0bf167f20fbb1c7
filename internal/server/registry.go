package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Service is one HTTP microservice of the process.
type Service struct {
	Name    string
	Port    string
	Handler http.Handler
}

type running struct {
	svc Service
	srv *http.Server
	ln  net.Listener
}

// Registry starts a fixed set of services and stops them together.
type Registry struct {
	services []Service
	retries  int
	delay    time.Duration
	log      *zap.Logger
	listen   func(network, addr string) (net.Listener, error)

	mu      sync.Mutex
	running []running
	errCh   chan error
}

func NewRegistry(retries int, delay time.Duration, log *zap.Logger, services ...Service) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	if retries < 0 {
		retries = 0
	}
	return &Registry{
		services: services,
		retries:  retries,
		delay:    delay,
		log:      log.Named("server"),
		listen:   net.Listen,
	}
}

// Names lists the registered services in registration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.services))
	for _, s := range r.services {
		out = append(out, s.Name)
	}
	return out
}

// Only narrows the registry to the named services. Unknown names are an error.
func (r *Registry) Only(names []string) error {
	if len(names) == 0 {
		return nil
	}
	byName := make(map[string]Service, len(r.services))
	for _, s := range r.services {
		byName[s.Name] = s
	}
	selected := make([]Service, 0, len(names))
	for _, n := range names {
		s, ok := byName[strings.TrimSpace(n)]
		if !ok {
			return fmt.Errorf("unknown service %q (known: %s)", n, strings.Join(r.Names(), ", "))
		}
		selected = append(selected, s)
	}
	r.services = selected
	return nil
}

// Start binds and serves every service. A service whose listener cannot be opened is
// retried up to the configured count; a terminal failure stops the ones already started.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errCh != nil {
		return errors.New("registry already started")
	}
	r.errCh = make(chan error, len(r.services))

	for _, svc := range r.services {
		ln, err := r.listenWithRetry(ctx, svc)
		if err != nil {
			r.shutdownLocked(context.Background())
			return err
		}
		srv := &http.Server{
			Handler:      svc.Handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		r.running = append(r.running, running{svc: svc, srv: srv, ln: ln})

		go func(svc Service, srv *http.Server, ln net.Listener) {
			r.log.Info("service listening", zap.String("service", svc.Name), zap.String("addr", ln.Addr().String()))
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				r.errCh <- fmt.Errorf("%s: %w", svc.Name, err)
			}
		}(svc, srv, ln)
	}
	return nil
}

func (r *Registry) listenWithRetry(ctx context.Context, svc Service) (net.Listener, error) {
	addr := ":" + svc.Port
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			r.log.Warn("retrying service startup",
				zap.String("service", svc.Name),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", r.retries),
				zap.Error(lastErr),
			)
			select {
			case <-time.After(r.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		ln, err := r.listen("tcp", addr)
		if err == nil {
			return ln, nil
		}
		lastErr = err
	}
	r.log.Error("service failed to start", zap.String("service", svc.Name), zap.Error(lastErr))
	return nil, fmt.Errorf("start %s after %d retries: %w", svc.Name, r.retries, lastErr)
}

// Addr returns the bound address of a running service, or "" when it is not running.
func (r *Registry) Addr(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rs := range r.running {
		if rs.svc.Name == name {
			return rs.ln.Addr().String()
		}
	}
	return ""
}

// Shutdown gracefully stops every running service.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdownLocked(ctx)
}

func (r *Registry) shutdownLocked(ctx context.Context) {
	for _, rs := range r.running {
		if err := rs.srv.Shutdown(ctx); err != nil {
			r.log.Error("forced shutdown", zap.String("service", rs.svc.Name), zap.Error(err))
			continue
		}
		r.log.Info("service stopped", zap.String("service", rs.svc.Name))
	}
	r.running = nil
}

// Run starts the services and blocks until ctx ends or one of them fails, then shuts all down.
func (r *Registry) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-r.errCh:
		r.log.Error("service stopped unexpectedly", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	r.Shutdown(shutdownCtx)
	return runErr
}
