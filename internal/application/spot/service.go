package spot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/travel-advisor/internal/domain"
	"github.com/travel-advisor/internal/pkg/id"
	"github.com/travel-advisor/internal/pkg/metrics"
	"go.uber.org/zap"
)

const (
	maxTips            = 3
	searchLimit        = 1
	popularSpotsTokens = 400
)

type Service interface {
	// Resolve returns the id of the stored spot for (name, city), fetching it from the
	// places provider when it is missing or stale.
	Resolve(ctx context.Context, name, city string) (string, error)
	ResolveMany(ctx context.Context, city string, names []string) []domain.Result[string]
	Details(ctx context.Context, spotID string) (*domain.Spot, error)
	PopularSpots(ctx context.Context, city, preference string) (*domain.PopularSpots, error)
}

type spotStore interface {
	FindByName(ctx context.Context, name string) ([]domain.Spot, error)
	Get(ctx context.Context, spotID string) (*domain.Spot, error)
	Insert(ctx context.Context, s *domain.Spot) error
	Replace(ctx context.Context, s *domain.Spot) error
}

type placesProvider interface {
	Search(ctx context.Context, query, near string, limit int) ([]domain.PlaceCandidate, error)
	Details(ctx context.Context, placeID string) (*domain.PlaceDetails, error)
}

type completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type popularCache interface {
	Get(ctx context.Context, city, preference string) (*domain.PopularSpots, error)
	Set(ctx context.Context, city, preference string, v *domain.PopularSpots) error
}

type service struct {
	spots      spotStore
	places     placesProvider
	completer  completer
	cache      popularCache
	staleAfter time.Duration
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
}

// ServiceDeps wires the spot service. Cache and Metrics are optional.
type ServiceDeps struct {
	SpotRepo   spotStore
	Places     placesProvider
	Completer  completer
	Cache      popularCache
	StaleAfter time.Duration
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

func NewService(deps ServiceDeps) Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	staleAfter := deps.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 24 * time.Hour
	}
	return &service{
		spots:      deps.SpotRepo,
		places:     deps.Places,
		completer:  deps.Completer,
		cache:      deps.Cache,
		staleAfter: staleAfter,
		metrics:    deps.Metrics,
		log:        log.Named("spot"),
		now:        time.Now,
	}
}

func (s *service) Resolve(ctx context.Context, name, city string) (string, error) {
	name = strings.TrimSpace(name)
	city = strings.TrimSpace(city)
	if name == "" || city == "" {
		return "", fmt.Errorf("spot name and city are required: %w", domain.ErrBadRequest)
	}

	spotID, outcome, err := s.resolve(ctx, name, city)
	if err != nil {
		s.metrics.ObserveResolve(metrics.ResolveError)
		return "", err
	}
	s.metrics.ObserveResolve(outcome)
	s.log.Debug("spot resolved",
		zap.String("name", name),
		zap.String("city", city),
		zap.String("spot_id", spotID),
		zap.String("outcome", outcome),
	)
	return spotID, nil
}

func (s *service) resolve(ctx context.Context, name, city string) (string, string, error) {
	matches, err := s.spots.FindByName(ctx, name)
	if err != nil {
		return "", "", fmt.Errorf("find spot %q: %w", name, err)
	}
	existing := matchCity(matches, city)
	now := s.now().UTC()

	if existing != nil && !existing.IsStale(now, s.staleAfter) {
		return existing.ID, metrics.ResolveHit, nil
	}

	fetched, err := s.fetch(ctx, name, city)
	if err != nil {
		return "", "", err
	}
	fetched.CreatedAt = now

	if existing != nil {
		fetched.ID = existing.ID
		if err := s.spots.Replace(ctx, fetched); err != nil {
			return "", "", fmt.Errorf("refresh spot %s: %w", existing.ID, err)
		}
		return existing.ID, metrics.ResolveRefresh, nil
	}

	fetched.ID = id.New()
	if err := s.spots.Insert(ctx, fetched); err != nil {
		return "", "", fmt.Errorf("insert spot: %w", err)
	}
	return fetched.ID, metrics.ResolveCreate, nil
}

// fetch runs the search-then-details lookup and assembles a spot without id or timestamp.
func (s *service) fetch(ctx context.Context, name, city string) (*domain.Spot, error) {
	candidates, err := s.places.Search(ctx, name, city, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	place, ok := first(candidates)
	if !ok {
		return nil, fmt.Errorf("no place matches %q near %q: %w", name, city, domain.ErrNotFound)
	}

	details, err := s.places.Details(ctx, place.ID)
	if err != nil {
		return nil, fmt.Errorf("place details %s: %w", place.ID, err)
	}

	sp := &domain.Spot{
		Name:        place.Name,
		Description: details.Description,
		Address:     place.Address,
		City:        city,
		Hours:       details.Hours,
		Rating:      details.Rating,
		Price:       details.Price,
		Tips:        append([]string{}, firstN(details.Tips, maxTips)...),
		Website:     details.Website,
	}
	if photo, ok := first(details.Photos); ok {
		sp.Photo = &photo
	}
	return sp, nil
}

func matchCity(spots []domain.Spot, city string) *domain.Spot {
	want := strings.ToLower(strings.TrimSpace(city))
	for i := range spots {
		if strings.ToLower(strings.TrimSpace(spots[i].City)) == want {
			return &spots[i]
		}
	}
	return nil
}

// ResolveMany resolves each name in order and reports a result per name.
// A failed item never aborts the rest.
func (s *service) ResolveMany(ctx context.Context, city string, names []string) []domain.Result[string] {
	out := make([]domain.Result[string], 0, len(names))
	for _, name := range names {
		spotID, err := s.Resolve(ctx, name, city)
		if err != nil {
			s.log.Warn("spot resolution failed", zap.String("name", name), zap.String("city", city), zap.Error(err))
		}
		out = append(out, domain.Result[string]{Key: name, Value: spotID, Err: err})
	}
	return out
}

func (s *service) Details(ctx context.Context, spotID string) (*domain.Spot, error) {
	if strings.TrimSpace(spotID) == "" {
		return nil, fmt.Errorf("spotId is required: %w", domain.ErrBadRequest)
	}
	return s.spots.Get(ctx, spotID)
}

func (s *service) PopularSpots(ctx context.Context, city, preference string) (*domain.PopularSpots, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("city name is required: %w", domain.ErrBadRequest)
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, city, preference)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("popular spots cache read failed", zap.String("city", city), zap.Error(err))
		}
	}

	reply, err := s.completer.Complete(ctx, popularSpotsPrompt(city, preference), popularSpotsTokens)
	if err != nil {
		return nil, fmt.Errorf("complete popular spots: %w", err)
	}

	var out domain.PopularSpots
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &out); err != nil {
		return nil, fmt.Errorf("parse popular spots reply: %v: %w", err, domain.ErrMalformedReply)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, city, preference, &out); err != nil {
			s.log.Warn("popular spots cache write failed", zap.String("city", city), zap.Error(err))
		}
	}
	return &out, nil
}

func popularSpotsPrompt(city, preference string) string {
	var pref string
	if preference != "" {
		pref = fmt.Sprintf("based on the user preference %q ", preference)
	}
	return fmt.Sprintf(
		`Is %s recognized as a city? If no, reply in JSON format {"isCity": false}. `+
			`Otherwise, list up to 12 most popular tourist spots in %s %sin JSON format as follows: `+
			`{"isCity": true, "spots": ["Spot 1", "Spot 2", ...]}.`,
		city, city, pref,
	)
}
