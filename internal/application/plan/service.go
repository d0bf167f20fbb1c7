package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/travel-advisor/internal/domain"
	"github.com/travel-advisor/internal/pkg/id"
	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, planID string) (*domain.TravelPlan, error)
	Create(ctx context.Context, req domain.CreatePlanRequest) (string, error)
	Delete(ctx context.Context, planID string) error
	GenerateGuide(ctx context.Context, req domain.CreateGuideRequest) (*domain.TravelGuide, error)
}

type planStore interface {
	Put(ctx context.Context, p *domain.TravelPlan) error
	Get(ctx context.Context, planID string) (*domain.TravelPlan, error)
	Delete(ctx context.Context, planID string) error
}

type completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type service struct {
	repo      planStore
	completer completer
	log       *zap.Logger
	now       func() time.Time
}

type ServiceDeps struct {
	PlanRepo  planStore
	Completer completer
	Logger    *zap.Logger
}

func NewService(deps ServiceDeps) Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		repo:      deps.PlanRepo,
		completer: deps.Completer,
		log:       log.Named("plan"),
		now:       time.Now,
	}
}

func (s *service) Get(ctx context.Context, planID string) (*domain.TravelPlan, error) {
	if strings.TrimSpace(planID) == "" {
		return nil, fmt.Errorf("planId is required: %w", domain.ErrBadRequest)
	}
	return s.repo.Get(ctx, planID)
}

func (s *service) Create(ctx context.Context, req domain.CreatePlanRequest) (string, error) {
	p := &domain.TravelPlan{
		ID:         id.New(),
		Duration:   int(req.Duration),
		StartPoint: req.StartPoint,
		Spots:      req.Spots,
		Details:    req.Details,
		CreatedAt:  s.now().UTC().Truncate(time.Millisecond), // BSON dates hold milliseconds
	}
	if p.Spots == nil {
		p.Spots = []string{}
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return "", fmt.Errorf("save plan: %w", err)
	}
	s.log.Info("plan created", zap.String("plan_id", p.ID), zap.Int("spots", len(p.Spots)))
	return p.ID, nil
}

func (s *service) Delete(ctx context.Context, planID string) error {
	if strings.TrimSpace(planID) == "" {
		return fmt.Errorf("planId is required: %w", domain.ErrBadRequest)
	}
	return s.repo.Delete(ctx, planID)
}

func (s *service) GenerateGuide(ctx context.Context, req domain.CreateGuideRequest) (*domain.TravelGuide, error) {
	reply, err := s.completer.Complete(ctx, guidePrompt(req.StartPoint, req.SpotsByCity, int(req.Duration)), guideMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("complete travel guide: %w", err)
	}
	guide, err := parseGuideReply(reply)
	if err != nil {
		s.log.Warn("travel guide reply rejected", zap.Error(err), zap.Int("reply_len", len(reply)))
		return nil, err
	}
	return guide, nil
}
