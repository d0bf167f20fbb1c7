package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/travel-advisor/internal/domain"
	jwtinfra "github.com/travel-advisor/internal/infrastructure/jwt"
	"github.com/travel-advisor/internal/pkg/id"
	"go.uber.org/zap"
)

var (
	ErrUsernameTaken  = fmt.Errorf("username already exists: %w", domain.ErrConflict)
	ErrPendingMissing = fmt.Errorf("invalid request or user not found: %w", domain.ErrBadRequest)
	ErrUnknownUser    = fmt.Errorf("user not found: %w", domain.ErrBadRequest)
	ErrInvalidOTP     = fmt.Errorf("invalid otp: %w", domain.ErrBadRequest)
	ErrInvalidToken   = fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
)

type Service interface {
	// Register starts a registration and returns the QR code data URL to scan.
	Register(ctx context.Context, username string) (string, error)
	ValidateOTP(ctx context.Context, username, code string) (token, userID string, err error)
	Login(ctx context.Context, username, code string) (token, userID string, err error)
	RefreshToken(ctx context.Context, expiredToken string) (string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	SetTravelPlans(ctx context.Context, userID string, planIDs []string) error
	SetFavoriteSpots(ctx context.Context, userID string, spotIDs []string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	SetList(ctx context.Context, userID, field string, values []string) error
}

type tempUserStore interface {
	Put(ctx context.Context, u *domain.TempUser) error
	GetByUsername(ctx context.Context, username string) (*domain.TempUser, error)
	DeleteByUsername(ctx context.Context, username string) error
}

type authenticator interface {
	GenerateSecret(account string) (string, error)
	QRCodeDataURL(account, secret string) (string, error)
	Verify(code, secret string) bool
}

type tokenIssuer interface {
	Sign(userID string) (string, error)
	VerifyIgnoringExpiry(tokenStr string) (*jwtinfra.Claims, error)
}

type service struct {
	repo     userStore
	tempRepo tempUserStore
	otp      authenticator
	tokens   tokenIssuer
	log      *zap.Logger
	now      func() time.Time
}

type ServiceDeps struct {
	UserRepo      userStore
	TempUserRepo  tempUserStore
	Authenticator authenticator
	Tokens        tokenIssuer
	Logger        *zap.Logger
}

func NewService(deps ServiceDeps) Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		repo:     deps.UserRepo,
		tempRepo: deps.TempUserRepo,
		otp:      deps.Authenticator,
		tokens:   deps.Tokens,
		log:      log.Named("user"),
		now:      time.Now,
	}
}

func (s *service) Register(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("username is required: %w", domain.ErrBadRequest)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return "", ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	secret, err := s.pendingSecret(ctx, username)
	if err != nil {
		return "", err
	}
	return s.otp.QRCodeDataURL(username, secret)
}

// pendingSecret returns the seed of an open registration, creating one if needed.
func (s *service) pendingSecret(ctx context.Context, username string) (string, error) {
	temp, err := s.tempRepo.GetByUsername(ctx, username)
	if err == nil {
		return temp.TOTPSecret, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	secret, err := s.otp.GenerateSecret(username)
	if err != nil {
		return "", err
	}
	temp = &domain.TempUser{
		ID:         id.New(),
		Username:   username,
		TOTPSecret: secret,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.tempRepo.Put(ctx, temp); err != nil {
		return "", fmt.Errorf("save pending registration: %w", err)
	}
	s.log.Info("registration started", zap.String("username", username))
	return secret, nil
}

func (s *service) ValidateOTP(ctx context.Context, username, code string) (string, string, error) {
	username = strings.TrimSpace(username)
	temp, err := s.tempRepo.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return "", "", ErrPendingMissing
	}
	if err != nil {
		return "", "", err
	}
	if !s.otp.Verify(code, temp.TOTPSecret) {
		return "", "", ErrInvalidOTP
	}

	u := &domain.User{
		UserID:        id.New(),
		Username:      username,
		Created:       s.now().UTC(),
		TOTPSecret:    temp.TOTPSecret,
		FavoriteSpots: []string{},
		TravelPlans:   []string{},
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return "", "", fmt.Errorf("save user: %w", err)
	}
	if err := s.tempRepo.DeleteByUsername(ctx, username); err != nil {
		s.log.Warn("pending registration not removed", zap.String("username", username), zap.Error(err))
	}

	token, err := s.tokens.Sign(u.UserID)
	if err != nil {
		return "", "", err
	}
	s.log.Info("user registered", zap.String("user_id", u.UserID))
	return token, u.UserID, nil
}

func (s *service) Login(ctx context.Context, username, code string) (string, string, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		return "", "", ErrUnknownUser
	}
	if err != nil {
		return "", "", err
	}
	if !s.otp.Verify(code, u.TOTPSecret) {
		return "", "", ErrInvalidOTP
	}
	token, err := s.tokens.Sign(u.UserID)
	if err != nil {
		return "", "", err
	}
	return token, u.UserID, nil
}

// RefreshToken re-issues a token for a genuinely signed one, expired or not.
func (s *service) RefreshToken(_ context.Context, expiredToken string) (string, error) {
	claims, err := s.tokens.VerifyIgnoringExpiry(expiredToken)
	if err != nil {
		return "", ErrInvalidToken
	}
	return s.tokens.Sign(claims.UserID)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) SetTravelPlans(ctx context.Context, userID string, planIDs []string) error {
	return s.repo.SetList(ctx, userID, domain.UserFieldTravelPlans, planIDs)
}

func (s *service) SetFavoriteSpots(ctx context.Context, userID string, spotIDs []string) error {
	return s.repo.SetList(ctx, userID, domain.UserFieldFavoriteSpots, spotIDs)
}
