package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/auth/domain"
	"github.com/inspirationparticle/utro/internal/auth/password"
	"github.com/inspirationparticle/utro/internal/auth/token"
	"github.com/inspirationparticle/utro/internal/clock"
	"github.com/inspirationparticle/utro/internal/uuidv7"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type Service struct {
	log    *zap.Logger
	repo   domain.Repository
	tokens *token.Manager
	genID  *uuidv7.Generator
	clock  clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, tokens *token.Manager, genID *uuidv7.Generator, clk clock.Clock) domain.Service {
	return &Service{
		log:    log.Named("auth.service"),
		repo:   repo,
		tokens: tokens,
		genID:  genID,
		clock:  clk,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if email != "" {
		if _, err := s.repo.FindByEmail(ctx, email); err == nil {
			return nil, domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		FullName:     strings.TrimSpace(req.FullName),
		Provider:     "local",
		PasswordHash: &hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if email != "" {
		user.Email = &email
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil || !password.Verify(req.Password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.clock.Now()
	signed, err := s.tokens.Generate(user.ID.String(), user.Username, now)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, user.ID, map[string]any{"last_login_at": now}); err != nil {
		s.log.Warn("failed to record last login", zap.Error(err))
	}

	return &domain.LoginResult{
		User:      user,
		Token:     signed,
		ExpiresAt: now.Add(s.tokens.TTL()),
	}, nil
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	raw := strings.TrimSpace(rawToken)
	if raw == "" {
		return nil, domain.ErrInvalidToken
	}

	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", err
	}
	return email, nil
}
