package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kopikeliling/internal/core/apperror"
	appctx "kopikeliling/internal/core/context"
	"kopikeliling/pkg/logger"
)

// DefaultUsername is used when no owner username is configured.
const DefaultUsername = "owner"

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 8,
	}
}

// Service authenticates the owner and issues bearer tokens.
type Service struct {
	mu         sync.Mutex
	owner      *Owner
	jwtService *JWTService
	config     ServiceConfig
	now        func() time.Time
}

// NewService creates a new auth service for owner.
func NewService(owner Owner, jwtService *JWTService, config ServiceConfig) *Service {
	if owner.Username == "" {
		owner.Username = DefaultUsername
	}
	return &Service{
		owner:      &owner,
		jwtService: jwtService,
		config:     config,
		now:        time.Now,
	}
}

// Login checks the credentials and returns an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.owner.CanLogin(now); err != nil {
		return nil, err
	}
	if creds.Username != "" && creds.Username != s.owner.Username {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.owner.PasswordHash), []byte(creds.Password)); err != nil {
		s.owner.RecordFailedLogin(now, s.config.MaxLoginAttempts, s.config.LockDuration)
		logger.Warn(ctx, "owner login failed", "username", s.owner.Username)
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(s.owner.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	s.owner.RecordSuccessfulLogin()

	logger.Info(ctx, "owner logged in", "username", s.owner.Username)

	return &Token{AccessToken: accessToken, ExpiresAt: expiresAt, TokenType: "Bearer"}, nil
}

// Authenticate validates a bearer token.
func (s *Service) Authenticate(_ context.Context, token string) (*appctx.Operator, error) {
	op, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token").WithCause(err)
	}
	if op.Subject != s.owner.Username {
		return nil, apperror.NewUnauthorized("unknown subject")
	}
	return op, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, minLength int) (string, error) {
	if len(password) < minLength {
		return "", apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", minLength),
		).WithDetail("field", "password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
