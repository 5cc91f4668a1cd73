package auth

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// LoginRequest is the input for the admin login operation
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is an issued admin session token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

// Service authenticates the admin panel's single operator account.
// Credentials come from configuration: a username and a bcrypt hash.
type Service struct {
	username     string
	passwordHash string
	jwt          *auth.JWTService
	logger       *zap.Logger
}

// NewService creates a new auth service
func NewService(cfg config.AdminConfig, jwt *auth.JWTService, logger *zap.Logger) *Service {
	return &Service{
		username:     cfg.Username,
		passwordHash: cfg.PasswordHash,
		jwt:          jwt,
		logger:       logger.Named("auth"),
	}
}

// Login verifies the credentials and issues a JWT on success.
// Wrong username and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username != s.username || s.passwordHash == "" {
		s.logger.Warn("login rejected", zap.String("username", username))
		return nil, shared.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login rejected", zap.String("username", username))
		return nil, shared.ErrUnauthorized
	}

	token, err := s.jwt.Generate(username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin logged in", zap.String("username", username))
	return &LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		Username:  username,
	}, nil
}
