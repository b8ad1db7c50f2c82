package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"leavemgmt/internal/platform/apperror"
)

var ErrCredentialsNotFound = errors.New("credentials not found")

type Credentials struct {
	UserID       string
	Role         Role
	PasswordHash string
}

type CredentialStore interface {
	FindCredentials(ctx context.Context, email string) (Credentials, error)
}

type Service struct {
	store   CredentialStore
	revoker Revoker
	secret  string
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

type Session struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
}

func NewService(store CredentialStore, revoker Revoker, secret string, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	return &Service{
		store:   store,
		revoker: revoker,
		secret:  secret,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.Named("auth.service"),
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, apperror.ValidationField("email", "The provided credentials are incorrect.")
	}

	creds, err := s.store.FindCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, ErrCredentialsNotFound) {
			return Session{}, apperror.ValidationField("email", "The provided credentials are incorrect.")
		}
		s.logger.Error("login credential lookup failed", zap.Error(err))
		return Session{}, apperror.Unexpected("Login failed", err)
	}
	if err := CheckPassword(creds.PasswordHash, password); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", creds.UserID))
		return Session{}, apperror.ValidationField("email", "The provided credentials are incorrect.")
	}

	token, claims, err := GenerateToken(s.secret, creds.UserID, creds.Role, s.ttl, s.now())
	if err != nil {
		s.logger.Error("token signing failed", zap.Error(err))
		return Session{}, apperror.Unexpected("Login failed", err)
	}
	s.logger.Info("login succeeded", zap.String("user_id", creds.UserID), zap.String("role", string(creds.Role)))
	return Session{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt.Time,
		UserID:    creds.UserID,
		Role:      creds.Role,
	}, nil
}

// Logout revokes the caller's token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, user UserContext) error {
	ttl := user.ExpiresAt.Sub(s.now())
	if err := s.revoker.Revoke(ctx, user.TokenID, ttl); err != nil {
		s.logger.Error("token revocation failed", zap.String("user_id", user.UserID), zap.Error(err))
		return apperror.Unexpected("Logout failed", err)
	}
	return nil
}
