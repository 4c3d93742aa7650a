package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"nexus/internal/config"
	"nexus/internal/domain"
	"nexus/internal/metrics"
	"nexus/internal/util"
	apperrors "nexus/pkg/errors"
)

// LoginResult is returned on a successful login. Token is empty when no
// signing secret is configured.
type LoginResult struct {
	User  *domain.User
	Token string
}

// AuthService implements the auth service
type AuthService struct {
	cfg    config.AuthConfig
	tokens *util.TokenManager
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AuthConfig, tokens *util.TokenManager) *AuthService {
	return &AuthService{cfg: cfg, tokens: tokens}
}

// Login compares the credentials with the configured admin and viewer pairs
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperrors.Validation("Email and password are required")
	}

	log.Printf("[AUTH] Login attempt for user: %s", email)

	var user *domain.User
	switch {
	case s.matches(s.cfg.Admin, email, password):
		user = domain.AdminUser(email)
	case s.matches(s.cfg.Viewer, email, password):
		user = domain.ViewerUser(email)
	default:
		log.Printf("[AUTH] Login failed for user '%s'", email)
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	result := &LoginResult{User: user}
	if s.tokens.Enabled() {
		token, err := s.tokens.GenerateToken(user)
		if err != nil {
			log.WithError(err).Errorf("[AUTH] Login failed: token generation error for user '%s'", email)
			return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Login failed", err)
		}
		result.Token = token
	}

	log.Printf("[AUTH] Login successful for user '%s' (role=%s)", email, user.Role)
	metrics.RecordAuthAttempt(true)
	return result, nil
}

// Authenticate resolves a bearer token to the console user it was issued for
func (s *AuthService) Authenticate(token string) (*domain.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	user, err := util.UserFromClaims(claims)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return user, nil
}

func (s *AuthService) matches(cred config.Credential, email, password string) bool {
	return cred.Configured() && cred.Email == email && util.MatchSecret(password, cred.Password)
}
