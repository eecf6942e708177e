package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/session"
)

// Authenticator exchanges credentials for a backend identity.
type Authenticator interface {
	Login(ctx context.Context, req backend.LoginRequest) (backend.LoginResult, error)
}

// AuthService signs users into the portal.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (session.Session, error)
}

type authService struct {
	backend   Authenticator
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(api Authenticator, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		backend:   api,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

// Login forwards the credentials and returns the session the backend issued.
// Credentials are never stored or logged.
func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (session.Session, error) {
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if err := s.validator.Struct(payload); err != nil {
		return session.Session{}, err
	}

	result, err := s.backend.Login(ctx, backend.LoginRequest{Email: payload.Email, Password: payload.Password})
	if err != nil {
		s.logger.Info().Err(err).Msg("login rejected")
		return session.Session{}, err
	}

	sess := session.Session{
		Token:  strings.TrimSpace(result.Token),
		Role:   session.NormalizeRole(result.Role),
		UserID: result.UserID.String(),
	}
	if !sess.HasRole(session.RoleStudent, session.RoleTeacher, session.RoleAdmin) {
		s.logger.Warn().Str("role", result.Role).Msg("backend issued unsupported role")
		return session.Session{}, ErrUnsupportedRole
	}
	if !sess.Valid() {
		return session.Session{}, backend.ErrUnauthorized
	}

	s.logger.Info().Str("user_id", sess.UserID).Str("role", sess.Role).Msg("user signed in")
	return sess, nil
}
