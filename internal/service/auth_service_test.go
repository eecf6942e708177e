package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/session"
)

func TestAuthServiceLogin(t *testing.T) {
	api := &fakeBackend{login: backend.LoginResult{Token: "jwt", Role: " Teacher ", UserID: "7"}}
	svc := NewAuthService(api, testValidator(), testLogger())

	sess, err := svc.Login(context.Background(), dto.LoginRequest{Email: " Ada@Uni.edu ", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, session.Session{Token: "jwt", Role: session.RoleTeacher, UserID: "7"}, sess)
}

func TestAuthServiceLoginRejectsUnknownRole(t *testing.T) {
	api := &fakeBackend{login: backend.LoginResult{Token: "jwt", Role: "parent", UserID: "7"}}
	svc := NewAuthService(api, testValidator(), testLogger())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "p@uni.edu", Password: "secret"})
	require.ErrorIs(t, err, ErrUnsupportedRole)
}

func TestAuthServiceLoginRejectsIncompleteIdentity(t *testing.T) {
	api := &fakeBackend{login: backend.LoginResult{Role: "student", UserID: "42"}}
	svc := NewAuthService(api, testValidator(), testLogger())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "s@uni.edu", Password: "secret"})
	require.ErrorIs(t, err, backend.ErrUnauthorized)
}

func TestAuthServiceLoginPropagatesBackendError(t *testing.T) {
	api := &fakeBackend{loginErr: &backend.APIError{Status: 401, Message: "invalid credentials"}}
	svc := NewAuthService(api, testValidator(), testLogger())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "s@uni.edu", Password: "wrong"})
	require.ErrorIs(t, err, backend.ErrUnauthorized)
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc := NewAuthService(&fakeBackend{}, testValidator(), testLogger())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "not-an-email"})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
}
