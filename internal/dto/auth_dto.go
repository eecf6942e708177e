package dto

import "time"

// LoginRequest is the portal login form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// SessionResponse describes the signed-in user without exposing the token.
type SessionResponse struct {
	Role      string     `json:"role"`
	UserID    string     `json:"user_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
