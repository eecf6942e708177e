package session

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Cookie names shared with the browser.
const (
	TokenCookie  = "token"
	RoleCookie   = "role"
	UserIDCookie = "userId"
)

// Roles understood by the portal.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// ErrNoSession indicates the request carries no usable session cookies.
var ErrNoSession = errors.New("session not found")

// Session is the identity issued by the backend and carried in cookies.
type Session struct {
	Token  string `json:"-"`
	Role   string `json:"role"`
	UserID string `json:"user_id"`
}

// Valid reports whether all identity fields are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.Role != "" && s.UserID != ""
}

// HasRole reports whether the session role is one of roles.
func (s Session) HasRole(roles ...string) bool {
	for _, role := range roles {
		if NormalizeRole(role) == s.Role {
			return true
		}
	}
	return false
}

// NormalizeRole lower-cases and trims a role name.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// CookieOptions controls how session cookies are written.
type CookieOptions struct {
	Domain     string
	Secure     bool
	DefaultTTL time.Duration
}

// FromRequest reads the session cookies of the current request.
func FromRequest(c *fiber.Ctx) (Session, error) {
	sess := Session{
		Token:  strings.TrimSpace(c.Cookies(TokenCookie)),
		Role:   NormalizeRole(c.Cookies(RoleCookie)),
		UserID: strings.TrimSpace(c.Cookies(UserIDCookie)),
	}
	if !sess.Valid() {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// Write stores the session in cookies. The cookies expire together with the
// token when it carries an exp claim, otherwise after opts.DefaultTTL.
func Write(c *fiber.Ctx, sess Session, opts CookieOptions, now time.Time) {
	expires := now.Add(opts.DefaultTTL)
	if exp, ok := TokenExpiry(sess.Token); ok {
		expires = exp
	}

	for name, value := range map[string]string{
		TokenCookie:  sess.Token,
		RoleCookie:   NormalizeRole(sess.Role),
		UserIDCookie: sess.UserID,
	} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   opts.Domain,
			Expires:  expires,
			Secure:   opts.Secure,
			HTTPOnly: name == TokenCookie,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}

// Clear expires every session cookie.
func Clear(c *fiber.Ctx) {
	c.ClearCookie(TokenCookie, RoleCookie, UserIDCookie)
}

// TokenExpiry peeks at the exp claim of a JWT without verifying it. The
// backend remains responsible for validating tokens.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

const localsKey = "session"

// Bind attaches the session to the request so handlers can pass it on.
func Bind(c *fiber.Ctx, sess Session) {
	c.Locals(localsKey, sess)
}

// Current returns the session bound to the request, if any.
func Current(c *fiber.Ctx) (Session, bool) {
	if c == nil {
		return Session{}, false
	}
	sess, ok := c.Locals(localsKey).(Session)
	if !ok || !sess.Valid() {
		return Session{}, false
	}
	return sess, true
}
