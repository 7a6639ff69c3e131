// Package security wires authentication state for the admin surface:
// session cookies carrying the backend bearer token, optional social
// sign-in, basic auth and a local-subnet bypass. Credential policy lives
// in the backend; this package only forwards and stores what it returns.
package security

import (
	"context"
	"net"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ewahlberg/pressgang/internal/backend"
	"github.com/ewahlberg/pressgang/internal/conf"
	"github.com/ewahlberg/pressgang/internal/errors"
)

// AuthMethod represents the method used for authentication.
type AuthMethod string

const (
	AuthMethodNone        AuthMethod = ""        // No authentication used
	AuthMethodSession     AuthMethod = "session" // Backend token in session cookie
	AuthMethodBasic       AuthMethod = "basic"   // Basic auth fallback
	AuthMethodLocalSubnet AuthMethod = "subnet"  // Authentication bypassed via local subnet access
	AuthMethodOAuth2      AuthMethod = "oauth2"  // Social sign-in via goth
)

// ErrBadCredentials is returned when the backend rejects a login.
var ErrBadCredentials = errors.NewStd("invalid username or password")

// Service owns login, logout and per-request authentication checks.
type Service struct {
	settings *conf.Settings
	client   *backend.Client
	sessions *SessionManager
}

// NewService builds the auth service and initializes social providers.
func NewService(settings *conf.Settings, client *backend.Client, sessions *SessionManager) *Service {
	s := &Service{
		settings: settings,
		client:   client,
		sessions: sessions,
	}
	InitializeGoth(settings)
	return s
}

// Sessions exposes the session manager for handlers that only need
// flashes or display identity.
func (s *Service) Sessions() *SessionManager {
	return s.sessions
}

// Login exchanges credentials for a backend session token and stores it
// in the session cookie.
func (s *Service) Login(ctx context.Context, c echo.Context, username, password string) error {
	session, err := s.client.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			securityLogger.Warn("login rejected by backend",
				"username", username, "client_ip", c.RealIP())
			return ErrBadCredentials
		}
		return err
	}

	if err := s.sessions.SignIn(c, session.Token, &session.User, AuthMethodSession); err != nil {
		return err
	}

	securityLogger.Info("user signed in",
		"username", session.User.Username,
		"role", session.User.Role,
		"client_ip", c.RealIP())
	return nil
}

// Logout revokes the token upstream (best effort) and expires the
// session cookie.
func (s *Service) Logout(ctx context.Context, c echo.Context) error {
	if token := s.sessions.Token(c); token != "" {
		if err := s.client.WithToken(token).Logout(ctx); err != nil {
			securityLogger.Debug("backend logout failed, clearing session anyway", "error", err)
		}
	}
	securityLogger.Info("user signed out", "username", s.sessions.Username(c))
	return s.sessions.SignOut(c)
}

// Token returns the session's backend bearer token, or empty when the
// session is missing or the token is already past its exp claim.
func (s *Service) Token(c echo.Context) string {
	token := s.sessions.Token(c)
	if token == "" {
		return ""
	}
	if TokenExpired(token, time.Now()) {
		securityLogger.Debug("session token past expiry, treating as signed out",
			"username", s.sessions.Username(c))
		return ""
	}
	return token
}

// IsUserAuthenticated reports whether the request may use the admin
// surface. Checked in order: subnet bypass, session token, social
// session, basic auth header.
func (s *Service) IsUserAuthenticated(c echo.Context) bool {
	return s.Method(c) != AuthMethodNone
}

// Method returns how the request is authenticated, or AuthMethodNone.
func (s *Service) Method(c echo.Context) AuthMethod {
	clientIP := net.ParseIP(c.RealIP())
	if s.IsInLocalSubnet(clientIP) {
		return AuthMethodLocalSubnet
	}

	if s.Token(c) != "" {
		return AuthMethodSession
	}

	if s.sessions.Method(c) == AuthMethodOAuth2 && s.sessions.Username(c) != "" {
		return AuthMethodOAuth2
	}

	if s.checkBasicAuth(c) {
		return AuthMethodBasic
	}

	return AuthMethodNone
}

// Username returns a display identity for the request.
func (s *Service) Username(c echo.Context) string {
	switch s.Method(c) {
	case AuthMethodLocalSubnet:
		return SubnetUsername
	default:
		return s.sessions.Username(c)
	}
}

// TokenExpired inspects the JWT exp claim without verifying the
// signature. The backend owns validation; this only avoids round-trips
// with tokens that are certainly dead. Opaque tokens never expire here.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time.Add(TokenExpiryLeeway))
}
