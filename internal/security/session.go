package security

import (
	"crypto/sha256"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/ewahlberg/pressgang/internal/backend"
	"github.com/ewahlberg/pressgang/internal/conf"
	"github.com/ewahlberg/pressgang/internal/errors"
)

// Flash is a one-shot toast message rendered on the next page load.
type Flash struct {
	Level   string // success, error or info
	Message string
}

func init() {
	gob.Register(Flash{})
}

// SessionManager wraps the cookie session store. The session carries the
// backend bearer token and display identity; no credential policy lives
// here.
type SessionManager struct {
	store    *sessions.CookieStore
	settings *conf.Settings
}

// NewSessionManager builds the cookie store from the configured session
// secret.
func NewSessionManager(settings *conf.Settings) *SessionManager {
	secret := settings.Security.SessionSecret
	if secret == "" {
		securityLogger.Error("session secret is empty, sessions will not survive restarts",
			"remedy", "set security.sessionsecret in the configuration")
		secret = conf.GenerateRandomSecret()
	} else if len(secret) < MinSessionSecretLength {
		securityLogger.Warn("session secret is shorter than recommended",
			"length", len(secret), "recommended", MinSessionSecretLength)
	}

	authKey := createSessionKey(secret)
	encKey := createSessionKey(secret + "encryption")
	store := sessions.NewCookieStore(authKey, encKey)

	maxAge := settings.Security.SessionDuration
	if maxAge <= 0 {
		maxAge = DefaultSessionDuration
	}
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   settings.Security.RedirectToHTTPS,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{store: store, settings: settings}
}

// createSessionKey derives a key of the proper length for AES encryption
// from a seed string. AES requires keys of exactly 16, 24, or 32 bytes.
func createSessionKey(seed string) []byte {
	hasher := sha256.New()
	hasher.Write([]byte(seed))
	return hasher.Sum(nil)
}

func (m *SessionManager) session(c echo.Context) *sessions.Session {
	// Get never fails for a cookie store with a valid name; a corrupt
	// cookie yields a fresh session plus an error we can ignore.
	session, _ := m.store.Get(c.Request(), SessionName)
	return session
}

// SignIn stores the backend token and user identity in the session.
func (m *SessionManager) SignIn(c echo.Context, token string, user *backend.User, method AuthMethod) error {
	session := m.session(c)
	session.Values[sessionKeyToken] = token
	session.Values[sessionKeyMethod] = string(method)
	if user != nil {
		session.Values[sessionKeyUsername] = user.Username
		session.Values[sessionKeyRole] = user.Role
	}
	if err := session.Save(c.Request(), c.Response()); err != nil {
		return errors.New(err).
			Component("security").
			Category(errors.CategorySession).
			Context("operation", "save-session").
			Build()
	}
	return nil
}

// SignOut expires the session cookie.
func (m *SessionManager) SignOut(c echo.Context) error {
	session := m.session(c)
	session.Values = make(map[any]any)
	session.Options.MaxAge = -1
	if err := session.Save(c.Request(), c.Response()); err != nil {
		return errors.New(err).
			Component("security").
			Category(errors.CategorySession).
			Context("operation", "expire-session").
			Build()
	}
	return nil
}

// Token returns the stored backend bearer token, or empty.
func (m *SessionManager) Token(c echo.Context) string {
	token, _ := m.session(c).Values[sessionKeyToken].(string)
	return token
}

// Username returns the signed-in username for display, or empty.
func (m *SessionManager) Username(c echo.Context) string {
	username, _ := m.session(c).Values[sessionKeyUsername].(string)
	return username
}

// Role returns the signed-in user's role, or empty.
func (m *SessionManager) Role(c echo.Context) string {
	role, _ := m.session(c).Values[sessionKeyRole].(string)
	return role
}

// Method returns how the current session was established.
func (m *SessionManager) Method(c echo.Context) AuthMethod {
	method, _ := m.session(c).Values[sessionKeyMethod].(string)
	return AuthMethod(method)
}

// AddFlash queues a toast for the next rendered page.
func (m *SessionManager) AddFlash(c echo.Context, level, message string) {
	session := m.session(c)
	session.AddFlash(Flash{Level: level, Message: message})
	if err := session.Save(c.Request(), c.Response()); err != nil {
		securityLogger.Warn("failed to save flash message", "error", err)
	}
}

// Flashes drains queued toasts.
func (m *SessionManager) Flashes(c echo.Context) []Flash {
	session := m.session(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(c.Request(), c.Response()); err != nil {
		securityLogger.Warn("failed to save session after draining flashes", "error", err)
	}

	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}
