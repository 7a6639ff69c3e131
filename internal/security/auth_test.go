package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewahlberg/pressgang/internal/backend"
	"github.com/ewahlberg/pressgang/internal/conf"
)

func testSettings(mutators ...func(*conf.Settings)) *conf.Settings {
	settings := &conf.Settings{}
	settings.Security.SessionSecret = "test-session-secret-with-enough-entropy"
	settings.Security.SessionDuration = time.Hour
	for _, mutate := range mutators {
		mutate(settings)
	}
	return settings
}

func newTestService(t *testing.T, mutators ...func(*conf.Settings)) *Service {
	t.Helper()

	settings := testSettings(mutators...)
	client, err := backend.NewClient(backend.Config{BaseURL: "http://backend.test"})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return NewService(settings, client, NewSessionManager(settings))
}

func newContext(e *echo.Echo, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// signedToken builds an HS256 JWT with the given expiry.
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("irrelevant-key"))
	require.NoError(t, err)
	return signed
}

func TestTokenExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		expired bool
	}{
		{
			name:    "future expiry",
			token:   func(t *testing.T) string { return signedToken(t, now.Add(time.Hour)) },
			expired: false,
		},
		{
			name:    "past expiry",
			token:   func(t *testing.T) string { return signedToken(t, now.Add(-time.Hour)) },
			expired: true,
		},
		{
			name: "within leeway",
			token: func(t *testing.T) string {
				return signedToken(t, now.Add(-TokenExpiryLeeway / 2))
			},
			expired: false,
		},
		{
			name:    "opaque token never expires client side",
			token:   func(t *testing.T) string { return "not-a-jwt" },
			expired: false,
		},
		{
			name: "jwt without exp claim",
			token: func(t *testing.T) string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin"})
				signed, err := token.SignedString([]byte("irrelevant-key"))
				require.NoError(t, err)
				return signed
			},
			expired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expired, TokenExpired(tt.token(t), now))
		})
	}
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	e := echo.New()

	// Sign in, capture the session cookie
	c, rec := newContext(e, httptest.NewRequest(http.MethodPost, "/login", http.NoBody))
	token := signedToken(t, time.Now().Add(time.Hour))
	user := &backend.User{Username: "erin", Role: "editor"}
	require.NoError(t, svc.Sessions().SignIn(c, token, user, AuthMethodSession))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Present the cookie on a later request
	req := httptest.NewRequest(http.MethodGet, "/admin", http.NoBody)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	c2, _ := newContext(e, req)

	assert.Equal(t, token, svc.Token(c2))
	assert.Equal(t, "erin", svc.Username(c2))
	assert.Equal(t, "editor", svc.Sessions().Role(c2))
	assert.Equal(t, AuthMethodSession, svc.Method(c2))
	assert.True(t, svc.IsUserAuthenticated(c2))
}

func TestExpiredSessionTokenIsIgnored(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	e := echo.New()

	c, rec := newContext(e, httptest.NewRequest(http.MethodPost, "/login", http.NoBody))
	expired := signedToken(t, time.Now().Add(-time.Hour))
	require.NoError(t, svc.Sessions().SignIn(c, expired, &backend.User{Username: "erin"}, AuthMethodSession))

	req := httptest.NewRequest(http.MethodGet, "/admin", http.NoBody)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	c2, _ := newContext(e, req)

	assert.Empty(t, svc.Token(c2))
	assert.False(t, svc.IsUserAuthenticated(c2))
}

func TestSignOutExpiresCookie(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	e := echo.New()

	c, rec := newContext(e, httptest.NewRequest(http.MethodPost, "/logout", http.NoBody))
	require.NoError(t, svc.Sessions().SignOut(c))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestUnauthenticatedRequest(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	e := echo.New()

	c, _ := newContext(e, httptest.NewRequest(http.MethodGet, "/admin", http.NoBody))

	assert.False(t, svc.IsUserAuthenticated(c))
	assert.Equal(t, AuthMethodNone, svc.Method(c))
}

func TestSubnetBypass(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(s *conf.Settings) {
		s.Security.AllowSubnetBypass.Enabled = true
		s.Security.AllowSubnetBypass.Subnet = "192.168.1.0/24, 10.0.0.0/8"
	})
	e := echo.New()

	tests := []struct {
		name       string
		remoteAddr string
		bypassed   bool
	}{
		{"inside first subnet", "192.168.1.42:1234", true},
		{"inside second subnet", "10.11.12.13:1234", true},
		{"outside", "203.0.113.7:1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", http.NoBody)
			req.RemoteAddr = tt.remoteAddr
			c, _ := newContext(e, req)

			assert.Equal(t, tt.bypassed, svc.IsUserAuthenticated(c))
			if tt.bypassed {
				assert.Equal(t, AuthMethodLocalSubnet, svc.Method(c))
				assert.Equal(t, SubnetUsername, svc.Username(c))
			}
		})
	}
}

func TestSubnetBypassDisabled(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(s *conf.Settings) {
		s.Security.AllowSubnetBypass.Enabled = false
		s.Security.AllowSubnetBypass.Subnet = "192.168.1.0/24"
	})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/admin", http.NoBody)
	req.RemoteAddr = "192.168.1.42:1234"
	c, _ := newContext(e, req)

	assert.False(t, svc.IsUserAuthenticated(c))
}

func TestBasicAuthFallback(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(s *conf.Settings) {
		s.Security.BasicAuth.Enabled = true
		s.Security.BasicAuth.Password = "correct-horse"
	})
	e := echo.New()

	tests := []struct {
		name          string
		password      string
		authenticated bool
	}{
		{"correct password", "correct-horse", true},
		{"wrong password", "battery-staple", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", http.NoBody)
			req.SetBasicAuth("admin", tt.password)
			c, _ := newContext(e, req)

			assert.Equal(t, tt.authenticated, svc.IsUserAuthenticated(c))
			if tt.authenticated {
				assert.Equal(t, AuthMethodBasic, svc.Method(c))
			}
		})
	}
}

func TestFlashRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	e := echo.New()

	c, rec := newContext(e, httptest.NewRequest(http.MethodPost, "/admin/posts", http.NoBody))
	svc.Sessions().AddFlash(c, "success", "Post created")

	req := httptest.NewRequest(http.MethodGet, "/admin/posts", http.NoBody)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	c2, rec2 := newContext(e, req)

	flashes := svc.Sessions().Flashes(c2)
	require.Len(t, flashes, 1)
	assert.Equal(t, Flash{Level: "success", Message: "Post created"}, flashes[0])

	// Draining consumes the flash
	req2 := httptest.NewRequest(http.MethodGet, "/admin/posts", http.NoBody)
	for _, cookie := range rec2.Result().Cookies() {
		req2.AddCookie(cookie)
	}
	c3, _ := newContext(e, req2)
	assert.Empty(t, svc.Sessions().Flashes(c3))
}

func TestIsAllowedOAuthUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, func(s *conf.Settings) {
		s.Security.GithubAuth.UserId = "12345, erin@example.com"
	})

	tests := []struct {
		name     string
		provider string
		userID   string
		email    string
		allowed  bool
	}{
		{"allowed by id", ProviderGitHub, "12345", "", true},
		{"allowed by email", ProviderGitHub, "99", "Erin@Example.com", true},
		{"not on list", ProviderGitHub, "99", "other@example.com", false},
		{"empty allow list", ProviderGoogle, "12345", "erin@example.com", false},
		{"unknown provider", "gitlab", "12345", "erin@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.allowed, svc.isAllowedOAuthUser(tt.provider, tt.userID, tt.email))
		})
	}
}
