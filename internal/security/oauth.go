package security

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/github"
	gothGoogle "github.com/markbates/goth/providers/google"

	"github.com/ewahlberg/pressgang/internal/backend"
	"github.com/ewahlberg/pressgang/internal/conf"
	"github.com/ewahlberg/pressgang/internal/errors"
)

// InitializeGoth configures social authentication providers from
// settings. Safe to call again after settings change.
func InitializeGoth(settings *conf.Settings) {
	store := sessions.NewCookieStore(createSessionKey(settings.Security.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(DefaultSessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   settings.Security.RedirectToHTTPS,
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store

	providers := make([]goth.Provider, 0, 2)
	if p := settings.Security.GoogleAuth; p.Enabled && p.ClientID != "" && p.ClientSecret != "" {
		googleProvider := gothGoogle.New(p.ClientID, p.ClientSecret, p.RedirectURI,
			"https://www.googleapis.com/auth/userinfo.email")
		googleProvider.SetAccessType("offline")
		providers = append(providers, googleProvider)
	}
	if p := settings.Security.GithubAuth; p.Enabled && p.ClientID != "" && p.ClientSecret != "" {
		providers = append(providers, github.New(p.ClientID, p.ClientSecret, p.RedirectURI,
			"user:email"))
	}

	if len(providers) > 0 {
		goth.UseProviders(providers...)
		securityLogger.Info("social auth providers initialized", "count", len(providers))
	}
}

// BeginOAuthFlow starts a social sign-in round-trip with the provider
// named in the route parameter.
func (s *Service) BeginOAuthFlow(c echo.Context) error {
	provider := c.Param("provider")
	if provider == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "provider not specified")
	}

	// gothic discovers the provider from the query string
	query := c.Request().URL.Query()
	query.Add("provider", provider)
	c.Request().URL.RawQuery = query.Encode()

	if _, err := gothic.CompleteUserAuth(c.Response().Writer, c.Request()); err == nil {
		// Already authenticated with the provider
		return c.Redirect(http.StatusFound, "/admin")
	}
	gothic.BeginAuthHandler(c.Response().Writer, c.Request())
	return nil
}

// CompleteOAuthFlow finishes the provider callback. The provider
// identity must be on the configured allow list; social sessions carry
// no backend token, so backend calls fall back to the service API key.
func (s *Service) CompleteOAuthFlow(c echo.Context) error {
	providerName := c.Param("provider")

	user, err := gothic.CompleteUserAuth(c.Response().Writer, c.Request())
	if err != nil {
		securityLogger.Warn("social authentication failed",
			"provider", providerName, "error", err)
		return errors.New(err).
			Component("security").
			Category(errors.CategoryAuth).
			Context("provider", providerName).
			Context("operation", "complete-oauth").
			Build()
	}

	if !s.isAllowedOAuthUser(providerName, user.UserID, user.Email) {
		securityLogger.Warn("social sign-in rejected, identity not on allow list",
			"provider", providerName, "user_email", user.Email)
		return echo.NewHTTPError(http.StatusForbidden, "account not authorized")
	}

	identity := user.Email
	if identity == "" {
		identity = user.NickName
	}
	if err := s.sessions.SignIn(c, "", &backend.User{Username: identity, Role: "admin"}, AuthMethodOAuth2); err != nil {
		return err
	}

	securityLogger.Info("user signed in via social provider",
		"provider", providerName, "user_email", user.Email)
	return nil
}

// isAllowedOAuthUser checks a provider identity against the configured
// comma-separated allow list. An empty list rejects everyone.
func (s *Service) isAllowedOAuthUser(provider, userID, email string) bool {
	var allowed string
	switch provider {
	case ProviderGoogle:
		allowed = s.settings.Security.GoogleAuth.UserId
	case ProviderGitHub:
		allowed = s.settings.Security.GithubAuth.UserId
	default:
		return false
	}

	for _, entry := range strings.Split(allowed, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if entry == userID || strings.EqualFold(entry, email) {
			return true
		}
	}
	return false
}
