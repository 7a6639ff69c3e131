package httpcontroller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ewahlberg/pressgang/internal/errors"
	"github.com/ewahlberg/pressgang/internal/security"
)

// LoginPageData carries form state back to the login template.
type LoginPageData struct {
	Redirect     string
	Username     string
	ErrorMessage string
	Providers    []string
}

// initAuthRoutes initializes authentication related routes.
func (s *Server) initAuthRoutes() {
	// Rate limit credential endpoints
	g := s.Echo.Group("")
	g.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(10)))

	g.GET("/login", s.handleLoginPage)
	g.POST("/login", s.handleLoginSubmit)
	g.POST("/logout", s.handleLogout)

	// Social authentication
	g.GET("/auth/:provider", s.Auth.BeginOAuthFlow)
	g.GET("/auth/:provider/callback", s.handleOAuthCallback)
}

// enabledProviders lists social providers configured for the login page.
func (s *Server) enabledProviders() []string {
	var providers []string
	if s.Settings.Security.GithubAuth.Enabled {
		providers = append(providers, security.ProviderGitHub)
	}
	if s.Settings.Security.GoogleAuth.Enabled {
		providers = append(providers, security.ProviderGoogle)
	}
	return providers
}

func (s *Server) handleLoginPage(c echo.Context) error {
	if s.Auth.IsUserAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/admin")
	}
	return s.renderPage(c, http.StatusOK, "login", "Sign In", LoginPageData{
		Redirect:  safeReturnPath(c.QueryParam("redirect")),
		Providers: s.enabledProviders(),
	})
}

// handleLoginSubmit forwards credentials to the backend and establishes
// the session on success. Bad credentials re-render the form with 401.
func (s *Server) handleLoginSubmit(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	redirect := safeReturnPath(c.FormValue("redirect"))

	err := s.Auth.Login(c.Request().Context(), c, username, password)
	if err != nil {
		if errors.Is(err, security.ErrBadCredentials) {
			return s.renderPage(c, http.StatusUnauthorized, "login", "Sign In", LoginPageData{
				Redirect:     redirect,
				Username:     username,
				ErrorMessage: "Invalid username or password",
				Providers:    s.enabledProviders(),
			})
		}
		return err
	}

	if redirect == "/" {
		redirect = "/admin"
	}
	return c.Redirect(http.StatusFound, redirect)
}

func (s *Server) handleLogout(c echo.Context) error {
	if err := s.Auth.Logout(c.Request().Context(), c); err != nil {
		s.webLogger.Warn("logout failed", "error", err)
	}
	return c.Redirect(http.StatusFound, "/")
}

// handleOAuthCallback completes social sign-in and lands on the admin
// dashboard.
func (s *Server) handleOAuthCallback(c echo.Context) error {
	if err := s.Auth.CompleteOAuthFlow(c); err != nil {
		s.webLogger.Warn("social sign-in failed",
			"provider", c.Param("provider"), "error", err)
		return s.renderPage(c, http.StatusUnauthorized, "login", "Sign In", LoginPageData{
			ErrorMessage: "Sign-in failed or account not authorized",
			Providers:    s.enabledProviders(),
		})
	}
	return c.Redirect(http.StatusFound, "/admin")
}
