package httpcontroller

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CSRFContextKey is the key used to store the CSRF token in the context.
const CSRFContextKey = "pressgang-csrf"

// configureMiddleware sets up middleware for the server.
func (s *Server) configureMiddleware() {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(s.LoggingMiddleware())
	s.Echo.Use(s.MetricsMiddleware())
	s.Echo.Use(s.CSRFMiddleware())
	s.Echo.Use(s.GzipMiddleware())
	s.Echo.Use(s.CacheControlMiddleware())
}

// AuthMiddleware redirects unauthenticated requests for protected routes
// to the login page, carrying the original path for the post-login
// redirect.
func (s *Server) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.Auth.IsUserAuthenticated(c) {
			return next(c)
		}

		s.webLogger.Info("redirecting unauthenticated request to login",
			"path", c.Request().URL.Path, "client_ip", c.RealIP())
		return c.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape(c.Request().URL.RequestURI()))
	}
}

// LoggingMiddleware logs completed requests with latency and status.
func (s *Server) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			s.webLogger.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"client_ip", c.RealIP())
			return nil
		}
	}
}

// MetricsMiddleware records page render counts and latency, labeled by
// route pattern so dynamic segments don't explode cardinality.
func (s *Server) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Render the error page here so the recorded status
				// reflects what the client sees, not the unwritten 200.
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unknown"
			}
			if !strings.HasPrefix(route, "/assets") && route != "/metrics" {
				s.Metrics.HTTP.RecordPageRender(route, c.Response().Status, time.Since(start))
			}
			return nil
		}
	}
}

// CSRFMiddleware protects form POSTs with a token in a cookie plus a
// hidden _csrf field.
func (s *Server) CSRFMiddleware() echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:_csrf,header:X-CSRF-Token",
		CookieName:     "csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   s.Settings.Security.RedirectToHTTPS,
		CookieMaxAge:   1800,
		TokenLength:    32,
		ContextKey:     CSRFContextKey,
		Skipper: func(c echo.Context) bool {
			path := c.Path()
			return strings.HasPrefix(path, "/assets") ||
				strings.HasPrefix(path, "/auth/") ||
				path == "/feed.xml" ||
				path == "/metrics"
		},
		ErrorHandler: func(err error, c echo.Context) error {
			s.webLogger.Warn("CSRF token validation failed",
				"path", c.Request().URL.Path,
				"client_ip", c.RealIP(),
				"error", err)
			return echo.NewHTTPError(http.StatusForbidden, "Invalid CSRF token")
		},
	})
}

// GzipMiddleware configures Gzip compression for the server.
func (s *Server) GzipMiddleware() echo.MiddlewareFunc {
	return middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     6,
		MinLength: 2048,
	})
}

// CacheControlMiddleware sets cache headers: long-lived for static
// assets, no-store for everything rendered per request.
func (s *Server) CacheControlMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			switch {
			case strings.HasSuffix(path, ".css"), strings.HasSuffix(path, ".js"):
				c.Response().Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
			case strings.HasSuffix(path, ".png"), strings.HasSuffix(path, ".jpg"),
				strings.HasSuffix(path, ".ico"), strings.HasSuffix(path, ".svg"),
				strings.HasSuffix(path, ".woff2"):
				c.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
			case path == "/feed.xml":
				c.Response().Header().Set("Cache-Control", "public, max-age=900")
			default:
				c.Response().Header().Set("Cache-Control", "no-store")
			}
			return next(c)
		}
	}
}
