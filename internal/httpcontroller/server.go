// Package httpcontroller serves the rendered site: public pages, the
// admin surface and the theme/auth plumbing around them. All content
// comes from the backend REST API through internal/backend.
package httpcontroller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/acme/autocert"

	"github.com/ewahlberg/pressgang/internal/backend"
	"github.com/ewahlberg/pressgang/internal/conf"
	"github.com/ewahlberg/pressgang/internal/logging"
	"github.com/ewahlberg/pressgang/internal/observability"
	"github.com/ewahlberg/pressgang/internal/security"
)

// Server encapsulates the Echo server and related configuration.
type Server struct {
	Echo     *echo.Echo
	Settings *conf.Settings
	Backend  *backend.Client
	Auth     *security.Service
	Metrics  *observability.Metrics

	pageRoutes map[string]PageRouteConfig

	webLogger      *slog.Logger
	webLoggerClose func() error
}

// New initializes the HTTP server with the given settings and backend
// client.
func New(settings *conf.Settings, client *backend.Client) (*Server, error) {
	metrics, err := observability.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	sessions := security.NewSessionManager(settings)
	s := &Server{
		Echo:     echo.New(),
		Settings: settings,
		Backend:  client,
		Auth:     security.NewService(settings, client, sessions),
		Metrics:  metrics,
	}

	// Wire backend client metrics hooks before the server starts serving.
	client.SetRequestHook(metrics.Backend.RecordRequest)
	client.SetCacheHook(metrics.Backend.RecordCacheLookup)

	s.Echo.HideBanner = true
	s.Echo.IPExtractor = echo.ExtractIPFromXFFHeader()

	s.initLogger()
	s.configureMiddleware()
	s.setupTemplateRenderer()
	s.initRoutes()

	return s, nil
}

// initLogger sets up the web request logger, falling back to the default
// slog logger when the file logger cannot be created.
func (s *Server) initLogger() {
	if !s.Settings.WebServer.Log.Enabled {
		s.webLogger = slog.Default().With("service", "web")
		return
	}

	logger, closeFn, err := logging.NewFileLogger(s.Settings.WebServer.Log.Path, "web", slog.LevelInfo)
	if err != nil {
		slog.Default().Warn("failed to initialize web log file, using default logger",
			"path", s.Settings.WebServer.Log.Path, "error", err)
		s.webLogger = slog.Default().With("service", "web")
		return
	}
	s.webLogger = logger
	s.webLoggerClose = closeFn
}

// Start begins listening and serving HTTP requests. Blocks until the
// listener fails or Shutdown is called.
func (s *Server) Start() error {
	port := s.Settings.WebServer.Port

	if s.Settings.Security.AutoTLS {
		configPaths, err := conf.GetDefaultConfigPaths()
		if err != nil {
			return fmt.Errorf("failed to get config paths for certificate cache: %w", err)
		}
		s.Echo.AutoTLSManager.Prompt = autocert.AcceptTOS
		s.Echo.AutoTLSManager.Cache = autocert.DirCache(configPaths[0])
		s.Echo.AutoTLSManager.HostPolicy = autocert.HostWhitelist(s.Settings.Security.Host)

		s.webLogger.Info("starting server with AutoTLS", "port", port, "host", s.Settings.Security.Host)
		return s.Echo.StartAutoTLS(":" + port)
	}

	s.webLogger.Info("starting server", "port", port)
	return s.Echo.Start(":" + port)
}

// Shutdown drains in-flight requests and closes the web log.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
	}

	err := s.Echo.Shutdown(ctx)
	if s.webLoggerClose != nil {
		if closeErr := s.webLoggerClose(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
