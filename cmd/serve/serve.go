// Package serve starts the HTTP server and keeps it running until the
// process is told to stop.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ewahlberg/pressgang/internal/backend"
	"github.com/ewahlberg/pressgang/internal/conf"
	"github.com/ewahlberg/pressgang/internal/httpcontroller"
	"github.com/ewahlberg/pressgang/internal/logging"
	"github.com/ewahlberg/pressgang/internal/security"
)

// Command returns the serve sub-command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), settings)
		},
	}
}

// Run builds the backend client and server from settings and serves
// until the context is cancelled or a shutdown signal arrives.
func Run(ctx context.Context, settings *conf.Settings) error {
	client, err := backend.NewClient(backend.Config{
		BaseURL:  settings.Backend.BaseURL,
		APIKey:   settings.Backend.APIKey,
		Timeout:  time.Duration(settings.Backend.Timeout) * time.Second,
		CacheTTL: time.Duration(settings.Backend.CacheTTL) * time.Second,
		Debug:    settings.Backend.Debug,
		Logger:   logging.ForService("backend"),
	})
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}
	defer client.Close()

	security.SetLogger(logging.ForService("security"))

	server, err := httpcontroller.New(settings, client)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		logging.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		logging.Info("shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
