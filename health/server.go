// Package health exposes the liveness endpoint and Prometheus metrics over
// a small HTTP server that runs alongside the bot.
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"

	coreconfig "github.com/m3rciful/tunebot/core/config"
	"github.com/m3rciful/tunebot/core/logger"
)

// NewHandler builds the HTTP mux: a plain-text liveness root, a health
// probe, and the metrics endpoint.
func NewHandler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Bot is alive")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

// Run serves the health endpoints until ctx is canceled, then shuts the
// server down gracefully.
func Run(ctx context.Context, cfg coreconfig.HealthConfig) error {
	e := NewHandler()
	addr := fmt.Sprintf("%s:%d", cfg.Listen, cfg.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.HTTP.Info("health server listening",
			slog.String("event", "http.start"),
			slog.String("addr", addr),
		)
		errCh <- e.Start(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("health server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	}
}
