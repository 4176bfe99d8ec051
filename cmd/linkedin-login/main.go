// Command linkedin-login runs a small web server offering "Sign in with LinkedIn".
//
// GET /auth/linkedin redirects to LinkedIn; GET /auth/linkedin/callback completes
// the login and responds with the user and tokens as JSON. Configuration is read
// from LINKEDIN_* environment variables (see oauth.Config).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"

	oauth "github.com/giantswarm/linkedin-oauth"
	"github.com/giantswarm/linkedin-oauth/instrumentation"
	"github.com/giantswarm/linkedin-oauth/security"
)

const (
	loginPath    = "/auth/linkedin"
	callbackPath = "/auth/linkedin/callback"

	shutdownTimeout = 10 * time.Second
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := run(logger); err != nil {
		logger.Error("linkedin-login failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := oauth.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	inst, err := instrumentation.New(instrumentation.Config{
		Enabled:        cfg.InstrumentationEnabled,
		ServiceName:    "linkedin-login",
		ServiceVersion: version,
	})
	if err != nil {
		return err
	}

	provider, err := cfg.NewProvider(nil, inst)
	if err != nil {
		return err
	}

	handler := oauth.NewHandler(provider, cfg.Options(logger), logger, inst)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           security.RequestIDMiddleware(newRouter(handler, provider.Name())),
		ReadHeaderTimeout: 10 * time.Second,
	}

	m := graceful.NewManager()

	// The manager keeps running-job errors to itself; a failed listen must end run.
	listenErr := make(chan error, 1)

	m.AddRunningJob(func(ctx context.Context) error {
		logger.Info("Starting server",
			"addr", cfg.ListenAddr,
			"provider", provider.Name(),
			"variant", string(provider.Variant()),
			"version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
			return err
		}
		return nil
	})

	m.AddShutdownJob(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("Shutting down server")
		err := srv.Shutdown(ctx)
		if shutdownErr := inst.Shutdown(ctx); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
		return err
	})

	select {
	case err := <-listenErr:
		_ = inst.Shutdown(context.Background())
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
	case <-m.Done():
		return nil
	}
}

// newRouter wires the login handler into a gin engine.
func newRouter(h *oauth.Handler, providerName string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(loginPath, gin.WrapF(h.ServeLogin))
	router.GET(callbackPath, gin.WrapF(h.ServeCallback))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "provider": providerName})
	})

	return router
}
