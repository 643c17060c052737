// Command authd serves the token authority over HTTP.
//
// Configuration is read from config.yml and .env in the usual search paths;
// environment variables override file values (AUTH_JWT_ACCESS_SECRET sets
// auth.jwt.access_secret).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tokenkit/auth/jwt"
	"github.com/kbukum/tokenkit/config"
	"github.com/kbukum/tokenkit/logger"
	"github.com/kbukum/tokenkit/observability"
	"github.com/kbukum/tokenkit/server"
	"github.com/kbukum/tokenkit/server/authapi"
	"github.com/kbukum/tokenkit/server/middleware"
	"github.com/kbukum/tokenkit/version"
)

func main() {
	var cfg Config
	if err := config.Load(serviceName, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}

	log := cfg.NewLogger().WithFields(logger.Fields("environment", cfg.Environment))
	logger.SetGlobalLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("authd stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *logger.Logger) error {
	shutdownTelemetry, err := observability.Init(ctx, cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: version.Get().Version,
		Environment:    cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	srv, err := newServer(cfg, log)
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("authd ready", logger.Fields(
		"addr", srv.Addr(),
		"auth", cfg.Auth.Describe(),
		"version", version.Get().String(),
	))

	<-ctx.Done()
	return srv.Stop(context.Background())
}

// newServer wires the authority, middleware and routes onto a new server.
func newServer(cfg Config, log *logger.Logger) (*server.Server, error) {
	meter := observability.Meter(cfg.Name)

	tokenMetrics, err := jwt.NewMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("token metrics: %w", err)
	}
	httpMetrics, err := observability.NewHTTPMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}

	authority, err := cfg.Auth.NewAuthority(
		jwt.WithLogger(log.WithComponent("auth.jwt")),
		jwt.WithMetrics(tokenMetrics),
	)
	if err != nil {
		return nil, err
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware(httpMetrics)
	srv.RegisterDefaultEndpoints(cfg.Name)

	requireAuth := middleware.Auth(middleware.AuthConfig{
		Verifier: authority,
		Logger:   log.WithComponent("middleware.auth"),
	})
	authapi.NewHandler(authority, log.WithComponent("authapi")).
		Register(srv.Engine(), requireAuth, middleware.RateLimit(cfg.RefreshRateLimit))

	admin := srv.Engine().Group("/admin", requireAuth, middleware.RequireRole(jwt.RoleAdmin))
	admin.GET("/whoami", func(c *gin.Context) {
		p, _ := middleware.Principal(c)
		server.RespondOK(c, p)
	})

	return srv, nil
}
