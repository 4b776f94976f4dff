package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskify-api/internal/auth"
	"taskify-api/internal/config"
	"taskify-api/internal/controller"
	"taskify-api/internal/database"
	"taskify-api/internal/queue"
	"taskify-api/internal/redisstore"
	"taskify-api/internal/repository"
	"taskify-api/internal/routes"
	"taskify-api/internal/service"
	"taskify-api/pkg/logger"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx := context.Background()
	if err := config.LoadEnvFile(); err != nil {
		logger.Warn(ctx, "Could not read .env", "error", err)
	}
	cfg := config.Get()

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error(ctx, "JWT_SECRET must be set; exiting", "error", err)
		os.Exit(1)
	}

	db := database.DB(ctx)
	if db == nil {
		logger.Error(ctx, "Database not available; exiting")
		os.Exit(1)
	}
	if err := database.MigrateOrCreateSchema(ctx); err != nil {
		logger.Error(ctx, "Schema migration failed", "error", err)
		os.Exit(1)
	}
	probes := map[string]controller.Pinger{"database": db}

	var tokens service.TokenStore = repository.NewTokenRepository(db)
	if cfg.UsesRedis() {
		rdb := redisstore.Client(ctx)
		if rdb == nil {
			logger.Error(ctx, "Redis token store selected but Redis is unavailable; exiting")
			os.Exit(1)
		}
		tokens = redisstore.NewTokenStore(rdb)
		probes["redis"] = controller.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	logger.Info(ctx, "Token store selected", "backend", cfg.TokenStore)

	if err := queue.EnsureTopic(ctx, cfg); err != nil {
		logger.Warn(ctx, "Kafka topic setup failed; events stay best-effort", "error", err)
	}
	events := queue.NewEventPublisher(ctx, cfg)

	taskRepo := repository.NewTaskRepository(db)
	server := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: routes.Router(routes.Dependencies{
			Auth:   service.NewAuthService(repository.NewUserRepository(db), tokens, issuer, cfg.BcryptCost),
			Tasks:  service.NewTaskService(taskRepo, events),
			Status: service.NewStatusService(taskRepo, events),
			Probes: probes,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	exitCode := 0
	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Server error", "error", err)
		exitCode = 1
	}
	if err := events.Close(); err != nil {
		logger.Warn(ctx, "Kafka writer close failed", "error", err)
	}
	if err := redisstore.Close(); err != nil {
		logger.Warn(ctx, "Redis close failed", "error", err)
	}
	if err := database.Close(); err != nil {
		logger.Warn(ctx, "Database close failed", "error", err)
	}
	logger.Info(ctx, "Server stopped")
	stop()
	os.Exit(exitCode)
}
