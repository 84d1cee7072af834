package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/chatshop-backend/api/controllers"
	"github.com/angelmondragon/chatshop-backend/api/routes"
	"github.com/angelmondragon/chatshop-backend/internal/bootstrap"
	"github.com/angelmondragon/chatshop-backend/pkg/config"
	"github.com/angelmondragon/chatshop-backend/pkg/db"
	"github.com/angelmondragon/chatshop-backend/pkg/instance"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
	"github.com/angelmondragon/chatshop-backend/pkg/migrate"
	"github.com/angelmondragon/chatshop-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

// The api receives Bot API updates through the webhook endpoint.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := cfg.Telegram.ValidateWebhook(); err != nil {
		logg.Error(ctx, "invalid webhook config", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	ready := map[string]controllers.Pinger{"db": dbClient}
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		ready["redis"] = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, sessions are local to this instance")
	}

	tg, err := bootstrap.NewTelegramClient(cfg.Telegram)
	if err != nil {
		logg.Error(ctx, "failed to create telegram client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	shop, err := bootstrap.NewShop(bootstrap.ShopParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Telegram:   tg,
		Redis:      redisClient,
		Registerer: registry,
	})
	if err != nil {
		logg.Error(ctx, "failed to assemble shop", err)
		os.Exit(1)
	}

	if webhookURL := strings.TrimSpace(cfg.Telegram.WebhookURL); webhookURL != "" {
		if err := tg.SetWebhook(ctx, webhookURL, cfg.Telegram.WebhookSecret); err != nil {
			logg.Error(ctx, "failed to register webhook", err)
			os.Exit(1)
		}
		logg.Info(logg.WithField(ctx, "webhook_url", webhookURL), "webhook registered")
	} else {
		logg.Warn(ctx, "webhook url not configured, assuming it was registered out of band")
	}

	router, err := routes.NewRouter(routes.RouterParams{
		Env:           cfg.App.Env,
		Logger:        logg,
		Ready:         ready,
		Processor:     shop.Processor,
		WebhookSecret: cfg.Telegram.WebhookSecret,
		Gatherer:      registry,
	})
	if err != nil {
		logg.Error(ctx, "failed to build router", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
		logg.Info(context.Background(), "api server shutting down gracefully")
	}
}
