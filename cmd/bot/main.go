package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/chatshop-backend/api/controllers"
	"github.com/angelmondragon/chatshop-backend/api/routes"
	"github.com/angelmondragon/chatshop-backend/internal/bootstrap"
	"github.com/angelmondragon/chatshop-backend/internal/updates"
	"github.com/angelmondragon/chatshop-backend/pkg/config"
	"github.com/angelmondragon/chatshop-backend/pkg/db"
	"github.com/angelmondragon/chatshop-backend/pkg/instance"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
	"github.com/angelmondragon/chatshop-backend/pkg/migrate"
	"github.com/angelmondragon/chatshop-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

// The bot long-polls getUpdates and serves probes and metrics on the app port.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg := logger.New(logger.Options{ServiceName: "bot"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "bot",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})

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
		logg.Warn(ctx, "redis not configured, sessions kept in memory")
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
	if shop.Admins.Len() == 0 {
		logg.Warn(ctx, "no admin ids configured, management features are unreachable")
	}

	poller, err := updates.NewPoller(updates.PollerParams{
		Source:      tg,
		Processor:   shop.Processor,
		Logger:      logg,
		PollTimeout: cfg.Telegram.PollTimeout,
	})
	if err != nil {
		logg.Error(ctx, "failed to create poller", err)
		os.Exit(1)
	}

	opsRouter, err := routes.NewOpsRouter(routes.RouterParams{
		Env:      cfg.App.Env,
		Logger:   logg,
		Ready:    ready,
		Gatherer: registry,
	})
	if err != nil {
		logg.Error(ctx, "failed to build ops router", err)
		os.Exit(1)
	}
	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           opsRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "ops server stopped unexpectedly", err)
		}
	}()

	logg.Info(logg.WithField(ctx, "addr", server.Addr), "starting bot")
	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "poller stopped unexpectedly", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "ops server shutdown failed", err)
	}
	logg.Info(context.Background(), "bot shutting down gracefully")
}
