// Package bootstrap assembles the shop's services from configuration. Both
// the polling bot and the webhook API build the same graph through it.
package bootstrap

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/chatshop-backend/internal/auth"
	"github.com/angelmondragon/chatshop-backend/internal/catalog"
	"github.com/angelmondragon/chatshop-backend/internal/dialog"
	"github.com/angelmondragon/chatshop-backend/internal/notifications"
	"github.com/angelmondragon/chatshop-backend/internal/orders"
	"github.com/angelmondragon/chatshop-backend/internal/session"
	"github.com/angelmondragon/chatshop-backend/internal/updates"
	"github.com/angelmondragon/chatshop-backend/pkg/config"
	"github.com/angelmondragon/chatshop-backend/pkg/db"
	"github.com/angelmondragon/chatshop-backend/pkg/idgen"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
	"github.com/angelmondragon/chatshop-backend/pkg/metrics"
	"github.com/angelmondragon/chatshop-backend/pkg/redis"
	"github.com/angelmondragon/chatshop-backend/pkg/telegram"
)

type ShopParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Telegram *telegram.Client
	// Redis is optional. Without it sessions live in memory and updates are
	// not de-duplicated.
	Redis *redis.Client
	// Registerer receives the shop metrics; nil disables them.
	Registerer prometheus.Registerer
}

// Shop is the assembled update pipeline.
type Shop struct {
	Processor *updates.Processor
	Engine    *dialog.Engine
	Metrics   *metrics.ShopMetrics
	Admins    auth.AdminSet
}

func NewShop(params ShopParams) (*Shop, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Telegram == nil {
		return nil, fmt.Errorf("telegram client required")
	}
	cfg := params.Config

	var shopMetrics *metrics.ShopMetrics
	if params.Registerer != nil {
		shopMetrics = metrics.NewShopMetrics(params.Registerer)
	}

	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		Repo:           catalog.NewRepository(params.DB.DB()),
		PageSize:       cfg.Shop.PageSize,
		DefaultAddress: cfg.Shop.DefaultAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog service: %w", err)
	}

	ids, err := idgen.New(cfg.Orders.NodeID, cfg.Orders.IDDigits)
	if err != nil {
		return nil, fmt.Errorf("order id generator: %w", err)
	}
	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(params.DB.DB()),
		Stock:     catalogSvc,
		IDs:       ids,
		Logger:    params.Logger,
		Metrics:   shopMetrics,
		ListLimit: cfg.Orders.ListLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("orders service: %w", err)
	}

	sessions, err := sessionStore(cfg, params.Redis)
	if err != nil {
		return nil, err
	}

	admins := auth.NewAdminSet(cfg.Shop.AdminIDs())
	engine, err := dialog.NewEngine(dialog.EngineParams{
		Sessions:   sessions,
		Catalog:    catalogSvc,
		Orders:     ordersSvc,
		Admins:     admins,
		Logger:     params.Logger,
		CardNumber: cfg.Shop.CardNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("dialog engine: %w", err)
	}

	messenger, err := notifications.NewTelegramMessenger(params.Telegram)
	if err != nil {
		return nil, err
	}
	dispatcher, err := notifications.NewDispatcher(messenger, params.Logger, shopMetrics)
	if err != nil {
		return nil, err
	}

	processorParams := updates.ProcessorParams{
		Handler:   engine,
		Deliverer: dispatcher,
		DedupTTL:  cfg.Redis.UpdateTTL,
		Logger:    params.Logger,
		Metrics:   shopMetrics,
	}
	if params.Redis != nil {
		processorParams.Claimer = params.Redis
	}
	processor, err := updates.NewProcessor(processorParams)
	if err != nil {
		return nil, err
	}

	return &Shop{
		Processor: processor,
		Engine:    engine,
		Metrics:   shopMetrics,
		Admins:    admins,
	}, nil
}

// NewTelegramClient builds the Bot API client from configuration.
func NewTelegramClient(cfg config.TelegramConfig) (*telegram.Client, error) {
	return telegram.NewClient(cfg.Token,
		telegram.WithBaseURL(cfg.APIBaseURL),
		telegram.WithTimeout(cfg.HTTPTimeout),
	)
}

func sessionStore(cfg *config.Config, redisClient *redis.Client) (session.Store, error) {
	if redisClient == nil {
		return session.NewMemoryStore(cfg.Session.TTL), nil
	}
	store, err := session.NewRedisStore(redisClient, cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	return store, nil
}
