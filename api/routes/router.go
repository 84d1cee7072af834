package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/chatshop-backend/api/controllers"
	"github.com/angelmondragon/chatshop-backend/api/middleware"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
)

const WebhookPath = "/api/v1/telegram/webhook"

type RouterParams struct {
	Env    string
	Logger *logger.Logger
	// Ready lists the dependencies /health/ready pings, keyed by name.
	Ready map[string]controllers.Pinger
	// Processor is required by NewRouter only.
	Processor controllers.UpdateProcessor
	// WebhookSecret must match the secret registered with setWebhook.
	// Required by NewRouter.
	WebhookSecret string
	// Gatherer backs /metrics; nil leaves the endpoint unmounted.
	Gatherer prometheus.Gatherer
}

// NewRouter serves the probes, metrics and the Bot API webhook.
func NewRouter(params RouterParams) (http.Handler, error) {
	if params.Processor == nil {
		return nil, fmt.Errorf("update processor required")
	}
	if strings.TrimSpace(params.WebhookSecret) == "" {
		return nil, fmt.Errorf("webhook secret required")
	}
	r, err := newBaseRouter(params)
	if err != nil {
		return nil, err
	}
	r.With(middleware.TelegramSecret(params.WebhookSecret, params.Logger)).
		Post(WebhookPath, controllers.TelegramWebhook(params.Processor, params.Logger))
	return r, nil
}

// NewOpsRouter serves only the probes and metrics. The polling bot runs it
// next to its update loop.
func NewOpsRouter(params RouterParams) (http.Handler, error) {
	return newBaseRouter(params)
}

func newBaseRouter(params RouterParams) (chi.Router, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	logg := params.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(params.Env))
		r.Get("/ready", controllers.HealthReady(params.Env, logg, params.Ready))
	})

	if params.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Gatherer, promhttp.HandlerOpts{}))
	}
	return r, nil
}
