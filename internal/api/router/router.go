package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/telegram-support-bot/internal/channels/telegram"
	httpmiddleware "github.com/wolfman30/telegram-support-bot/internal/http/middleware"
	"github.com/wolfman30/telegram-support-bot/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	TelegramHandler *telegram.WebhookHandler
	MetricsHandler  http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/", cfg.TelegramHandler.HealthCheck)
	r.Post("/webhook", cfg.TelegramHandler.HandleUpdate)
	r.Get("/set_webhook", cfg.TelegramHandler.HandleSetWebhook)
	r.Get("/webhook_info", cfg.TelegramHandler.HandleWebhookInfo)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
