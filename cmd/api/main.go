package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/telegram-support-bot/internal/api/router"
	"github.com/wolfman30/telegram-support-bot/internal/channels/telegram"
	appconfig "github.com/wolfman30/telegram-support-bot/internal/config"
	"github.com/wolfman30/telegram-support-bot/internal/conversation"
	"github.com/wolfman30/telegram-support-bot/internal/faq"
	"github.com/wolfman30/telegram-support-bot/internal/observability/metrics"
	"github.com/wolfman30/telegram-support-bot/pkg/logging"
)

func main() {
	// Load .env if present; deployed environments set real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting telegram-support-bot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	botMetrics := metrics.NewBotMetrics(nil)

	llmClient, err := conversation.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		logger.Error("failed to create openai client", "error", err)
		os.Exit(1)
	}
	responder := conversation.NewSupportResponder(llmClient, logger.WithComponent("responder"))

	telegramClient := telegram.NewClient(cfg.BotToken, logger.WithComponent("telegram"), botMetrics)
	if cfg.TelegramAPIBase != "" {
		telegramClient.SetAPIBase(cfg.TelegramAPIBase)
	}

	matcher := faq.NewMatcher(faq.DefaultEntries(), logger.WithComponent("faq"))
	processor := conversation.NewProcessor(matcher, responder, telegramClient, logger.WithComponent("processor"), botMetrics)
	webhookHandler := telegram.NewWebhookHandler(telegramClient, processor, logger.WithComponent("webhook"), botMetrics)

	r := router.New(&router.Config{
		Logger:          logger,
		TelegramHandler: webhookHandler,
		MetricsHandler:  promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// The completion call runs inside the webhook request, so the write
		// timeout has to cover it.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
