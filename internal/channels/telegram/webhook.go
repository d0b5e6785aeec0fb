package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wolfman30/telegram-support-bot/internal/conversation"
	"github.com/wolfman30/telegram-support-bot/internal/observability/metrics"
	"github.com/wolfman30/telegram-support-bot/pkg/logging"
)

const (
	serviceName    = "Telegram Customer Support Bot"
	serviceVersion = "1.0.0"
)

// UpdateProcessor handles one parsed inbound message.
type UpdateProcessor interface {
	Process(ctx context.Context, msg conversation.InboundMessage)
}

// WebhookHandler serves the bot's public HTTP surface: the update receiver,
// webhook administration, and the health check.
type WebhookHandler struct {
	client    *Client
	processor UpdateProcessor
	logger    *logging.Logger
	metrics   *metrics.BotMetrics
}

// NewWebhookHandler creates the handler set for the Telegram endpoints.
func NewWebhookHandler(client *Client, processor UpdateProcessor, logger *logging.Logger, m *metrics.BotMetrics) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		client:    client,
		processor: processor,
		logger:    logger,
		metrics:   m,
	}
}

// HealthCheck reports static service status.
func (h *WebhookHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// HandleUpdate receives webhook deliveries from Telegram.
//
// Every outcome, including a malformed body, is acknowledged with HTTP 200:
// an error status would put Telegram into a delivery-retry loop and turn one
// transient failure into repeated duplicate sends.
func (h *WebhookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveWebhookLatency(time.Since(start).Seconds())
	}()

	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.Error("error processing webhook", "error", err)
		h.metrics.ObserveInbound("malformed")
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	if update.Message == nil {
		h.logger.Warn("received update without a message", "update_id", update.UpdateID)
		h.metrics.ObserveInbound("no_message")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	h.logger.Info("received update", "update_id", update.UpdateID)
	h.metrics.ObserveInbound("ok")
	h.processor.Process(r.Context(), toInboundMessage(update.Message))

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleSetWebhook registers the webhook URL given as a query parameter.
// Unlike the receiver, failures here surface as real error statuses: this is
// an administrator-invoked endpoint, not a platform callback.
func (h *WebhookHandler) HandleSetWebhook(w http.ResponseWriter, r *http.Request) {
	webhookURL := r.URL.Query().Get("webhook_url")
	if webhookURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "webhook_url query parameter is required",
		})
		return
	}

	ack, err := h.client.SetWebhook(r.Context(), webhookURL)
	if err != nil {
		h.logger.Error("error setting webhook", "error", err, "webhook_url", webhookURL)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to set webhook: " + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"message":           "Webhook set successfully",
		"webhook_url":       webhookURL,
		"telegram_response": ack,
	})
}

// HandleWebhookInfo returns the bot's current webhook configuration.
func (h *WebhookHandler) HandleWebhookInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.client.GetWebhookInfo(r.Context())
	if err != nil {
		h.logger.Error("error getting webhook info", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to get webhook info: " + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"webhook_info": info,
	})
}

func toInboundMessage(msg *Message) conversation.InboundMessage {
	inbound := conversation.InboundMessage{Text: msg.Text}
	if msg.Chat != nil {
		inbound.ChatID = msg.Chat.ID
	}
	if msg.From != nil {
		inbound.SenderName = msg.From.FirstName
	}
	return inbound
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
