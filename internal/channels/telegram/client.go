package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/telegram-support-bot/internal/conversation"
	"github.com/wolfman30/telegram-support-bot/internal/observability/metrics"
	"github.com/wolfman30/telegram-support-bot/pkg/logging"
)

const (
	defaultAPIBase     = "https://api.telegram.org"
	defaultHTTPTimeout = 10 * time.Second
)

var telegramTracer = otel.Tracer("supportbot.internal.channels.telegram")

// WebhookRegistrationError reports a failed setWebhook/getWebhookInfo call,
// carrying the underlying cause.
type WebhookRegistrationError struct {
	Op  string
	Err error
}

func (e *WebhookRegistrationError) Error() string {
	return fmt.Sprintf("telegram: %s failed: %v", e.Op, e.Err)
}

func (e *WebhookRegistrationError) Unwrap() error {
	return e.Err
}

// Client calls the Telegram Bot API over HTTP.
type Client struct {
	token      string
	apiBase    string
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.BotMetrics
}

// NewClient creates a Bot API client for the given token.
func NewClient(token string, logger *logging.Logger, m *metrics.BotMetrics) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		token:      token,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logger,
		metrics:    m,
	}
}

// SetAPIBase overrides the Bot API base URL (useful for testing).
func (c *Client) SetAPIBase(base string) {
	c.apiBase = base
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
}

var _ conversation.ReplyMessenger = (*Client)(nil)

// SendMessage delivers text to a chat with HTML parse mode enabled. Delivery
// is reported as a boolean: transport errors, timeouts, and non-2xx responses
// are logged and collapse into false, never an error.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) bool {
	ctx, span := telegramTracer.Start(ctx, "telegram.sendMessage")
	defer span.End()
	span.SetAttributes(attribute.Int64("supportbot.chat_id", chatID))

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		c.logger.Error("failed to marshal sendMessage payload", "error", err, "chat_id", chatID)
		c.metrics.ObserveOutbound("failed")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendMessage"), bytes.NewReader(body))
	if err != nil {
		c.logger.Error("failed to build sendMessage request", "error", err, "chat_id", chatID)
		c.metrics.ObserveOutbound("failed")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		c.logger.Error("error sending message to telegram", "error", err, "chat_id", chatID)
		c.metrics.ObserveOutbound("failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		c.logger.Error("telegram sendMessage returned error status",
			"status", resp.StatusCode,
			"body", string(respBody),
			"chat_id", chatID,
		)
		c.metrics.ObserveOutbound("failed")
		return false
	}

	c.logger.Info("message sent successfully", "chat_id", chatID)
	c.metrics.ObserveOutbound("sent")
	return true
}

// SetWebhook registers url as the bot's webhook and returns Telegram's raw
// acknowledgment payload.
func (c *Client) SetWebhook(ctx context.Context, url string) (json.RawMessage, error) {
	ctx, span := telegramTracer.Start(ctx, "telegram.setWebhook")
	defer span.End()

	body, err := json.Marshal(setWebhookRequest{URL: url})
	if err != nil {
		return nil, &WebhookRegistrationError{Op: "setWebhook", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("setWebhook"), bytes.NewReader(body))
	if err != nil {
		return nil, &WebhookRegistrationError{Op: "setWebhook", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, &WebhookRegistrationError{Op: "setWebhook", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &WebhookRegistrationError{Op: "setWebhook", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &WebhookRegistrationError{
			Op:  "setWebhook",
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	c.logger.Info("webhook set successfully", "webhook_url", url)
	return json.RawMessage(respBody), nil
}

// GetWebhookInfo fetches the bot's current webhook configuration.
func (c *Client) GetWebhookInfo(ctx context.Context) (*WebhookInfo, error) {
	ctx, span := telegramTracer.Start(ctx, "telegram.getWebhookInfo")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.methodURL("getWebhookInfo"), nil)
	if err != nil {
		return nil, &WebhookRegistrationError{Op: "getWebhookInfo", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, &WebhookRegistrationError{Op: "getWebhookInfo", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &WebhookRegistrationError{Op: "getWebhookInfo", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &WebhookRegistrationError{
			Op:  "getWebhookInfo",
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, &WebhookRegistrationError{Op: "getWebhookInfo", Err: err}
	}
	if !envelope.OK {
		return nil, &WebhookRegistrationError{
			Op:  "getWebhookInfo",
			Err: fmt.Errorf("api error %d: %s", envelope.ErrorCode, envelope.Description),
		}
	}

	var info WebhookInfo
	if len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, &info); err != nil {
			return nil, &WebhookRegistrationError{Op: "getWebhookInfo", Err: err}
		}
	}
	return &info, nil
}
