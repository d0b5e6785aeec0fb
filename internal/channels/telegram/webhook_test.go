package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolfman30/telegram-support-bot/internal/conversation"
)

type recordingProcessor struct {
	msgs []conversation.InboundMessage
}

func (p *recordingProcessor) Process(ctx context.Context, msg conversation.InboundMessage) {
	p.msgs = append(p.msgs, msg)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestHealthCheck(t *testing.T) {
	h := NewWebhookHandler(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "online" {
		t.Errorf("status = %v, want online", body["status"])
	}
	if body["service"] != "Telegram Customer Support Bot" {
		t.Errorf("service = %v", body["service"])
	}
	if body["version"] != "1.0.0" {
		t.Errorf("version = %v, want 1.0.0", body["version"])
	}
}

func TestHandleUpdateDispatchesMessage(t *testing.T) {
	proc := &recordingProcessor{}
	h := NewWebhookHandler(nil, proc, nil, nil)

	payload := `{"update_id":1001,"message":{"message_id":5,"chat":{"id":42},"from":{"first_name":"Ana"},"text":"What are your hours?"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	w := httptest.NewRecorder()
	h.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}

	if len(proc.msgs) != 1 {
		t.Fatalf("processor calls = %d, want 1", len(proc.msgs))
	}
	msg := proc.msgs[0]
	if msg.ChatID != 42 {
		t.Errorf("chat_id = %d, want 42", msg.ChatID)
	}
	if msg.Text != "What are your hours?" {
		t.Errorf("text = %q", msg.Text)
	}
	if msg.SenderName != "Ana" {
		t.Errorf("sender = %q, want Ana", msg.SenderName)
	}
}

func TestHandleUpdateMalformedBodyStillAcknowledges(t *testing.T) {
	proc := &recordingProcessor{}
	h := NewWebhookHandler(nil, proc, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	h.HandleUpdate(w, req)

	// Always 200, even on garbage: error statuses trigger Telegram redelivery.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for malformed body, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "error" {
		t.Errorf("status = %v, want error", body["status"])
	}
	if body["message"] == "" || body["message"] == nil {
		t.Error("expected a message describing the parse failure")
	}
	if len(proc.msgs) != 0 {
		t.Errorf("processor should not run on malformed body")
	}
}

func TestHandleUpdateWithoutMessageAcknowledges(t *testing.T) {
	proc := &recordingProcessor{}
	h := NewWebhookHandler(nil, proc, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"update_id":1002}`))
	w := httptest.NewRecorder()
	h.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if len(proc.msgs) != 0 {
		t.Errorf("processor should not run without a message")
	}
}

func TestHandleUpdatePartialMessageFields(t *testing.T) {
	proc := &recordingProcessor{}
	h := NewWebhookHandler(nil, proc, nil, nil)

	// No chat, no from: the processor decides to drop, not the receiver.
	payload := `{"update_id":1003,"message":{"message_id":6,"text":"hello"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	w := httptest.NewRecorder()
	h.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(proc.msgs) != 1 {
		t.Fatalf("processor calls = %d, want 1", len(proc.msgs))
	}
	if proc.msgs[0].ChatID != 0 {
		t.Errorf("chat_id = %d, want 0 for missing chat", proc.msgs[0].ChatID)
	}
	if proc.msgs[0].SenderName != "" {
		t.Errorf("sender = %q, want empty for missing from", proc.msgs[0].SenderName)
	}
}

func TestHandleSetWebhook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":true,"description":"Webhook was set"}`))
	}))
	defer server.Close()

	client := NewClient("test_token", nil, nil)
	client.SetAPIBase(server.URL)
	h := NewWebhookHandler(client, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/set_webhook?webhook_url=https://example.com/webhook", nil)
	w := httptest.NewRecorder()
	h.HandleSetWebhook(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Error("expected success true")
	}
	if body["webhook_url"] != "https://example.com/webhook" {
		t.Errorf("webhook_url = %v", body["webhook_url"])
	}
	if _, ok := body["telegram_response"]; !ok {
		t.Error("expected telegram_response to echo the platform acknowledgment")
	}
}

func TestHandleSetWebhookMissingParam(t *testing.T) {
	h := NewWebhookHandler(NewClient("t", nil, nil), nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/set_webhook", nil)
	w := httptest.NewRecorder()
	h.HandleSetWebhook(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleSetWebhookUnreachablePlatform(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient("test_token", nil, nil)
	client.SetAPIBase(server.URL)
	h := NewWebhookHandler(client, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/set_webhook?webhook_url=https://example.com/webhook", nil)
	w := httptest.NewRecorder()
	h.HandleSetWebhook(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	body := decodeBody(t, w)
	detail, _ := body["error"].(string)
	if !strings.Contains(detail, "setWebhook failed") {
		t.Errorf("error detail %q should carry the failure cause", detail)
	}
}

func TestHandleWebhookInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"url":"https://example.com/webhook","pending_update_count":0}}`))
	}))
	defer server.Close()

	client := NewClient("test_token", nil, nil)
	client.SetAPIBase(server.URL)
	h := NewWebhookHandler(client, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook_info", nil)
	w := httptest.NewRecorder()
	h.HandleWebhookInfo(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Error("expected success true")
	}
	info, ok := body["webhook_info"].(map[string]interface{})
	if !ok {
		t.Fatalf("webhook_info = %T, want object", body["webhook_info"])
	}
	if info["url"] != "https://example.com/webhook" {
		t.Errorf("webhook url = %v", info["url"])
	}
}

func TestHandleWebhookInfoFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("test_token", nil, nil)
	client.SetAPIBase(server.URL)
	h := NewWebhookHandler(client, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook_info", nil)
	w := httptest.NewRecorder()
	h.HandleWebhookInfo(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
