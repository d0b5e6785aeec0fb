package conversation

import (
	"context"

	"github.com/wolfman30/telegram-support-bot/pkg/logging"
)

const supportSystemPrompt = "You are a helpful and friendly customer support agent. " +
	"Provide clear, concise, and professional responses to customer inquiries. " +
	"Be empathetic and solution-oriented. Keep responses under 200 words."

// ApologyReply is the fixed fallback shown to the user when the completion
// provider fails in any way.
const ApologyReply = "I apologize, but I'm having trouble processing your request right now. " +
	"Please try again in a moment or contact our support team directly."

const (
	responderMaxTokens   = 300
	responderTemperature = 0.7
)

// SupportResponder generates customer support replies with a fixed system
// prompt. It is a total function: every failure path is logged and collapses
// into ApologyReply, so callers always get text they can send.
type SupportResponder struct {
	client LLMClient
	logger *logging.Logger
}

// NewSupportResponder builds a responder over the given LLM client.
func NewSupportResponder(client LLMClient, logger *logging.Logger) *SupportResponder {
	if client == nil {
		panic("conversation: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SupportResponder{client: client, logger: logger}
}

// Respond generates a reply for the user's message.
func (r *SupportResponder) Respond(ctx context.Context, userText string) string {
	resp, err := r.client.Complete(ctx, LLMRequest{
		System:      []string{supportSystemPrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: userText}},
		MaxTokens:   responderMaxTokens,
		Temperature: responderTemperature,
	})
	if err != nil {
		r.logger.Error("failed to generate support reply", "error", err)
		return ApologyReply
	}
	if resp.Text == "" {
		r.logger.Error("completion provider returned empty reply")
		return ApologyReply
	}

	r.logger.Info("support reply generated")
	return resp.Text
}
