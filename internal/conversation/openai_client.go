package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var openaiTracer = otel.Tracer("supportbot.internal.conversation.openai")

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAILLMClient implements LLMClient using OpenAI's chat completion API.
type OpenAILLMClient struct {
	client       chatClient
	defaultModel string
}

// NewOpenAILLMClient creates an OpenAI-backed LLM client.
func NewOpenAILLMClient(apiKey, defaultModel string) (*OpenAILLMClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("conversation: openai api key is required")
	}
	if strings.TrimSpace(defaultModel) == "" {
		defaultModel = "gpt-3.5-turbo"
	}
	return &OpenAILLMClient{
		client:       openai.NewClient(apiKey),
		defaultModel: defaultModel,
	}, nil
}

// Complete sends a completion request to OpenAI and returns the trimmed reply.
func (c *OpenAILLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	ctx, span := openaiTracer.Start(ctx, "conversation.openai.complete")
	defer span.End()

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	span.SetAttributes(attribute.String("supportbot.openai.model", model))

	messages := make([]openai.ChatCompletionMessage, 0, len(req.System)+len(req.Messages))
	for _, sys := range req.System {
		if strings.TrimSpace(sys) == "" {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: sys,
		})
	}
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	if len(messages) == 0 {
		return LLMResponse{}, errors.New("conversation: openai requires at least one message")
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   int(req.MaxTokens),
		Temperature: req.Temperature,
	})
	if err != nil {
		span.RecordError(err)
		return LLMResponse{}, fmt.Errorf("conversation: openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New("conversation: openai returned no choices")
		span.RecordError(err)
		return LLMResponse{}, err
	}

	choice := resp.Choices[0]
	return LLMResponse{
		Text:       strings.TrimSpace(choice.Message.Content),
		StopReason: string(choice.FinishReason),
	}, nil
}
