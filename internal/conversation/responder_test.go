package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLMClient struct {
	resp    LLMResponse
	err     error
	lastReq LLMRequest
	calls   int
}

func (f *fakeLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	f.calls++
	f.lastReq = req
	return f.resp, f.err
}

func TestRespondReturnsReplyText(t *testing.T) {
	client := &fakeLLMClient{resp: LLMResponse{Text: "Happy to help with that order."}}
	responder := NewSupportResponder(client, nil)

	reply := responder.Respond(context.Background(), "I need help with my order")

	assert.Equal(t, "Happy to help with that order.", reply)
	assert.Equal(t, 1, client.calls)
}

func TestRespondRequestShape(t *testing.T) {
	client := &fakeLLMClient{resp: LLMResponse{Text: "ok"}}
	responder := NewSupportResponder(client, nil)

	responder.Respond(context.Background(), "where is my package?")

	req := client.lastReq
	require.Len(t, req.System, 1)
	assert.Contains(t, req.System[0], "customer support agent")
	require.Len(t, req.Messages, 1)
	assert.Equal(t, ChatRoleUser, req.Messages[0].Role)
	assert.Equal(t, "where is my package?", req.Messages[0].Content)
	assert.Equal(t, int32(300), req.MaxTokens)
	assert.InDelta(t, 0.7, float64(req.Temperature), 0.0001)
}

func TestRespondClientErrorYieldsApology(t *testing.T) {
	client := &fakeLLMClient{err: errors.New("connection timed out")}
	responder := NewSupportResponder(client, nil)

	reply := responder.Respond(context.Background(), "anything")

	assert.Equal(t, ApologyReply, reply)
}

func TestRespondEmptyReplyYieldsApology(t *testing.T) {
	client := &fakeLLMClient{resp: LLMResponse{Text: ""}}
	responder := NewSupportResponder(client, nil)

	reply := responder.Respond(context.Background(), "anything")

	assert.Equal(t, ApologyReply, reply)
}

func TestNewSupportResponderNilClientPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewSupportResponder(nil, nil)
	})
}
