package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/telegram-support-bot/internal/observability/metrics"
	"github.com/wolfman30/telegram-support-bot/pkg/logging"
)

const startCommand = "/start"

// defaultSenderName stands in when the platform omits the sender's first name.
const defaultSenderName = "there"

const welcomeTemplate = "👋 Hello %s! Welcome to our customer support.\n\n" +
	"I'm here to help you 24/7. You can ask me about:\n" +
	"• Business hours\n" +
	"• Location\n" +
	"• Contact information\n" +
	"• Shipping & returns\n" +
	"• Payment options\n" +
	"• Or anything else!\n\n" +
	"How can I assist you today?"

// InboundMessage is the channel-neutral view of one user message.
type InboundMessage struct {
	ChatID     int64
	Text       string
	SenderName string
}

// ReplyMessenger delivers one reply to one chat. Implementations report
// delivery as a boolean and never propagate transport errors.
type ReplyMessenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) bool
}

// FAQMatcher answers messages containing a known keyword.
type FAQMatcher interface {
	Match(text string) (string, bool)
}

// Responder produces a free-form support reply; it never fails visibly.
type Responder interface {
	Respond(ctx context.Context, userText string) string
}

// Processor routes one inbound message to exactly zero or one outbound reply:
// greeting command, FAQ answer, or LLM-generated response, in that order.
type Processor struct {
	faq       FAQMatcher
	responder Responder
	messenger ReplyMessenger
	logger    *logging.Logger
	metrics   *metrics.BotMetrics
}

// NewProcessor wires the message pipeline.
func NewProcessor(faq FAQMatcher, responder Responder, messenger ReplyMessenger, logger *logging.Logger, m *metrics.BotMetrics) *Processor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Processor{
		faq:       faq,
		responder: responder,
		messenger: messenger,
		logger:    logger,
		metrics:   m,
	}
}

// Process handles a single message. Branches short-circuit: the first taken
// branch sends its reply and returns. The send itself is not retried here.
func (p *Processor) Process(ctx context.Context, msg InboundMessage) {
	if msg.ChatID == 0 || msg.Text == "" {
		p.logger.Warn("received message without chat_id or text")
		p.metrics.ObserveReply("dropped")
		return
	}

	name := msg.SenderName
	if name == "" {
		name = defaultSenderName
	}

	p.logger.Info("processing message",
		"chat_id", msg.ChatID,
		"sender", name,
	)

	if strings.HasPrefix(msg.Text, startCommand) {
		p.metrics.ObserveReply("greeting")
		p.messenger.SendMessage(ctx, msg.ChatID, fmt.Sprintf(welcomeTemplate, name))
		return
	}

	if answer, ok := p.faq.Match(msg.Text); ok {
		p.metrics.ObserveReply("faq")
		p.messenger.SendMessage(ctx, msg.ChatID, answer)
		return
	}

	reply := p.responder.Respond(ctx, msg.Text)
	if reply == ApologyReply {
		p.metrics.ObserveReply("llm_fallback")
	} else {
		p.metrics.ObserveReply("llm")
	}
	p.messenger.SendMessage(ctx, msg.ChatID, reply)
}
