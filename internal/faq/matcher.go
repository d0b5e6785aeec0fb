package faq

import (
	"strings"

	"github.com/wolfman30/telegram-support-bot/pkg/logging"
)

// Entry pairs a lowercase keyword with its canned answer.
type Entry struct {
	Keyword string
	Answer  string
}

// DefaultEntries returns the built-in support FAQ table.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Keyword: "hours",
			Answer:  "Our business hours are Monday to Friday, 9 AM to 6 PM EST. We're closed on weekends and public holidays.",
		},
		{
			Keyword: "location",
			Answer:  "We're located at 123 Main Street, Suite 100, New York, NY 10001. You can also reach us online 24/7!",
		},
		{
			Keyword: "contact",
			Answer:  "You can contact us via:\n📧 Email: support@company.com\n📞 Phone: +1 (555) 123-4567\n💬 This chat (24/7 AI support)",
		},
		{
			Keyword: "shipping",
			Answer:  "We offer free shipping on orders over $50. Standard shipping takes 3-5 business days, and express shipping takes 1-2 business days.",
		},
		{
			Keyword: "returns",
			Answer:  "We accept returns within 30 days of purchase. Items must be unused and in original packaging. Contact us to initiate a return.",
		},
		{
			Keyword: "payment",
			Answer:  "We accept all major credit cards, PayPal, Apple Pay, and Google Pay. All transactions are secure and encrypted.",
		},
	}
}

// Matcher answers messages that contain a known FAQ keyword.
//
// Entries are checked in insertion order and the first keyword found as a
// case-insensitive substring wins. When a message contains several keywords,
// table order decides the answer; callers relying on a specific outcome must
// order the table accordingly.
type Matcher struct {
	entries []Entry
	logger  *logging.Logger
}

// NewMatcher builds a matcher over the given table. The table is owned by the
// matcher and must not be mutated after construction.
func NewMatcher(entries []Entry, logger *logging.Logger) *Matcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Matcher{entries: entries, logger: logger}
}

// Match returns the answer for the first keyword contained in text.
// Empty text never matches.
func (m *Matcher) Match(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lowered := strings.ToLower(text)
	for _, e := range m.entries {
		if strings.Contains(lowered, e.Keyword) {
			m.logger.Debug("faq match found", "keyword", e.Keyword)
			return e.Answer, true
		}
	}
	return "", false
}
