// Package assist adapts external model capabilities (question-answering and
// summarization) for the trust pipeline. Every call through the adapter is
// optional: a failure, timeout, or disabled provider degrades to "no signal"
// rather than an error, so the deterministic checks always decide alone when
// the model is unavailable.
package assist

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client is the raw transport to a model provider. Implementations may fail;
// the Assistant owns turning failures into absent signals.
type Client interface {
	// Ask answers a question from the given passage only.
	Ask(ctx context.Context, question, passage string) (string, error)
	// Summarize produces a short abstractive summary of text.
	Summarize(ctx context.Context, text string, maxNewTokens int) (string, error)
}

const (
	// minContextChars guards against unstable model behavior on trivially
	// short passages; anything shorter is skipped outright.
	minContextChars = 16
	// summaryInputLimit truncates summarization input.
	summaryInputLimit = 1200
	// summaryMaxNewTokens bounds summary length.
	summaryMaxNewTokens = 96
)

// Assistant is the failure-tolerant front of the model capabilities. The
// zero value is unusable; construct with NewAssistant.
type Assistant struct {
	factory *Factory
	timeout time.Duration
	log     *zap.Logger
}

// NewAssistant wraps a capability factory. A nil logger defaults to no-op;
// a non-positive timeout disables the per-call bound.
func NewAssistant(factory *Factory, timeout time.Duration, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{factory: factory, timeout: timeout, log: log}
}

// Ask answers question from passage. The second return is false whenever
// there is no usable answer: passage too short, provider disabled or failed,
// call timed out, or the model returned nothing.
func (a *Assistant) Ask(ctx context.Context, question, passage string) (string, bool) {
	passage = strings.TrimSpace(passage)
	if len(passage) < minContextChars {
		return "", false
	}

	client, err := a.factory.QA()
	if err != nil {
		a.log.Debug("qa capability unavailable", zap.Error(err))
		return "", false
	}

	ctx, cancel := a.bound(ctx)
	defer cancel()

	answer, err := client.Ask(ctx, question, passage)
	if err != nil {
		a.log.Debug("qa call failed", zap.String("question", question), zap.Error(err))
		return "", false
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false
	}
	return answer, true
}

// Summarize produces a short summary of text, false on any failure or when
// text is empty. Input is truncated before the call.
func (a *Assistant) Summarize(ctx context.Context, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if len(text) > summaryInputLimit {
		text = text[:summaryInputLimit]
	}

	client, err := a.factory.Summarizer()
	if err != nil {
		a.log.Debug("summarization capability unavailable", zap.Error(err))
		return "", false
	}

	ctx, cancel := a.bound(ctx)
	defer cancel()

	summary, err := client.Summarize(ctx, text, summaryMaxNewTokens)
	if err != nil {
		a.log.Debug("summarize call failed", zap.Error(err))
		return "", false
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", false
	}
	return summary, true
}

func (a *Assistant) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}
