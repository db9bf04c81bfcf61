package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"fundtrust/internal/config"
)

func TestMain(m *testing.M) {
	// go.opencensus.io (pulled in transitively via google.golang.org/genai)
	// starts a background worker goroutine at package init that never exits.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

// fakeClient is a deterministic Client for adapter tests.
type fakeClient struct {
	answer     string
	summary    string
	err        error
	blockUntil func(ctx context.Context) // optional; simulates a hung call
	calls      atomic.Int64
}

func (f *fakeClient) Ask(ctx context.Context, question, passage string) (string, error) {
	f.calls.Add(1)
	if f.blockUntil != nil {
		f.blockUntil(ctx)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeClient) Summarize(ctx context.Context, text string, maxNewTokens int) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func newTestAssistant(client Client, timeout time.Duration) *Assistant {
	return NewAssistant(NewStaticFactory(client), timeout, nil)
}

func TestAskSkipsShortContext(t *testing.T) {
	client := &fakeClient{answer: "should never be returned"}
	a := newTestAssistant(client, 0)

	_, ok := a.Ask(context.Background(), "What is this about?", "too short")
	assert.False(t, ok)
	assert.Equal(t, int64(0), client.calls.Load(), "short context must skip the call entirely")
}

func TestAskReturnsAnswer(t *testing.T) {
	client := &fakeClient{answer: "  emergency surgery for a cat  "}
	a := newTestAssistant(client, 0)

	answer, ok := a.Ask(context.Background(), "What is this about?", "emergency surgery fund for mittens the cat")
	assert.True(t, ok)
	assert.Equal(t, "emergency surgery for a cat", answer)
}

func TestAskFailureIsNoSignal(t *testing.T) {
	client := &fakeClient{err: errors.New("model unavailable")}
	a := newTestAssistant(client, 0)

	_, ok := a.Ask(context.Background(), "What is this about?", "a passage long enough to qualify")
	assert.False(t, ok)
}

func TestAskTimeoutIsNoSignal(t *testing.T) {
	client := &fakeClient{
		answer: "late answer",
		blockUntil: func(ctx context.Context) {
			<-ctx.Done()
		},
		err: context.DeadlineExceeded,
	}
	a := newTestAssistant(client, 10*time.Millisecond)

	start := time.Now()
	_, ok := a.Ask(context.Background(), "What is this about?", "a passage long enough to qualify")
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second, "timeout must bound the call")
}

func TestAskDisabledProviderIsNoSignal(t *testing.T) {
	a := NewAssistant(NewFactory(config.AssistConfig{Provider: "none"}, nil), 0, nil)

	_, ok := a.Ask(context.Background(), "What is this about?", "a passage long enough to qualify")
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	t.Run("returns_summary", func(t *testing.T) {
		client := &fakeClient{summary: "A cat needs surgery."}
		a := newTestAssistant(client, 0)

		got, ok := a.Summarize(context.Background(), "Mittens needs urgent surgery after an accident.")
		assert.True(t, ok)
		assert.Equal(t, "A cat needs surgery.", got)
	})

	t.Run("empty_input_skipped", func(t *testing.T) {
		client := &fakeClient{summary: "never"}
		a := newTestAssistant(client, 0)

		_, ok := a.Summarize(context.Background(), "   ")
		assert.False(t, ok)
		assert.Equal(t, int64(0), client.calls.Load())
	})

	t.Run("failure_is_no_signal", func(t *testing.T) {
		client := &fakeClient{err: fmt.Errorf("overloaded")}
		a := newTestAssistant(client, 0)

		_, ok := a.Summarize(context.Background(), "some description text")
		assert.False(t, ok)
	})
}

func TestSummarizeTruncatesInput(t *testing.T) {
	var gotLen int
	client := &recordingClient{onSummarize: func(text string) { gotLen = len(text) }}
	a := newTestAssistant(client, 0)

	_, _ = a.Summarize(context.Background(), strings.Repeat("x", 5000))
	assert.Equal(t, summaryInputLimit, gotLen)
}

type recordingClient struct {
	onSummarize func(text string)
}

func (r *recordingClient) Ask(ctx context.Context, question, passage string) (string, error) {
	return "", nil
}

func (r *recordingClient) Summarize(ctx context.Context, text string, maxNewTokens int) (string, error) {
	if r.onSummarize != nil {
		r.onSummarize(text)
	}
	return "summary", nil
}
