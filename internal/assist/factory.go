package assist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"fundtrust/internal/config"
)

// ErrDisabled is returned when no model provider is configured. Callers see
// this through the Assistant as an absent signal, never as a user-facing
// error.
var ErrDisabled = errors.New("model assist disabled")

// Capability names the two model capabilities the pipeline consumes.
type Capability string

const (
	CapabilityQA        Capability = "question-answering"
	CapabilitySummarize Capability = "summarization"
)

// Factory creates and memoizes one client handle per capability. Handles are
// created at most once per process and shared by every verification call and
// by Prewarm; concurrent first requests for the same capability await a
// single in-flight initialization.
type Factory struct {
	cfg config.AssistConfig
	log *zap.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	handles map[Capability]Client

	// build constructs a client for a capability; overridable in tests.
	build func(Capability) (Client, error)

	prewarmOnce sync.Once
	prewarmDone chan struct{}
}

// NewFactory builds a factory for the configured provider. No connection is
// made until a capability is first requested.
func NewFactory(cfg config.AssistConfig, log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Factory{
		cfg:         cfg,
		log:         log,
		handles:     make(map[Capability]Client),
		prewarmDone: make(chan struct{}),
	}
	f.build = f.newClient
	return f
}

// NewStaticFactory returns a factory whose capabilities are both served by
// the given client. Used by tests and deterministic offline runs.
func NewStaticFactory(client Client) *Factory {
	f := NewFactory(config.AssistConfig{Provider: "none"}, nil)
	if client != nil {
		f.handles[CapabilityQA] = client
		f.handles[CapabilitySummarize] = client
	}
	return f
}

// QA returns the memoized question-answering client.
func (f *Factory) QA() (Client, error) {
	return f.capability(CapabilityQA)
}

// Summarizer returns the memoized summarization client.
func (f *Factory) Summarizer() (Client, error) {
	return f.capability(CapabilitySummarize)
}

func (f *Factory) capability(kind Capability) (Client, error) {
	f.mu.RLock()
	h := f.handles[kind]
	f.mu.RUnlock()
	if h != nil {
		return h, nil
	}

	v, err, _ := f.group.Do(string(kind), func() (interface{}, error) {
		f.mu.RLock()
		existing := f.handles[kind]
		f.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		client, err := f.build(kind)
		if err != nil {
			return nil, err
		}

		f.mu.Lock()
		f.handles[kind] = client
		f.mu.Unlock()
		f.log.Debug("capability initialized",
			zap.String("capability", string(kind)),
			zap.String("provider", f.cfg.Provider))
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Client), nil
}

// newClient builds the transport. Both capabilities ride the same provider
// in every current backend, so kind only matters for logging upstream.
func (f *Factory) newClient(kind Capability) (Client, error) {
	switch f.cfg.Provider {
	case "gemini":
		return NewGeminiClient(context.Background(), f.cfg.APIKey, f.cfg.Model)
	case "openai":
		return NewOpenAIClient(f.cfg), nil
	case "", "none":
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unknown assist provider %q", f.cfg.Provider)
	}
}

// Prewarm initializes both capabilities in the background so the first
// verification call doesn't pay the load cost. Idempotent; failures are
// swallowed. The returned channel closes when warming finishes.
func (f *Factory) Prewarm(ctx context.Context) <-chan struct{} {
	f.prewarmOnce.Do(func() {
		go func() {
			defer close(f.prewarmDone)
			g, _ := errgroup.WithContext(ctx)
			g.Go(func() error {
				_, err := f.QA()
				return err
			})
			g.Go(func() error {
				_, err := f.Summarizer()
				return err
			})
			if err := g.Wait(); err != nil {
				f.log.Debug("prewarm incomplete", zap.Error(err))
			}
		}()
	})
	return f.prewarmDone
}
