// Package capture defines the boundary to the frame-capture / text
// recognition collaborator. The pipeline never depends on how the text was
// produced; it only needs a best-effort string, possibly empty.
package capture

import (
	"context"
	"time"
)

// Provider extracts on-screen text from a single frame of a video. An empty
// result is legitimate (nothing readable at that offset). Errors must not
// escape the caller's fallback: a failed capture means no-capture mode, not
// a failed verification.
type Provider interface {
	CaptureFrameText(ctx context.Context, video []byte, at time.Duration) (string, error)
}

// Null is a Provider that never recognizes anything. Used when the product
// runs without a recognition engine.
type Null struct{}

func (Null) CaptureFrameText(context.Context, []byte, time.Duration) (string, error) {
	return "", nil
}

// Static returns fixed text regardless of input. Used by the CLI to feed
// pre-recognized text and by tests.
type Static struct {
	Text string
}

func (s Static) CaptureFrameText(context.Context, []byte, time.Duration) (string, error) {
	return s.Text, nil
}
