package verify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fundtrust/internal/capture"
)

// defaultCaptureOffset is where in the video a frame is sampled. Early
// enough to exist in short clips, late enough to skip fade-ins.
const defaultCaptureOffset = 1200 * time.Millisecond

// Service runs the full submission flow: best-effort frame text capture,
// then the decision pipeline. It is the one entry point the product calls.
type Service struct {
	verifier *Verifier
	capturer capture.Provider
	log      *zap.Logger
}

// NewService wires the verifier to a capture provider. A nil provider
// disables capture; a nil logger defaults to no-op.
func NewService(verifier *Verifier, capturer capture.Provider, log *zap.Logger) *Service {
	if capturer == nil {
		capturer = capture.Null{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{verifier: verifier, capturer: capturer, log: log}
}

// VerifySubmission captures on-screen text from video (when provided and no
// capture text was supplied) and verifies the submission. Capture failure
// degrades to no-capture mode; it never fails the verification.
func (s *Service) VerifySubmission(ctx context.Context, in Input, video []byte) Result {
	if in.CaptureText == "" && len(video) > 0 {
		text, err := s.capturer.CaptureFrameText(ctx, video, defaultCaptureOffset)
		if err != nil {
			s.log.Warn("frame capture failed, continuing without capture text", zap.Error(err))
		} else {
			in.CaptureText = text
		}
	}
	return s.verifier.Verify(ctx, in)
}
