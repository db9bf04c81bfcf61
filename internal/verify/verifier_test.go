package verify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundtrust/internal/assist"
	"fundtrust/internal/config"
)

// stubModel is a deterministic assist.Client: same passage, same answers.
// This is what makes the idempotence property testable.
type stubModel struct {
	purpose    string
	kind       string
	summary    string
	askErr     error
	sumErr     error
	panicOnAsk bool
}

func (s *stubModel) Ask(ctx context.Context, question, passage string) (string, error) {
	if s.panicOnAsk {
		panic("qa backend crashed")
	}
	if s.askErr != nil {
		return "", s.askErr
	}
	if question == questionType {
		return s.kind, nil
	}
	return s.purpose, nil
}

func (s *stubModel) Summarize(ctx context.Context, text string, maxNewTokens int) (string, error) {
	if s.sumErr != nil {
		return "", s.sumErr
	}
	return s.summary, nil
}

func newTestVerifier(client assist.Client) *Verifier {
	assistant := assist.NewAssistant(assist.NewStaticFactory(client), 0, nil)
	return New(config.Default(), assistant, nil)
}

func approvableInput() Input {
	return Input{
		Title:         "Emergency Vet Surgery for Mittens",
		Description:   "Mittens needs urgent surgery after an accident. We are raising $2500.",
		Category:      "medical",
		FundraiserURL: "https://www.gofundme.com/f/help-mittens",
		CaptureText:   "emergency surgery fund mittens gofundme donate",
	}
}

func TestVerifyApproves(t *testing.T) {
	v := newTestVerifier(&stubModel{
		purpose: "emergency vet surgery for mittens",
		summary: "Mittens needs emergency surgery.",
	})

	res := v.Verify(context.Background(), approvableInput())

	require.True(t, res.Approved, "reasons: %v", res.Reasons)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "Verified. Badge + boost enabled.", res.Message)
	assert.Equal(t, TierCommunity, res.Tier)
	assert.Empty(t, res.Step)
	assert.GreaterOrEqual(t, res.Scores.Reliability, 0.8)
	assert.Greater(t, res.Scores.Consistency, 0.0)
	assert.LessOrEqual(t, res.Scores.Consistency, 1.0)

	assert.Equal(t, "Mittens needs emergency surgery.", res.Summary)
	assert.LessOrEqual(t, len(res.Hashtags), 6)
	assert.Contains(t, res.Hashtags, "mittens")
	assert.Contains(t, res.Hashtags, "surgery")
}

func TestVerifyApprovalWarnsOnImperfectReliability(t *testing.T) {
	v := newTestVerifier(&stubModel{purpose: "emergency vet surgery for mittens"})

	res := v.Verify(context.Background(), approvableInput())

	require.True(t, res.Approved)
	// 0.6 host + 0.2 https + slug bonus lands under the 0.9 warning line.
	assert.Less(t, res.Scores.Reliability, 0.9)
	assert.Contains(t, res.Reasons, "Heads-up: reliability is good but not perfect.")
}

func TestVerifyRejectsBadLink(t *testing.T) {
	in := approvableInput()
	in.FundraiserURL = "http://example.com/mittens"
	v := newTestVerifier(&stubModel{purpose: "emergency vet surgery for mittens"})

	res := v.Verify(context.Background(), in)

	require.False(t, res.Approved)
	assert.Equal(t, StepReliability, res.Step)
	require.NotEmpty(t, res.Reasons)
	assert.True(t, hasReasonContaining(res.Reasons, "Domain not in allowlist"), "reasons: %v", res.Reasons)
	assert.True(t, hasReasonContaining(res.Reasons, "not HTTPS"), "reasons: %v", res.Reasons)
	assert.Equal(t, res.Reasons[0], res.Message)
}

func TestVerifyRejectsMismatchedContent(t *testing.T) {
	in := Input{
		Title:         "Dance Challenge",
		Description:   "new moves this weekend",
		Category:      "medical",
		FundraiserURL: "https://www.gofundme.com/f/dance",
	}
	v := newTestVerifier(&stubModel{purpose: "a dance challenge video"})

	res := v.Verify(context.Background(), in)

	require.False(t, res.Approved)
	assert.Equal(t, StepConsistency, res.Step)
	assert.True(t, hasReasonContaining(res.Reasons, "Category keywords do not align"), "reasons: %v", res.Reasons)
}

func TestVerifyContradictionRejects(t *testing.T) {
	in := Input{
		Title:         "Help Mittens",
		Description:   "Mittens the cat needs surgery, please donate to her fund.",
		Category:      "medical",
		FundraiserURL: "https://www.gofundme.com/f/help-mittens",
		CaptureText:   "raising PTSD awareness this month, share and learn the symptoms",
	}
	v := newTestVerifier(&stubModel{purpose: "ptsd awareness education"})

	res := v.Verify(context.Background(), in)

	require.False(t, res.Approved)
	assert.Equal(t, StepConsistency, res.Step)
	assert.True(t, hasReasonContaining(res.Reasons, "awareness content"), "reasons: %v", res.Reasons)
}

func TestVerifyMissingLinkForCharityAppeal(t *testing.T) {
	in := approvableInput()
	in.FundraiserURL = ""
	v := newTestVerifier(&stubModel{purpose: "emergency vet surgery for mittens"})

	res := v.Verify(context.Background(), in)

	require.False(t, res.Approved)
	assert.Equal(t, StepReliability, res.Step)
	assert.True(t, hasReasonContaining(res.Reasons, "Missing external donation/charity link"), "reasons: %v", res.Reasons)
}

func TestVerifyGoalMismatchIsWarningOnly(t *testing.T) {
	v := newTestVerifier(&stubModel{
		purpose: "emergency vet surgery for mittens raising $5,000",
		summary: "Mittens needs surgery.",
	})

	res := v.Verify(context.Background(), approvableInput())

	// The amount cross-check adds a reason but never gates the decision.
	require.True(t, res.Approved, "reasons: %v", res.Reasons)
	assert.True(t, hasReasonContaining(res.Reasons, "Goal mismatch"), "reasons: %v", res.Reasons)
}

func TestVerifySummaryFallsBackToFirstSentence(t *testing.T) {
	v := newTestVerifier(&stubModel{
		purpose: "emergency vet surgery for mittens",
		sumErr:  errors.New("summarizer unavailable"),
	})

	res := v.Verify(context.Background(), approvableInput())

	require.True(t, res.Approved)
	// Short descriptions survive whole; the 160-char cut only bites later.
	assert.Equal(t, approvableInput().Description, res.Summary)
}

func TestVerifyWorksWithoutModel(t *testing.T) {
	// No capability at all: the deterministic checks decide alone.
	v := newTestVerifier(nil)

	res := v.Verify(context.Background(), approvableInput())

	require.True(t, res.Approved, "reasons: %v", res.Reasons)
	assert.Equal(t, TierCommunity, res.Tier)
	// Fallback summary, since summarization had no signal.
	assert.Equal(t, approvableInput().Description, res.Summary)
}

func TestVerifyShortContextRecordsReason(t *testing.T) {
	in := Input{
		Title:       "Hi",
		Description: "ok",
		Category:    "community",
	}
	v := newTestVerifier(nil)

	res := v.Verify(context.Background(), in)

	assert.True(t, hasReasonContaining(res.Reasons, "QA skipped"), "reasons: %v", res.Reasons)
}

func TestVerifyIdempotent(t *testing.T) {
	v := newTestVerifier(&stubModel{
		purpose: "emergency vet surgery for mittens",
		summary: "Mittens needs emergency surgery.",
	})
	in := approvableInput()

	first := v.Verify(context.Background(), in)
	second := v.Verify(context.Background(), in)

	if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(Result{}, "ID")); diff != "" {
		t.Fatalf("repeated verification differs (-first +second):\n%s", diff)
	}
}

func TestVerifyPanicBecomesAPIRejection(t *testing.T) {
	v := newTestVerifier(&stubModel{panicOnAsk: true})

	res := v.Verify(context.Background(), approvableInput())

	require.False(t, res.Approved)
	assert.Equal(t, StepAPI, res.Step)
	assert.NotEmpty(t, res.Reasons)
	assert.NotEmpty(t, res.Message)
}

func TestTierFor(t *testing.T) {
	v := newTestVerifier(nil)
	cases := []struct {
		name string
		url  string
		host string
		want Tier
	}{
		{name: "no_link", url: "", host: "", want: TierAwareness},
		{name: "ngo_host", url: "https://giving.sg/c/1", host: "giving.sg", want: TierNGO},
		{name: "ngo_www", url: "https://www.globalgiving.org/p/1", host: "www.globalgiving.org", want: TierNGO},
		{name: "community_host", url: "https://www.gofundme.com/f/x", host: "www.gofundme.com", want: TierCommunity},
		// Tier derives from the host alone; even a non-allowlisted link
		// gets a community label while the gates reject it.
		{name: "unknown_host", url: "https://example.com/x", host: "example.com", want: TierCommunity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, v.tierFor(tc.url, tc.host))
		})
	}
}

func TestSharedProperNoun(t *testing.T) {
	assert.True(t, sharedProperNoun("Layla needs surgery", "layla was hit by a car last week"))
	assert.False(t, sharedProperNoun("Layla needs surgery", "our dog was hit by a car"))
	assert.False(t, sharedProperNoun("no capitals here", "layla was hit by a car"))
}

func TestFallbackSummary(t *testing.T) {
	t.Run("short_text_kept_whole", func(t *testing.T) {
		got := fallbackSummary("Short first sentence. And then a little more detail.")
		assert.Equal(t, "Short first sentence. And then a little more detail.", got)
	})

	t.Run("long_text_cut_at_sentence_boundary", func(t *testing.T) {
		long := "First part ends here." + strings.Repeat(" filler words", 20)
		assert.Equal(t, "First part ends here.", fallbackSummary(long))
	})

	t.Run("long_unpunctuated_text_truncates", func(t *testing.T) {
		long := strings.Repeat("word ", 100)
		got := fallbackSummary(long)
		assert.LessOrEqual(t, len(got), 161)
	})

	t.Run("short_text_passes_through", func(t *testing.T) {
		assert.Equal(t, "tiny", fallbackSummary("tiny"))
	})
}

func hasReasonContaining(reasons []string, substr string) bool {
	for _, r := range reasons {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}
