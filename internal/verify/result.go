// Package verify implements the fundraiser trust decision pipeline: it fuses
// lexical consistency signals, a contradiction rule, link reliability, and
// optional model-assisted checks into one structured approve/reject result.
package verify

// Tier is the trust label shown alongside an approval. It derives purely
// from link presence and host, independent of the scores.
type Tier string

const (
	// TierNGO means the link host is in the curated non-profit subset.
	TierNGO Tier = "NGO-Verified"
	// TierCommunity means the link host is allowlisted but not curated.
	TierCommunity Tier = "Community-Verified"
	// TierAwareness means no external link was supplied.
	TierAwareness Tier = "Awareness"
)

// Step tags which gate a rejection failed. Consistency is checked before
// reliability; api marks a collaborator failure that escaped its guard.
type Step string

const (
	StepConsistency Step = "consistency"
	StepReliability Step = "reliability"
	StepAPI         Step = "api"
)

// Input is one fundraiser submission. No field is trusted as structured
// data before extraction; everything is free text.
type Input struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	// Goals optionally declares a target amount in free text.
	Goals    string `json:"goals,omitempty" yaml:"goals"`
	Category string `json:"category" yaml:"category"`
	// FundraiserURL is the optional external donation link.
	FundraiserURL string `json:"fundraiserUrl,omitempty" yaml:"fundraiser_url"`
	// CaptureText is noisy text recognized from a submitted video frame.
	CaptureText string `json:"captureText,omitempty" yaml:"capture_text"`
}

// Scores are the two diagnostic scalars of a decision. They are always
// present, even on rejection.
type Scores struct {
	Consistency float64 `json:"consistency"`
	Reliability float64 `json:"reliability"`
}

// Result is the structured outcome of one verification call. Approved and
// rejected results share the shape; Step is empty on approval, while
// Summary, Hashtags, and Tier are empty on rejection.
type Result struct {
	// ID correlates this result across logs and the UI.
	ID       string `json:"id"`
	Approved bool   `json:"approved"`
	// Message is the top-line copy: fixed on approval, first reason (or a
	// generic fallback) on rejection.
	Message  string   `json:"message"`
	Summary  string   `json:"aiSummary,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
	Tier     Tier     `json:"verificationTier,omitempty"`
	Step     Step     `json:"step,omitempty"`
	Scores   Scores   `json:"scores"`
	// Reasons explains every failed or noteworthy check, in check order.
	// Non-empty on rejection; optional warnings on approval.
	Reasons []string `json:"reasons,omitempty"`
}
