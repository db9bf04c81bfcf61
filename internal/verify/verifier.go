package verify

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundtrust/internal/assist"
	"fundtrust/internal/config"
	"fundtrust/internal/lexicon"
	"fundtrust/internal/reliability"
	"fundtrust/internal/textproc"
)

const (
	combinedTextLimit = 1200
	hashtagLimit      = 6
	keywordPoolSize   = 8
	summaryCharLimit  = 160
	// reliabilityWarnBelow adds a heads-up warning to approvals whose
	// reliability score is good but not perfect.
	reliabilityWarnBelow = 0.9
)

var (
	// strongCaptureCueRE lets short capture text still count as a hard
	// signal when it carries a high-signal word.
	strongCaptureCueRE = regexp.MustCompile(`(?i)awareness|ptsd|symptom|donat|fund|surgery|emergency`)
	// fundraiserFormRE detects form text that reads as an active fundraiser.
	fundraiserFormRE = regexp.MustCompile(`(?i)(fund|donat|gofund|help|goal|raise)`)
	// medicalFormRE and petFormRE back the contradiction rule.
	medicalFormRE = regexp.MustCompile(`(?i)(surgery|illness|medical|hospital|pyometra|vet|emergency)`)
	petFormRE     = regexp.MustCompile(`(?i)(dog|cat|pet|puppy|kitten)`)
	// properNounRE finds a crude shared proper noun between title and
	// description (e.g. a pet's name).
	properNounRE = regexp.MustCompile(`[A-Z][a-z]{2,}`)
	// awarenessCategoryRE matches awareness-flavored declared categories.
	awarenessCategoryRE = regexp.MustCompile(`(?i)awareness`)
	// fundAnswerRE checks a model answer for fundraising language.
	fundAnswerRE = regexp.MustCompile(`(?i)fund|donat`)
	// firstSentenceRE grabs the first sentence (capped) for the fallback
	// summary.
	firstSentenceRE = regexp.MustCompile(`^.{1,160}([.!?]|$)`)
)

const (
	questionPurpose = "What is this about?"
	questionType    = "Is this fundraising or awareness?"

	approvedMessage = "Verified. Badge + boost enabled."
	fallbackMessage = "Verification failed."
)

// Verifier runs the decision pipeline. It is stateless across calls; all
// process-wide state (model handles) lives behind the injected assistant.
type Verifier struct {
	cfg       *config.Config
	assistant *assist.Assistant
	log       *zap.Logger
}

// New constructs a Verifier. A nil logger defaults to no-op.
func New(cfg *config.Config, assistant *assist.Assistant, log *zap.Logger) *Verifier {
	if cfg == nil {
		cfg = config.Default()
	}
	if assistant == nil {
		assistant = assist.NewAssistant(assist.NewFactory(cfg.Assist, nil), 0, nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Verifier{cfg: cfg, assistant: assistant, log: log}
}

// Verify decides one submission. It never returns an error: every path,
// including a collaborator panic, terminates in a well-formed Result.
func (v *Verifier) Verify(ctx context.Context, in Input) (result Result) {
	id := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			v.log.Error("collaborator failure escaped adapter guard",
				zap.String("id", id), zap.Any("panic", r))
			result = Result{
				ID:       id,
				Approved: false,
				Message:  fallbackMessage,
				Step:     StepAPI,
				Reasons:  []string{fmt.Sprintf("Internal verification error: %v.", r)},
			}
		}
	}()

	result = v.decide(ctx, id, in)

	v.log.Info("verification decided",
		zap.String("id", id),
		zap.Bool("approved", result.Approved),
		zap.String("step", string(result.Step)),
		zap.Float64("consistency", result.Scores.Consistency),
		zap.Float64("reliability", result.Scores.Reliability))
	return result
}

func (v *Verifier) decide(ctx context.Context, id string, in Input) Result {
	th := v.cfg.Thresholds
	var reasons []string

	title := textproc.Normalize(in.Title)
	desc := textproc.Normalize(in.Description)

	// Capture text gets the heavy cleanup; typed fields only whitespace.
	capRaw := textproc.Normalize(in.CaptureText)
	capText := textproc.CleanCapture(capRaw)
	capSufficient := len(capText) >= th.CaptureMinChars || strongCaptureCueRE.MatchString(capText)

	combined := textproc.Normalize(joinNonEmpty(". ", desc, title, capText))
	if len(combined) > combinedTextLimit {
		combined = combined[:combinedTextLimit]
	}
	formBundle := textproc.Normalize(joinNonEmpty(". ", title, desc, in.Goals, in.Category))
	formText := title + " " + desc + " " + in.Category

	// Title vs description: soft gate with two escape hatches, a shared
	// proper noun or a medical term in the description.
	titleDescSim := textproc.Overlap(title, desc)
	titleDescOK := titleDescSim >= th.TitleDescription ||
		sharedProperNoun(in.Title, desc) ||
		lexicon.HasMedicalTerm(desc)
	if !titleDescOK {
		reasons = append(reasons, fmt.Sprintf(
			"Title and description look mismatched (sim %.2f < %.2f).",
			titleDescSim, th.TitleDescription))
	}

	// Shared cue words can rescue a failing similarity gate. Known to be
	// generous: one word from a nine-word list is enough.
	sharedCues := v.sharedCues(formText, capText)

	capVsFormSim := 0.0
	if capText != "" {
		capVsFormSim = textproc.Overlap(capText, formBundle)
	}
	capVsFormOK := !capSufficient || capVsFormSim >= th.CaptureForm || sharedCues >= 1
	if capSufficient && !capVsFormOK {
		reasons = append(reasons, fmt.Sprintf(
			"Video text does not match the form (sim %.2f < %.2f).",
			capVsFormSim, th.CaptureForm))
	}

	combinedSim := textproc.Overlap(combined, formBundle)
	combinedOK := combinedSim >= th.CombinedForm || sharedCues >= 1
	if combinedSim < th.CombinedForm && sharedCues < 1 {
		reasons = append(reasons, fmt.Sprintf(
			"Details don't match combined content (sim %.2f < %.2f).",
			combinedSim, th.CombinedForm))
	}

	align := lexicon.CategoryAlign(in.Category, joinNonEmpty(" ", title, desc, capText))
	categoryOK := align.Ratio >= th.CategoryRatio || align.Hits >= th.CategoryHits
	if !categoryOK {
		reasons = append(reasons, fmt.Sprintf(
			"Category keywords do not align (score %.2f, hits %d).",
			align.Ratio, align.Hits))
	}

	contradiction := v.detectContradiction(in, capText, capSufficient)
	if contradiction {
		reasons = append(reasons,
			"Video text reads as awareness content (e.g. awareness/PTSD) while the form describes a fundraiser.")
	}

	// Model-assisted corroboration, best effort. The baseline keeps the
	// weighted score meaningful when the model is unavailable.
	modelAssist := 0.4
	if combinedOK {
		modelAssist = 0.7
	}
	qaContext := combined
	if capSufficient {
		qaContext = capText
	}
	if len(qaContext) >= 16 {
		score, goalReason := v.modelChecks(ctx, in, title, desc, qaContext)
		modelAssist = math.Max(modelAssist, score)
		if goalReason != "" {
			reasons = append(reasons, goalReason)
		}
	} else {
		reasons = append(reasons, "QA skipped due to short/empty context.")
	}

	coreSim := combinedSim
	coreGateOK := combinedOK
	if capSufficient {
		coreSim = capVsFormSim
		coreGateOK = capVsFormOK
	}
	coreOK := coreGateOK && (titleDescOK || categoryOK)
	consistencyOK := coreOK && !contradiction

	w := v.cfg.Weights
	consistency := clamp01(w.TitleDescription*titleDescSim +
		w.CoreSimilarity*coreSim +
		w.Category*align.Ratio +
		w.ModelAssist*modelAssist)

	rel := reliability.Assess(in.FundraiserURL, title, in.Category, v.cfg)
	reasons = append(reasons, rel.Reasons...)

	tier := v.tierFor(in.FundraiserURL, rel.Host)
	scores := Scores{Consistency: consistency, Reliability: rel.Score}

	if consistencyOK && rel.OK {
		return v.approve(ctx, id, title, desc, tier, scores, reasons)
	}

	step := StepReliability
	if !consistencyOK {
		step = StepConsistency
	}
	message := fallbackMessage
	if len(reasons) > 0 {
		message = reasons[0]
	}
	return Result{
		ID:      id,
		Message: message,
		Step:    step,
		Scores:  scores,
		Reasons: reasons,
	}
}

func (v *Verifier) approve(ctx context.Context, id, title, desc string, tier Tier, scores Scores, warnings []string) Result {
	hashtags := textproc.TopKeywords(title+" "+desc, keywordPoolSize)
	if len(hashtags) > hashtagLimit {
		hashtags = hashtags[:hashtagLimit]
	}

	summary, ok := v.assistant.Summarize(ctx, textproc.Normalize(title+". "+desc))
	if !ok {
		summary = fallbackSummary(desc)
	}

	if scores.Reliability < reliabilityWarnBelow {
		warnings = append(warnings, "Heads-up: reliability is good but not perfect.")
	}

	return Result{
		ID:       id,
		Approved: true,
		Message:  approvedMessage,
		Summary:  summary,
		Hashtags: hashtags,
		Tier:     tier,
		Scores:   scores,
		Reasons:  warnings,
	}
}

// detectContradiction flags capture text that reads as general-awareness
// content while the form describes an active fundraiser for a medical or
// animal cause. This is a hard rejection signal, independent of the
// similarity scores.
func (v *Verifier) detectContradiction(in Input, capText string, capSufficient bool) bool {
	if !capSufficient {
		return false
	}
	counts := lexicon.Classify(capText)
	if counts.Awareness < 2 || counts.Fundraise != 0 {
		return false
	}
	formText := in.Title + " " + in.Description + " " + in.Category
	formIsFundraiser := fundraiserFormRE.MatchString(formText) || in.FundraiserURL != ""
	formMentionsMedical := medicalFormRE.MatchString(formText)
	formMentionsPet := petFormRE.MatchString(in.Title + " " + in.Description)
	return formIsFundraiser && (formMentionsMedical || formMentionsPet)
}

// modelChecks asks the two fixed questions and folds the answers into one
// [0,1] assist component: how much the stated purpose overlaps the form,
// and whether the content type matches an awareness-declared category. The
// purpose answer is reused for the goal cross-check, which is warning-only:
// a mismatch adds a reason but never feeds the score or any gate.
func (v *Verifier) modelChecks(ctx context.Context, in Input, title, desc, qaContext string) (score float64, goalReason string) {
	purpose, havePurpose := v.assistant.Ask(ctx, questionPurpose, qaContext)
	purposeScore := textproc.Overlap(purpose, title+" "+desc)

	typeOK := true
	if awarenessCategoryRE.MatchString(in.Category) {
		answer, _ := v.assistant.Ask(ctx, questionType, qaContext)
		typeOK = !fundAnswerRE.MatchString(answer)
	}

	score = purposeScore
	if typeOK {
		score += 1
	}
	score /= 2

	// Goal amounts in model answers and capture text only count with an
	// explicit currency marker; bare numbers there are mostly noise.
	source := qaContext
	if havePurpose {
		source = purpose
	}
	contentGoal, haveContent := textproc.ExtractAmount(source, true)
	if !haveContent {
		return score, ""
	}
	formGoal, haveForm := textproc.ExtractAmount(in.Goals, false)
	if !haveForm {
		formGoal, haveForm = textproc.ExtractAmount(desc, false)
	}
	if !haveForm || textproc.ApproxEqual(contentGoal, formGoal, v.cfg.AmountTolerance) {
		return score, ""
	}
	return score, fmt.Sprintf("Goal mismatch: content ≈ %.0f vs form ≈ %.0f.", contentGoal, formGoal)
}

func (v *Verifier) sharedCues(formText, capText string) int {
	form := textproc.TokenSet(formText)
	capSet := textproc.TokenSet(capText)
	n := 0
	for _, cue := range v.cfg.CueWords {
		_, inForm := form[cue]
		_, inCap := capSet[cue]
		if inForm && inCap {
			n++
		}
	}
	return n
}

// tierFor derives the trust tier from link presence and host only.
func (v *Verifier) tierFor(rawURL, host string) Tier {
	if rawURL == "" {
		return TierAwareness
	}
	if v.cfg.HostNGO(host) {
		return TierNGO
	}
	return TierCommunity
}

// sharedProperNoun reports whether the first capitalized proper noun of the
// raw title also appears in the description. Crude, but catches the common
// case of a shared name like a pet's.
func sharedProperNoun(rawTitle, desc string) bool {
	name := properNounRE.FindString(rawTitle)
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(desc), strings.ToLower(name))
}

func fallbackSummary(desc string) string {
	if m := firstSentenceRE.FindString(desc); m != "" {
		return m
	}
	if len(desc) > summaryCharLimit {
		return desc[:summaryCharLimit]
	}
	return desc
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
