package textproc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Explicit currency marker followed by a number, with or without
	// thousands separators. Always the strongest cue.
	currencyAmountRE = regexp.MustCompile(`(?i)(?:\$|usd|sgd|s\$)\s*([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+(?:\.[0-9]+)?)`)
	// "12k" / "12 thousand" shorthand.
	kSuffixAmountRE = regexp.MustCompile(`(?i)\b([0-9]+(?:\.[0-9]+)?)\s*(?:k|thousand)\b`)
	// Bare number followed within ten characters by a goal-indicating word.
	nearGoalAmountRE = regexp.MustCompile(`(?i)\b([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+(?:\.[0-9]+)?)\b[^\n]{0,10}\b(?:goal|raise|raising|target|needs)\b`)
)

// ExtractAmount pulls a monetary figure from free text. Currency-marked
// amounts always win. The weaker cues (k-suffix, number near a goal word)
// only run when requireCurrency is false; callers pass true for model
// answers and capture text, where bare numbers are mostly noise.
func ExtractAmount(text string, requireCurrency bool) (float64, bool) {
	if m := currencyAmountRE.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1])
	}
	if requireCurrency {
		return 0, false
	}
	if m := kSuffixAmountRE.FindStringSubmatch(text); m != nil {
		n, ok := parseAmount(m[1])
		if !ok {
			return 0, false
		}
		return n * 1000, true
	}
	if m := nearGoalAmountRE.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1])
	}
	return 0, false
}

func parseAmount(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// ApproxEqual reports whether a and b agree within pct relative tolerance,
// never tighter than ±1 absolute.
func ApproxEqual(a, b, pct float64) bool {
	diff := math.Abs(a - b)
	tol := math.Max(1, pct*math.Max(a, b))
	return diff <= tol
}
