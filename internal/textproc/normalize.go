// Package textproc provides the lexical primitives of the trust pipeline:
// whitespace normalization, capture-text cleanup, tokenization, keyword
// ranking, set overlap, and monetary amount extraction.
package textproc

import (
	"regexp"
	"strings"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace runs to single spaces and trims.
func Normalize(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// cleanPass is one named step of the capture cleanup sequence. Passes run in
// order and each replaces its matches with a single space.
type cleanPass struct {
	name string
	re   *regexp.Regexp
}

func (p cleanPass) apply(s string) string {
	return p.re.ReplaceAllString(s, " ")
}

// Recognized on-screen text is far noisier than typed text: overlaid URLs,
// watermarks, timestamps, and view counters all leak in. Digits in
// particular are overwhelmingly recognition junk, so they are stripped
// wholesale rather than parsed.
var capturePasses = []cleanPass{
	{name: "url-strip", re: regexp.MustCompile(`(?i)https?://\S+`)},
	{name: "domain-strip", re: regexp.MustCompile(`(?i)\b[a-z0-9.-]+\.[a-z]{2,}\S*`)},
	{name: "symbol-strip", re: regexp.MustCompile("[#/_\\\\|()\\[\\]{}~`^<>*+=:;,\"'’]")},
	{name: "digit-strip", re: regexp.MustCompile(`\d+[.:/-]?\d*`)},
}

// CleanCapture scrubs recognized on-screen text down to the words that can
// carry meaning. Empty input yields empty output.
func CleanCapture(raw string) string {
	if raw == "" {
		return ""
	}
	t := raw
	for _, p := range capturePasses {
		t = p.apply(t)
	}
	return Normalize(t)
}

// CapturePassNames lists the cleanup passes in execution order.
func CapturePassNames() []string {
	names := make([]string, len(capturePasses))
	for i, p := range capturePasses {
		names[i] = p.name
	}
	return names
}
