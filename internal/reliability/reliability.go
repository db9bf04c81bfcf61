// Package reliability scores the trustworthiness of an external donation
// link: allowlisted host, secure scheme, and slug relevance to the title.
package reliability

import (
	"net/url"
	"regexp"
	"strings"

	"fundtrust/internal/config"
	"fundtrust/internal/textproc"
)

// charityAppealRE detects titles/categories that read as an active charity
// or fundraiser appeal. Such submissions must carry an external link.
var charityAppealRE = regexp.MustCompile(`(?i)(fund|donate|relief|medical|aid|drive|charity|ngo|surgery|help)`)

const (
	allowedHostCredit = 0.6
	httpsCredit       = 0.2
	slugCreditPerWord = 0.05
	slugCreditCap     = 0.2
	noLinkScore       = 0.8
	titleKeywordCount = 8
)

// Assessment is the reliability verdict for one submission.
type Assessment struct {
	Score float64
	OK    bool
	// Host is the lowercased link host, "" for a missing or unparsable URL.
	Host string
	// Reasons lists every failed check in check order.
	Reasons []string
}

// Assess scores the donation link. With a link present, OK requires an
// allowlisted host and HTTPS; the slug bonus only moves the score. With no
// link, the submission passes at a high score unless the title or category
// reads as an active charity appeal.
func Assess(rawURL, title, category string, cfg *config.Config) Assessment {
	if rawURL == "" {
		if charityAppealRE.MatchString(title + " " + category) {
			return Assessment{
				OK:      false,
				Reasons: []string{"Missing external donation/charity link."},
			}
		}
		return Assessment{Score: noLinkScore, OK: true}
	}

	host := HostOf(rawURL)
	isAllowed := cfg.HostAllowed(host)
	isHTTPS := strings.HasPrefix(strings.ToLower(rawURL), "https://")

	slug := make(map[string]struct{})
	for _, w := range PathKeywords(rawURL) {
		slug[w] = struct{}{}
	}
	slugOverlap := 0
	for _, w := range textproc.TopKeywords(title, titleKeywordCount) {
		if _, ok := slug[w]; ok {
			slugOverlap++
		}
	}

	score := 0.0
	if isAllowed {
		score += allowedHostCredit
	}
	if isHTTPS {
		score += httpsCredit
	}
	bonus := float64(slugOverlap) * slugCreditPerWord
	if bonus > slugCreditCap {
		bonus = slugCreditCap
	}
	score += bonus

	a := Assessment{Score: score, OK: isAllowed && isHTTPS, Host: host}
	if !isAllowed {
		name := host
		if name == "" {
			name = "invalid URL"
		}
		a.Reasons = append(a.Reasons, "Domain not in allowlist: "+name+".")
	}
	if !isHTTPS {
		a.Reasons = append(a.Reasons, "Fundraiser link is not HTTPS.")
	}
	return a
}

// HostOf returns the lowercased host of rawURL, "" when the URL does not
// parse or is empty. An unparsable link therefore always fails the
// allowlist check.
func HostOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

var nonWordSplitRE = regexp.MustCompile(`[^\w]+`)

// PathKeywords splits the URL path into lowercase word tokens ("slug words").
func PathKeywords(rawURL string) []string {
	if rawURL == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	parts := nonWordSplitRE.Split(strings.ToLower(u.Path), -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
