package textproc

import (
	"regexp"
	"sort"
	"strings"
)

// stopwords is a closed set of English function words and pronouns. Tokens
// in this set carry no topical signal and are dropped before any comparison.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "to": {}, "for": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "by": {}, "with": {}, "from": {},
	"this": {}, "that": {}, "is": {}, "are": {}, "be": {}, "was": {},
	"were": {}, "it": {}, "as": {}, "we": {}, "our": {}, "you": {},
	"your": {}, "they": {}, "their": {}, "i": {}, "me": {}, "my": {},
	"us": {}, "them": {}, "will": {}, "can": {},
}

var (
	hashAtReplacer = strings.NewReplacer("#", "", "@", "")
	nonWordRE      = regexp.MustCompile(`[^\w]+`)
)

// Tokenize lowercases, drops # and @ markers, splits on non-word runs, and
// discards stopwords and any token containing a digit. Digit-bearing tokens
// are almost always identifiers or recognition noise, never topic words.
func Tokenize(s string) []string {
	raw := nonWordRE.Split(hashAtReplacer.Replace(strings.ToLower(s)), -1)
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		if w == "" {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if strings.ContainsAny(w, "0123456789") {
			continue
		}
		out = append(out, w)
	}
	return out
}

// TokenSet returns the distinct tokens of s.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range Tokenize(s) {
		set[w] = struct{}{}
	}
	return set
}

// TopKeywords returns the k most frequent tokens of s, ties broken by
// first appearance.
func TopKeywords(s string, k int) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range Tokenize(s) {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > k {
		order = order[:k]
	}
	return order
}
