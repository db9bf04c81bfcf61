// Package lexicon classifies free text against the hand-authored term sets
// the pipeline runs on. There is no training data anywhere in this system;
// these closed word lists and the category keyword table are the entire
// domain model.
package lexicon

import (
	"fundtrust/internal/textproc"
)

func asSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

var (
	medicalTerms = asSet(
		"cancer", "leukemia", "surgery", "fracture", "pneumonia", "sepsis",
		"diabetes", "stroke", "asthma", "appendicitis", "tumor",
		"chemotherapy", "transplant", "dialysis", "liver", "kidney", "heart",
		"pyometra", "operation", "hospital", "doctor", "treatment", "injury",
		"vet", "patient", "clinical",
	)
	petTerms = asSet(
		"dog", "cat", "puppy", "kitten", "pet", "canine", "feline", "stray",
		"animal", "rescue", "shelter",
	)
	// "raising" is deliberately absent: in capture text it is nearly
	// always awareness language ("raising awareness"), and counting it as
	// a fundraising term masks the awareness-vs-fundraiser contradiction.
	fundraiseTerms = asSet(
		"donate", "donation", "fund", "fundraiser", "gofundme", "goal",
		"raise", "target", "help", "support",
	)
	awarenessTerms = asSet(
		"awareness", "month", "ptsd", "symptoms", "educate", "information",
		"signs", "tips", "campaign", "misunderstood", "unnoticed",
	)
)

// categoryKeywords maps each declared cause category to its keyword lexicon.
var categoryKeywords = map[string][]string{
	"medical": {
		"hospital", "surgery", "treatment", "doctor", "medicine", "illness",
		"injury", "vet", "operation", "diagnosis", "emergency", "clinic",
		"patient", "pyometra",
	},
	"medical-emergency": {
		"surgery", "emergency", "urgent", "operation", "icu", "trauma",
		"vet", "procedure", "ambulance", "critical", "pyometra",
	},
	"disaster-relief": {
		"flood", "earthquake", "hurricane", "typhoon", "wildfire",
		"evacuation", "storm", "relief", "rebuild", "disaster",
	},
	"food-security": {
		"food", "meals", "supplies", "hunger", "kitchen", "pantry",
		"groceries", "nutrition",
	},
	"community": {
		"community", "neighbour", "mutual", "aid", "school", "local",
		"support", "drive",
	},
	"environment": {
		"tree", "forest", "wildlife", "conservation", "cleanup",
		"recycling", "climate", "beach",
	},
	"awareness": {
		"awareness", "inform", "educate", "learn", "share", "campaign",
		"information", "ptsd", "symptoms",
	},
}

// Counts holds per-domain token counts for a piece of text.
type Counts struct {
	Medical   int
	Pet       int
	Fundraise int
	Awareness int
	// Tokens is the total surviving token count of the classified text.
	Tokens int
}

// Classify counts how many tokens of text fall into each domain term set.
func Classify(text string) Counts {
	var c Counts
	for _, w := range textproc.Tokenize(text) {
		c.Tokens++
		if _, ok := medicalTerms[w]; ok {
			c.Medical++
		}
		if _, ok := petTerms[w]; ok {
			c.Pet++
		}
		if _, ok := fundraiseTerms[w]; ok {
			c.Fundraise++
		}
		if _, ok := awarenessTerms[w]; ok {
			c.Awareness++
		}
	}
	return c
}

// HasMedicalTerm reports whether any token of text is a known medical term.
func HasMedicalTerm(text string) bool {
	for _, w := range textproc.Tokenize(text) {
		if _, ok := medicalTerms[w]; ok {
			return true
		}
	}
	return false
}

// Alignment is the result of scoring text against a category lexicon.
type Alignment struct {
	// Ratio is hits over max(3, lexicon size). The floor of 3 keeps tiny
	// lexicons from saturating on a single hit.
	Ratio float64
	Hits  int
}

// CategoryAlign scores how well text matches the declared category. An
// unknown category is neutral: ratio 0.5, zero hits.
func CategoryAlign(category, text string) Alignment {
	keys, ok := categoryKeywords[category]
	if !ok || len(keys) == 0 {
		return Alignment{Ratio: 0.5}
	}
	bag := textproc.TokenSet(text)
	hits := 0
	for _, k := range keys {
		if _, present := bag[k]; present {
			hits++
		}
	}
	denom := len(keys)
	if denom < 3 {
		denom = 3
	}
	return Alignment{Ratio: float64(hits) / float64(denom), Hits: hits}
}

// Categories lists the known cause categories.
func Categories() []string {
	out := make([]string, 0, len(categoryKeywords))
	for c := range categoryKeywords {
		out = append(out, c)
	}
	return out
}
