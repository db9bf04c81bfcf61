package textproc

// Overlap measures symmetric lexical overlap between two texts:
// |A ∩ B| / min(|A|, |B|) over their token sets. 0 when either side has no
// tokens; 1.0 when one set is contained in the other. The min-denominator
// deliberately favors short texts matching long ones, which is the
// title-vs-description case this pipeline cares about.
func Overlap(a, b string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	shared := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			shared++
		}
	}
	minSize := len(setA)
	if len(setB) < minSize {
		minSize = len(setB)
	}
	return float64(shared) / float64(minSize)
}
