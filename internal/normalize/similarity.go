package normalize

import (
	"math"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
)

// minLiftRatio is the block ratio a pair must reach before the Jaro-Winkler
// score is allowed to raise it.
const minLiftRatio = 0.5

var jaroWinkler = metrics.NewJaroWinkler()

// Fold case-folds s and collapses runs of whitespace.
func Fold(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

// BlockRatio is the matching-blocks ratio 2*M/T over the characters of a and b.
func BlockRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// Similarity scores two folded strings in [0, 1]. The block ratio is the
// base score. Jaro-Winkler can lift it only when the strings share a whole
// word and the block ratio already reaches minLiftRatio, so a shared prefix
// alone ("cook" and "cookware") never counts as a match.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	ratio := BlockRatio(a, b)
	if ratio < minLiftRatio || !shareWord(a, b) {
		return clamp01(ratio)
	}
	return clamp01(math.Max(ratio, strutil.Similarity(a, b, jaroWinkler)))
}

func shareWord(a, b string) bool {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(a) {
		words[w] = struct{}{}
	}
	for _, w := range strings.Fields(b) {
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}
