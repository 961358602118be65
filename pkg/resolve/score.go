package resolve

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Default composite weights.
const (
	DefaultJaccardWeight = 0.75
	DefaultEditWeight    = 0.25
)

// Weights combine the token and edit-distance components.
type Weights struct {
	Jaccard float64
	Edit    float64
}

// DefaultWeights returns 0.75 jaccard / 0.25 edit.
func DefaultWeights() Weights {
	return Weights{Jaccard: DefaultJaccardWeight, Edit: DefaultEditWeight}
}

// Similarity is the outcome of comparing two fingerprints.
type Similarity struct {
	Jaccard      float64
	EditDistance int
	EditScore    float64
	Composite    float64
}

// ScoredPair is a Pair together with its similarity.
type ScoredPair struct {
	Pair
	Similarity
}

// Scorer computes composite similarity scores.
type Scorer struct {
	Weights Weights
}

// NewScorer returns a scorer with w; a zero Weights value means the defaults.
func NewScorer(w Weights) *Scorer {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	return &Scorer{Weights: w}
}

// Jaccard is |A∩B| / |A∪B| over the whitespace token sets of a and b,
// or 0 when both are empty.
func Jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	inter := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// EditScore is 1 - dist/maxLen over rune lengths. Two empty strings score 1.
func EditScore(a, b string, dist int) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(dist)/float64(maxLen)
}

// Compare scores fingerprints a and b.
func (s *Scorer) Compare(a, b string) Similarity {
	jac := Jaccard(a, b)
	dist := levenshtein.ComputeDistance(a, b)
	edit := EditScore(a, b, dist)
	return Similarity{
		Jaccard:      jac,
		EditDistance: dist,
		EditScore:    edit,
		Composite:    s.Combine(jac, edit),
	}
}

// Combine weights the jaccard and edit components into a composite score.
func (s *Scorer) Combine(jaccard, editScore float64) float64 {
	return s.Weights.Jaccard*jaccard + s.Weights.Edit*editScore
}

// Score compares the fingerprints of p.
func (s *Scorer) Score(p Pair) ScoredPair {
	return ScoredPair{Pair: p, Similarity: s.Compare(p.A.Fingerprint, p.B.Fingerprint)}
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
