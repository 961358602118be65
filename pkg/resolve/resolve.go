package resolve

import "sort"

// Resolver runs pair generation, scoring and classification over one key group.
type Resolver struct {
	Scorer     *Scorer
	Classifier *Classifier
}

// NewResolver wires a scorer and classifier with the given settings.
func NewResolver(w Weights, t Thresholds) *Resolver {
	return &Resolver{Scorer: NewScorer(w), Classifier: NewClassifier(t)}
}

// GroupResult is the outcome of resolving one group.
type GroupResult struct {
	Key             string
	Pairs           []ClassifiedPair
	ExactDuplicates int
}

// ResolveGroup classifies every candidate pair of g.
func (r *Resolver) ResolveGroup(g Group) GroupResult {
	pairs := Pairs(g)
	out := make([]ClassifiedPair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, r.Classifier.Classify(r.Scorer.Score(p)))
	}
	return GroupResult{Key: g.Key, Pairs: out, ExactDuplicates: len(ExactDuplicates(g))}
}

// SortPairs orders classified pairs by (A.ID, B.ID).
func SortPairs(pairs []ClassifiedPair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A.ID != pairs[j].A.ID {
			return pairs[i].A.ID < pairs[j].A.ID
		}
		return pairs[i].B.ID < pairs[j].B.ID
	})
}
