// Package resolve holds the pure core of the deduplication job: candidate
// pair generation, similarity scoring, rule-based classification and output
// routing. Nothing in this package performs I/O or keeps shared state, so
// every function may run concurrently across key groups.
package resolve

import (
	"sort"

	"github.com/japaniel/sigdedup/pkg/identity"
)

// Group is the set of records sharing one identity key.
type Group struct {
	Key     string
	Records []identity.Record
}

// Pair is a candidate comparison. A.ID < B.ID always holds, both records
// share the same present key and their fingerprints differ.
type Pair struct {
	A identity.Record
	B identity.Record
}

// GroupByKey buckets records by identity key, skipping records without one.
// Groups are returned sorted by key and their records sorted by ID.
func GroupByKey(records []identity.Record) []Group {
	byKey := make(map[string][]identity.Record)
	for _, r := range records {
		if !r.HasKey() {
			continue
		}
		byKey[r.Key.String] = append(byKey[r.Key.String], r)
	}

	groups := make([]Group, 0, len(byKey))
	for key, recs := range byKey {
		sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
		groups = append(groups, Group{Key: key, Records: recs})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// Pairs enumerates every (a, b) in the group with a.ID < b.ID and
// a.Fingerprint != b.Fingerprint. Cost is quadratic in the group size.
func Pairs(g Group) []Pair {
	recs := sortedByID(g.Records)
	var out []Pair
	for i := 0; i < len(recs); i++ {
		for j := i + 1; j < len(recs); j++ {
			a, b := recs[i], recs[j]
			if a.ID >= b.ID || a.Fingerprint == b.Fingerprint {
				continue
			}
			out = append(out, Pair{A: a, B: b})
		}
	}
	return out
}

// ExactDuplicates returns the pairs in the group whose fingerprints are
// equal. They are never scored; the count is reported so silently
// re-ingested duplicates stay visible.
func ExactDuplicates(g Group) []Pair {
	recs := sortedByID(g.Records)
	var out []Pair
	for i := 0; i < len(recs); i++ {
		for j := i + 1; j < len(recs); j++ {
			a, b := recs[i], recs[j]
			if a.ID < b.ID && a.Fingerprint == b.Fingerprint {
				out = append(out, Pair{A: a, B: b})
			}
		}
	}
	return out
}

func sortedByID(in []identity.Record) []identity.Record {
	recs := make([]identity.Record, len(in))
	copy(recs, in)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs
}
