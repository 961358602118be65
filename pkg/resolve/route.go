package resolve

import (
	"sort"

	"github.com/japaniel/sigdedup/pkg/identity"
)

// Routed is the partition of a run's results.
type Routed struct {
	// IngestPairs holds MATCH pairs.
	IngestPairs []ClassifiedPair
	// IngestRecords holds every record whose key produced no classified pair.
	IngestRecords []identity.Record
	// Log holds pairs with a logged status.
	Log []ClassifiedPair
	// Review holds NEEDS_NAME_REVIEW pairs, which go to neither sink by default.
	Review []ClassifiedPair
}

// Route partitions classified pairs and folds in the unconflicted records.
// Records without a key never take part in a pair and are therefore routed
// as unconflicted, like a left anti-join on the key column.
func Route(records []identity.Record, pairs []ClassifiedPair) Routed {
	var out Routed
	conflicted := make(map[string]struct{})
	for _, p := range pairs {
		if p.A.HasKey() {
			conflicted[p.A.Key.String] = struct{}{}
		}
		switch {
		case p.Status == StatusMatch:
			out.IngestPairs = append(out.IngestPairs, p)
		case p.Status.Logged():
			out.Log = append(out.Log, p)
		default:
			out.Review = append(out.Review, p)
		}
	}

	for _, r := range records {
		if r.HasKey() {
			if _, ok := conflicted[r.Key.String]; ok {
				continue
			}
		}
		out.IngestRecords = append(out.IngestRecords, r)
	}
	sort.SliceStable(out.IngestRecords, func(i, j int) bool {
		return out.IngestRecords[i].ID < out.IngestRecords[j].ID
	})
	return out
}

// ConflictedKeys returns the distinct keys that produced at least one pair, sorted.
func ConflictedKeys(pairs []ClassifiedPair) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, p := range pairs {
		if !p.A.HasKey() {
			continue
		}
		if _, ok := seen[p.A.Key.String]; ok {
			continue
		}
		seen[p.A.Key.String] = struct{}{}
		keys = append(keys, p.A.Key.String)
	}
	sort.Strings(keys)
	return keys
}
