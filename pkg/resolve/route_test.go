package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/sigdedup/pkg/identity"
)

func classified(a, b identity.Record, status Status) ClassifiedPair {
	return ClassifiedPair{ScoredPair: ScoredPair{Pair: Pair{A: a, B: b}}, Status: status}
}

func TestRoutePartitions(t *testing.T) {
	r1 := identity.Record{ID: 1, Key: identity.Key("k1"), Name: "Ana"}
	r2 := identity.Record{ID: 2, Key: identity.Key("k1"), Name: "Ana Maria"}
	r3 := identity.Record{ID: 3, Key: identity.Key("k2"), Name: "Bia"}
	r4 := identity.Record{ID: 4, Key: identity.Key("k2"), Name: "Bruno"}
	r5 := identity.Record{ID: 5, Key: identity.Key("k3"), Name: "Caio"}
	r6 := identity.Record{ID: 6, Key: identity.Key("k4"), Name: "Duda"}
	r7 := identity.Record{ID: 7, Key: identity.Key("k4"), Name: "Duda"}
	r8 := identity.Record{ID: 8, Name: "No Key"}
	r9 := identity.Record{ID: 9, Key: identity.Key("k5"), Name: "Eva"}
	r10 := identity.Record{ID: 10, Key: identity.Key("k5"), Name: "Eva S"}

	pairs := []ClassifiedPair{
		classified(r1, r2, StatusMatch),
		classified(r3, r4, StatusLowConfidence),
		classified(r9, r10, StatusNeedsNameReview),
	}
	routed := Route([]identity.Record{r10, r9, r8, r7, r6, r5, r4, r3, r2, r1}, pairs)

	require.Len(t, routed.IngestPairs, 1)
	assert.Equal(t, StatusMatch, routed.IngestPairs[0].Status)
	require.Len(t, routed.Log, 1)
	assert.Equal(t, StatusLowConfidence, routed.Log[0].Status)
	require.Len(t, routed.Review, 1)

	// Unique key k3, agreeing key k4 (no pair generated) and the keyless record.
	assert.Equal(t, []int64{5, 6, 7, 8}, ids(routed.IngestRecords))
	assert.Equal(t, []string{"k1", "k2", "k5"}, ConflictedKeys(pairs))
}

func TestRouteUniqueRecordKeepsPayload(t *testing.T) {
	r := identity.Record{ID: 1, Key: identity.Key("k"), Name: "Maria da Silva", BirthToken: "2000-01-01", MotherName: "Ana", Sex: "F", Fingerprint: "maria silva 2000-01-01 ana ana F"}
	routed := Route([]identity.Record{r}, nil)
	require.Len(t, routed.IngestRecords, 1)
	assert.Equal(t, r, routed.IngestRecords[0])
	assert.Empty(t, routed.IngestPairs)
	assert.Empty(t, routed.Log)
}

func TestResolveGroup(t *testing.T) {
	b := identity.NewSignatureBuilder(nil)
	g := Group{Key: "111", Records: []identity.Record{
		b.Apply(identity.Record{ID: 1, Key: identity.Key("111"), Name: "Maria Silva", BirthToken: "2000-01-01", MotherName: "Ana Lima", Sex: "F"}),
		b.Apply(identity.Record{ID: 2, Key: identity.Key("111"), Name: "Maria Souza", BirthToken: "2000-01-01", MotherName: "Ana Lima", Sex: "F"}),
		b.Apply(identity.Record{ID: 3, Key: identity.Key("111"), Name: "MARIA DA SILVA", BirthToken: "2000-01-01", MotherName: "Ana de Lima", Sex: "F"}),
	}}
	res := NewResolver(Weights{}, Thresholds{}).ResolveGroup(g)
	assert.Equal(t, "111", res.Key)
	assert.Equal(t, 1, res.ExactDuplicates)
	require.Len(t, res.Pairs, 2)
	for _, p := range res.Pairs {
		assert.Equal(t, StatusMatch, p.Status)
	}

	SortPairs(res.Pairs)
	assert.Equal(t, int64(1), res.Pairs[0].A.ID)
	assert.Equal(t, int64(2), res.Pairs[0].B.ID)
	assert.Equal(t, int64(2), res.Pairs[1].A.ID)
	assert.Equal(t, int64(3), res.Pairs[1].B.ID)
}
