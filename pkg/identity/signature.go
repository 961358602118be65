package identity

import "strings"

// SignatureBuilder derives record fingerprints.
type SignatureBuilder struct {
	Normalizer *Normalizer
}

// NewSignatureBuilder returns a builder using n, or the default normalizer when n is nil.
func NewSignatureBuilder(n *Normalizer) *SignatureBuilder {
	if n == nil {
		n = DefaultNormalizer()
	}
	return &SignatureBuilder{Normalizer: n}
}

// FirstLast returns the first and last whitespace-delimited tokens of an
// already normalized name. A single token is both first and last; an empty
// name yields two empty strings.
func FirstLast(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], parts[len(parts)-1]
}

// Signature joins, with single spaces:
// first(name) last(name) birth first(mother) last(mother) sex.
// Birth and sex are used verbatim.
func (b *SignatureBuilder) Signature(name, birth, mother, sex string) string {
	firstName, lastName := FirstLast(b.Normalizer.Normalize(name))
	firstMother, lastMother := FirstLast(b.Normalizer.Normalize(mother))
	return strings.Join([]string{firstName, lastName, birth, firstMother, lastMother, sex}, " ")
}

// Apply returns r with its Fingerprint filled in.
func (b *SignatureBuilder) Apply(r Record) Record {
	r.Fingerprint = b.Signature(r.Name, r.BirthToken, r.MotherName, r.Sex)
	return r
}

// ApplyAll fingerprints every record in place.
func (b *SignatureBuilder) ApplyAll(records []Record) {
	for i := range records {
		records[i] = b.Apply(records[i])
	}
}
