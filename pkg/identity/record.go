// Package identity derives identity fingerprints from person records.
//
// A fingerprint ("signature") is a coarse blocking key built from the first
// and last tokens of the normalized person and mother names, the birth
// token and the sex. Two records with equal normalized inputs always get
// byte-identical fingerprints; unequal fingerprints do not prove the records
// describe different people.
package identity

import "database/sql"

// Record is one person row as read from the source. Key is the identity
// key (e.g. CPF); an invalid Key means the record cannot be grouped.
type Record struct {
	ID         int64
	Key        sql.NullString
	Name       string
	BirthToken string
	MotherName string
	Sex        string

	// Fingerprint is filled in once by SignatureBuilder.Apply.
	Fingerprint string
}

// Key wraps s as a present identity key.
func Key(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// HasKey reports whether the record carries an identity key.
func (r Record) HasKey() bool {
	return r.Key.Valid
}
