package models

import "github.com/oklog/ulid/v2"

// IDLength is the length of every primary key: a Crockford base32 ULID.
const IDLength = ulid.EncodedSize

// NewID returns a fresh, lexicographically sortable identifier.
func NewID() string {
	return ulid.Make().String()
}

// ValidID reports whether s is a well-formed identifier.
func ValidID(s string) bool {
	if len(s) != IDLength {
		return false
	}
	_, err := ulid.ParseStrict(s)
	return err == nil
}
