// Package id provides entity identifiers. All ids are UUIDv7: the
// leading timestamp bits give chronological ordering and good B-tree
// locality in PostgreSQL.
package id

import (
	"github.com/google/uuid"
)

// ID is the identifier type used by every entity.
type ID = uuid.UUID

// New generates a UUIDv7.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to v4
		// rather than panic.
		return uuid.New()
	}
	return v7
}

// Parse converts a string to an ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string to an ID, panicking on error. For
// constants and tests only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether the ID is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
