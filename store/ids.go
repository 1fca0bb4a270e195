// ABOUTME: ULID generation for persisted record identifiers.
// ABOUTME: Uses crypto/rand entropy so ids are unguessable while still sorting by creation time.
package store

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID using the current time and
// cryptographically secure randomness.
func NewULID() ulid.ULID {
	return ulid.MustNew(ulid.Now(), rand.Reader)
}

// NewID returns a fresh record id in its canonical string form.
func NewID() string {
	return NewULID().String()
}
