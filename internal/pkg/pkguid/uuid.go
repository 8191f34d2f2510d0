package pkguid

import "github.com/google/uuid"

// UUID generates RFC 9562 version 7 UUID strings.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new time-ordered UUID string. If the random source fails
// while building a v7 value it falls back to a v4 one instead of panicking on
// the request path.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
