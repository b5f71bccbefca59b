// Package uuid generates the UUIDv7 primary keys used across the data model.
// Time-ordered ids keep index inserts append-mostly and give rows a creation
// order without an extra column.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. If the random source is unavailable it falls
// back to a random UUIDv4 so id generation never fails a write.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse normalizes a UUID string, rejecting malformed input.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
