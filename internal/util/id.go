package util

import "github.com/google/uuid"

// NewID returns a random UUID string identifier.
func NewID() string {
	return uuid.NewString()
}
