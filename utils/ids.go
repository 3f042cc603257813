package utils

import "github.com/google/uuid"

// NewID returns a fresh unique identifier. Ids are assigned once at
// creation and never reused.
func NewID() string {
	return uuid.New().String()
}
