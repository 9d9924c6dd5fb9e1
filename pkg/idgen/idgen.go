// Package idgen generates opaque task identifiers.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generate creates a new random (version 4) UUID string.
func Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate ID: %w", err)
	}
	return id.String(), nil
}
