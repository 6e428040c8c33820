package model

import (
	"strings"

	"github.com/google/uuid"
)

// shortID returns a 12 character hex token derived from a UUID
func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
