package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateQuoteID creates a short, human-readable quote ID.
// Format: quote-{lastPlanPathSegment}-{8charHexUUID}
//
// Example:
//   - Input: planPath="/shared/3f2a9c"
//   - Output: "quote-3f2a9c-a3f8e2b1"
//
// A path without segments yields "quote-{8charHexUUID}".
func GenerateQuoteID(planPath string) string {
	shortUUID := generateShortUUID()

	segment := lastPathSegment(planPath)
	if segment == "" {
		return "quote-" + shortUUID
	}
	return "quote-" + segment + "-" + shortUUID
}

// lastPathSegment returns the last non-empty segment of a URL path:
//   - "/shared/abc"  -> "abc"
//   - "/shared/abc/" -> "abc"
//   - "/"            -> ""
func lastPathSegment(path string) string {
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
