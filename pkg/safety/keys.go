package safety

import "regexp"

// minKeyLength is the shortest plausible upstream API key.
const minKeyLength = 32

// invalidKeys are placeholder values that must never reach the upstream.
var invalidKeys = map[string]struct{}{
	"test-key-12345":    {},
	"sk-test":           {},
	"sk-placeholder":    {},
	"your-api-key-here": {},
	"REPLACE_ME":        {},
	"INSERT_KEY_HERE":   {},
	"CHANGEME":          {},
	"":                  {},
}

var keyShape = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAPIKey reports whether key looks like a real upstream API key:
// not a known placeholder, at least 32 characters, and limited to URL-safe
// characters.
func ValidateAPIKey(key string) bool {
	if _, placeholder := invalidKeys[key]; placeholder {
		return false
	}
	if len(key) < minKeyLength {
		return false
	}
	return keyShape.MatchString(key)
}

// KeyPreview returns a loggable first4...last4 form of key.
func KeyPreview(key string) string {
	if len(key) < 8 {
		return "[INVALID]"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
