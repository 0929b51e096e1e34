package safety

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
)

// DefaultRedactLength truncates redacted text bound for logs.
const DefaultRedactLength = 200

type redactRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Redactor strips PII from text before it is logged. Rules apply in a
// fixed order so that more specific shapes win over the generic ones.
type Redactor struct {
	rules []redactRule
}

// NewRedactor builds the redaction rule set: emails, phone numbers, SSNs,
// card numbers, bearer-style API keys and IPv4 addresses.
func NewRedactor() *Redactor {
	return &Redactor{rules: []redactRule{
		{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[EMAIL_REDACTED]"},
		{regexp.MustCompile(`\b(?:\+?1[-.]?)?\d{3}[-.]?\d{3}[-.]?\d{4}\b`), "[PHONE_REDACTED]"},
		{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SSN_REDACTED]"},
		{regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`), "[CARD_REDACTED]"},
		{regexp.MustCompile(`\b(?:sk-|pk-)[A-Za-z0-9_-]{32,}\b`), "[API_KEY_REDACTED]"},
		{regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), "[IP_REDACTED]"},
	}}
}

// Redact replaces PII in text and truncates the result to maxLength runes
// with a trailing ellipsis. maxLength <= 0 disables truncation.
func (r *Redactor) Redact(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	for _, rule := range r.rules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	if maxLength > 0 {
		if runes := []rune(text); len(runes) > maxLength {
			text = string(runes[:maxLength]) + "..."
		}
	}
	return text
}

// SafeLogMessage renders a user query for logging: PII redacted, truncated
// to 100 runes, with a short non-reversible hash of the full query for
// correlation.
func (r *Redactor) SafeLogMessage(query string) string {
	safe := r.Redact(query, 100)
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s [hash:%s]", safe, hex.EncodeToString(sum[:4]))
}
