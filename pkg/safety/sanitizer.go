// Package safety guards the engine's inputs and outputs: prompt-injection
// screening for user queries, PII redaction for log output, and API key
// validation.
package safety

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// defaultMaxInputLength bounds a single user query.
const defaultMaxInputLength = 10000

var (
	// ErrEmptyInput rejects blank queries.
	ErrEmptyInput = errors.New("empty input not allowed")
	// ErrInputTooLong rejects oversized queries.
	ErrInputTooLong = errors.New("input exceeds maximum length")
	// ErrInjectionDetected rejects queries matching an injection pattern.
	ErrInjectionDetected = errors.New("potential prompt injection detected")
)

// injectionPatterns are instruction-override phrases, role impersonation
// markers and model control tokens. Matched case-insensitively.
var injectionPatterns = []string{
	`ignore\s+(all\s+)?previous\s+instructions`,
	`disregard\s+(all\s+)?prior\s+context`,
	`forget\s+everything`,
	`you\s+are\s+now`,
	`new\s+instructions`,
	`system\s*:\s*`,
	`assistant\s*:\s*`,
	`<\|.*?\|>`,
	`\[SYSTEM\]`,
	`\[INST\]`,
	`</s>`,
	`<s>`,
}

// Sanitizer screens user input before it reaches any model. Compiled once
// at construction; safe for concurrent use.
type Sanitizer struct {
	patterns  []*regexp.Regexp
	maxLength int
}

// NewSanitizer compiles the injection patterns. Invalid patterns are
// logged and skipped.
func NewSanitizer() *Sanitizer {
	s := &Sanitizer{maxLength: defaultMaxInputLength}
	for _, p := range injectionPatterns {
		compiled, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			slog.Error("Failed to compile injection pattern, skipping",
				"pattern", p, "error", err)
			continue
		}
		s.patterns = append(s.patterns, compiled)
	}
	return s
}

// Sanitize validates one user query and returns it with normalized
// whitespace. Empty, oversized, or injection-bearing input is rejected.
func (s *Sanitizer) Sanitize(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmptyInput
	}
	if utf8.RuneCountInString(input) > s.maxLength {
		return "", fmt.Errorf("%w of %d characters", ErrInputTooLong, s.maxLength)
	}
	for _, p := range s.patterns {
		if p.MatchString(input) {
			return "", fmt.Errorf("%w: pattern matched %q", ErrInjectionDetected, p.String())
		}
	}
	return strings.Join(strings.Fields(input), " "), nil
}
