package resilience

import "strings"

// RecoveryKind names the recovery strategy for a class of upstream error.
type RecoveryKind string

const (
	RecoveryRateLimit RecoveryKind = "rate_limit"
	RecoveryTimeout   RecoveryKind = "timeout"
	RecoveryAuthError RecoveryKind = "auth_error"
	RecoveryQuota     RecoveryKind = "quota_exceeded"
	RecoveryUnknown   RecoveryKind = "unknown"
)

// Classify maps an upstream error to a recovery strategy by inspecting
// its message. Earlier patterns win, so "rate limit" in a quota message
// still classifies as rate_limit.
func Classify(err error) RecoveryKind {
	if err == nil {
		return RecoveryUnknown
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"):
		return RecoveryRateLimit
	case strings.Contains(msg, "timeout"):
		return RecoveryTimeout
	case strings.Contains(msg, "api key"), strings.Contains(msg, "unauthorized"):
		return RecoveryAuthError
	case strings.Contains(msg, "quota"), strings.Contains(msg, "insufficient"):
		return RecoveryQuota
	default:
		return RecoveryUnknown
	}
}

// ShouldDowngradeTier reports whether the council should move to a
// cheaper model tier after this kind of failure.
func ShouldDowngradeTier(kind RecoveryKind) bool {
	return kind == RecoveryQuota || kind == RecoveryRateLimit
}
