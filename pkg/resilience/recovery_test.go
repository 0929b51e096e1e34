package resilience

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RecoveryKind
	}{
		{"nil error", nil, RecoveryUnknown},
		{"rate limit", errors.New("Rate limit exceeded, retry after 20s"), RecoveryRateLimit},
		{"timeout", errors.New("request timeout after 120s"), RecoveryTimeout},
		{"bad api key", errors.New("Invalid API key provided"), RecoveryAuthError},
		{"unauthorized", errors.New("401 Unauthorized"), RecoveryAuthError},
		{"quota", errors.New("quota exhausted for this billing period"), RecoveryQuota},
		{"insufficient credits", errors.New("insufficient credits on account"), RecoveryQuota},
		{"unknown", errors.New("connection reset by peer"), RecoveryUnknown},
		{
			"rate limit outranks quota",
			errors.New("quota exceeded due to rate limiting"),
			RecoveryRateLimit,
		},
		{
			"wrapped errors classify by message",
			fmt.Errorf("calling model: %w", errors.New("429 rate limit hit")),
			RecoveryRateLimit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestShouldDowngradeTier(t *testing.T) {
	assert.True(t, ShouldDowngradeTier(RecoveryQuota))
	assert.True(t, ShouldDowngradeTier(RecoveryRateLimit))
	assert.False(t, ShouldDowngradeTier(RecoveryTimeout))
	assert.False(t, ShouldDowngradeTier(RecoveryAuthError))
	assert.False(t, ShouldDowngradeTier(RecoveryUnknown))
}
