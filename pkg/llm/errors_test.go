package llm_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	"github.com/curia-dev/curia/pkg/llm"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want llm.ErrorKind
	}{
		{
			name: "nil error",
			err:  nil,
			want: llm.ErrorKindUnknown,
		},
		{
			name: "plain error",
			err:  errors.New("something odd"),
			want: llm.ErrorKindUnknown,
		},
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: llm.ErrorKindTimeout,
		},
		{
			name: "wrapped context deadline",
			err:  fmt.Errorf("chat completion: %w", context.DeadlineExceeded),
			want: llm.ErrorKindTimeout,
		},
		{
			name: "net timeout",
			err:  &net.DNSError{Err: "lookup timed out", IsTimeout: true},
			want: llm.ErrorKindTimeout,
		},
		{
			name: "malformed response",
			err:  fmt.Errorf("%w: no choices returned for model x", llm.ErrMalformedResponse),
			want: llm.ErrorKindMalformed,
		},
		{
			name: "unauthorized 401",
			err:  &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "invalid api key"},
			want: llm.ErrorKindUnauthorized,
		},
		{
			name: "forbidden 403",
			err:  &openai.APIError{HTTPStatusCode: http.StatusForbidden, Message: "forbidden"},
			want: llm.ErrorKindUnauthorized,
		},
		{
			name: "payment required 402",
			err:  &openai.APIError{HTTPStatusCode: http.StatusPaymentRequired, Message: "insufficient credits"},
			want: llm.ErrorKindQuota,
		},
		{
			name: "rate limited 429",
			err:  &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"},
			want: llm.ErrorKindRateLimited,
		},
		{
			name: "quota message on 429",
			err:  &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "you exceeded your current quota"},
			want: llm.ErrorKindQuota,
		},
		{
			name: "server error 500",
			err:  &openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "boom"},
			want: llm.ErrorKindHTTPStatus,
		},
		{
			name: "request error 502",
			err:  &openai.RequestError{HTTPStatusCode: http.StatusBadGateway, Err: errors.New("bad gateway")},
			want: llm.ErrorKindHTTPStatus,
		},
		{
			name: "wrapped api error",
			err:  fmt.Errorf("chat completion: %w", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}),
			want: llm.ErrorKindUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.ClassifyError(tt.err))
		})
	}
}
