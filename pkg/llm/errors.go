package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrMalformedResponse marks an upstream reply missing required fields.
var ErrMalformedResponse = errors.New("malformed upstream response")

// ErrorKind is a coarse failure class used to pick a recovery strategy.
type ErrorKind string

const (
	ErrorKindTimeout      ErrorKind = "transport_timeout"
	ErrorKindHTTPStatus   ErrorKind = "http_status"
	ErrorKindMalformed    ErrorKind = "malformed_response"
	ErrorKindUnauthorized ErrorKind = "unauthorized"
	ErrorKindRateLimited  ErrorKind = "rate_limited"
	ErrorKindQuota        ErrorKind = "quota_exceeded"
	ErrorKindUnknown      ErrorKind = "unknown"
)

// ClassifyError maps a failed upstream call to an ErrorKind. Status codes
// win over message text; unrecognized errors come back as ErrorKindUnknown.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrorKindUnknown
	}
	if errors.Is(err, ErrMalformedResponse) {
		return ErrorKindMalformed
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorKindTimeout
	}
	if status, ok := statusCode(err); ok {
		return classifyStatus(status, err)
	}
	return ErrorKindUnknown
}

// statusCode pulls the HTTP status out of either SDK error type.
func statusCode(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

func classifyStatus(status int, err error) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorKindUnauthorized
	case http.StatusPaymentRequired:
		return ErrorKindQuota
	case http.StatusTooManyRequests:
		// OpenRouter reports exhausted credits as a 429 with a quota
		// message rather than a 402.
		if strings.Contains(strings.ToLower(err.Error()), "quota") {
			return ErrorKindQuota
		}
		return ErrorKindRateLimited
	default:
		return ErrorKindHTTPStatus
	}
}
