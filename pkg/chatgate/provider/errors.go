package provider

import (
	"fmt"
	"strings"
)

// ErrorKind classifies provider API errors. The router only needs to know
// that a call failed to move on to the next candidate, but the kind keeps
// log lines meaningful and callers honest about what actually went wrong.
type ErrorKind int

const (
	ErrorRetryable  ErrorKind = iota // transient 5xx
	ErrorRateLimit                   // 429
	ErrorOverloaded                  // 529 or "overloaded" in body
	ErrorTimeout                     // request timeout / deadline exceeded
	ErrorAuth                        // 401, 403 — invalid/expired API key
	ErrorBilling                     // 402 or quota-related in body
	ErrorBadRequest                  // 400 — malformed request
	ErrorFatal                       // everything else
)

// String returns a human-readable label for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorRetryable:
		return "retryable"
	case ErrorRateLimit:
		return "rate_limit"
	case ErrorOverloaded:
		return "overloaded"
	case ErrorTimeout:
		return "timeout"
	case ErrorAuth:
		return "auth"
	case ErrorBilling:
		return "billing"
	case ErrorBadRequest:
		return "bad_request"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// APIError captures HTTP status and a body excerpt from a failed call.
type APIError struct {
	StatusCode int
	Body       string
	Model      string
}

func (e *APIError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s: API returned %d: %s", e.Model, e.StatusCode, truncate(e.Body, 200))
	}
	return fmt.Sprintf("API returned %d: %s", e.StatusCode, truncate(e.Body, 200))
}

// Kind determines the error kind from status code and response body.
func (e *APIError) Kind() ErrorKind {
	return classify(e.StatusCode, e.Body)
}

func classify(statusCode int, body string) ErrorKind {
	bodyLower := strings.ToLower(body)

	if statusCode == 402 ||
		strings.Contains(bodyLower, "billing") ||
		strings.Contains(bodyLower, "quota") ||
		strings.Contains(bodyLower, "insufficient_quota") {
		return ErrorBilling
	}

	if statusCode == 429 ||
		strings.Contains(bodyLower, "rate_limit") ||
		strings.Contains(bodyLower, "rate limit") ||
		strings.Contains(bodyLower, "too many requests") {
		return ErrorRateLimit
	}

	if statusCode == 529 ||
		strings.Contains(bodyLower, "overloaded") ||
		strings.Contains(bodyLower, "capacity") {
		return ErrorOverloaded
	}

	if strings.Contains(bodyLower, "timeout") ||
		strings.Contains(bodyLower, "deadline") ||
		strings.Contains(bodyLower, "timed out") {
		return ErrorTimeout
	}

	switch statusCode {
	case 400:
		return ErrorBadRequest
	case 401, 403:
		return ErrorAuth
	case 500, 502, 503, 521, 522, 523, 524:
		return ErrorRetryable
	default:
		if statusCode >= 500 {
			return ErrorRetryable
		}
		return ErrorFatal
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
