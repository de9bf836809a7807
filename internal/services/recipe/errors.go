package recipe

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/socialchef/creativechef/internal/errors"
)

// Provider error classes.
const (
	ErrorClassRateLimit       = "rate_limit"
	ErrorClassCreditExhausted = "credit_exhausted"
	ErrorClassServer          = "server_error"
	ErrorClassClient          = "client_error"
	ErrorClassUnknown         = "unknown"
)

// ProviderError is a provider failure tagged with a class.
type ProviderError struct {
	Type     string
	Message  string
	Provider string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Matched case-insensitively, in order; the first hit wins.
var errorPatterns = []struct {
	class    string
	patterns []string
}{
	{ErrorClassRateLimit, []string{"status 429", "http 429", "rate limit", "too many requests", "resource_exhausted"}},
	{ErrorClassCreditExhausted, []string{"status 402", "http 402", "insufficient credit", "credit exhausted", "billing", "quota"}},
}

var fallbackPatterns = []struct {
	class    string
	patterns []string
}{
	{ErrorClassServer, []string{"status 5", "http 5", "server error", "internal error", "unavailable", "timeout"}},
	{ErrorClassClient, []string{"status 4", "http 4", "bad request", "unauthorized", "forbidden", "blocked"}},
}

// ClassifyError maps a provider error to one of the ErrorClass* values.
// Message patterns for rate limits and credits come first, then AppError
// status codes, then generic 4xx/5xx patterns.
func ClassifyError(err error, provider string) *ProviderError {
	if err == nil {
		return nil
	}

	msg := err.Error()
	classified := func(class string) *ProviderError {
		return &ProviderError{Type: class, Message: msg, Provider: provider}
	}

	if class := matchClass(msg, errorPatterns); class != "" {
		return classified(class)
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return classified(ErrorClassServer)
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		switch {
		case appErr.StatusCode >= 500:
			return classified(ErrorClassServer)
		case appErr.StatusCode >= 400:
			return classified(ErrorClassClient)
		}
	}

	if class := matchClass(msg, fallbackPatterns); class != "" {
		return classified(class)
	}

	return classified(ErrorClassUnknown)
}

func matchClass(msg string, table []struct {
	class    string
	patterns []string
}) string {
	lower := strings.ToLower(msg)
	for _, entry := range table {
		for _, p := range entry.patterns {
			if strings.Contains(lower, p) {
				return entry.class
			}
		}
	}
	return ""
}

// ShouldFallback reports whether a secondary provider may succeed where the
// primary failed.
func ShouldFallback(err error) bool {
	pe := ClassifyError(err, "")
	if pe == nil {
		return false
	}
	switch pe.Type {
	case ErrorClassRateLimit, ErrorClassCreditExhausted, ErrorClassServer:
		return true
	default:
		return false
	}
}
