package recipe

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/socialchef/creativechef/internal/logger"
	"github.com/socialchef/creativechef/internal/metrics"
)

// FallbackProvider asks secondary only when primary fails with a rate limit,
// exhausted credit or a server-side error. Each provider is called at most once,
// and never after the caller's context is done.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
}

func NewFallbackProvider(primary, secondary Provider) *FallbackProvider {
	return &FallbackProvider{primary: primary, secondary: secondary}
}

var _ SourcedProvider = (*FallbackProvider)(nil)

func (f *FallbackProvider) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

func (f *FallbackProvider) Generate(ctx context.Context, prompt string) (string, error) {
	text, _, err := f.GenerateWithSource(ctx, prompt)
	return text, err
}

// GenerateWithSource also returns the name of the provider that answered.
func (f *FallbackProvider) GenerateWithSource(ctx context.Context, prompt string) (string, string, error) {
	text, source, err := generateWithSource(ctx, f.primary, prompt)
	if err == nil {
		return text, source, nil
	}

	primaryErr := ClassifyError(err, f.primary.Name())
	if ctx.Err() != nil {
		slog.InfoContext(ctx, "Request context done, not attempting fallback",
			"provider", primaryErr.Provider,
			"error", err.Error(),
			logger.WithTraceContext(ctx))
		return "", "", err
	}
	if !ShouldFallback(err) {
		slog.InfoContext(ctx, "Primary provider failed with non-retryable error, not attempting fallback",
			"provider", primaryErr.Provider,
			"error_type", primaryErr.Type,
			"error", err.Error(),
			logger.WithTraceContext(ctx))
		return "", "", err
	}

	slog.InfoContext(ctx, "Primary provider failed, attempting fallback",
		"provider", primaryErr.Provider,
		"fallback_provider", f.secondary.Name(),
		"error_type", primaryErr.Type,
		"error", err.Error(),
		logger.WithTraceContext(ctx))
	metrics.RecordFallback(ctx, f.primary.Name(), f.secondary.Name(), primaryErr.Type)

	text, source, fallbackErr := generateWithSource(ctx, f.secondary, prompt)
	if fallbackErr == nil {
		return text, source, nil
	}

	secondaryErr := ClassifyError(fallbackErr, f.secondary.Name())
	slog.ErrorContext(ctx, "Both primary and fallback providers failed",
		"primary_error_type", primaryErr.Type,
		"primary_error", err.Error(),
		"fallback_error_type", secondaryErr.Type,
		"fallback_error", fallbackErr.Error(),
		logger.WithTraceContext(ctx))

	return "", "", stderrors.Join(err, fallbackErr)
}
