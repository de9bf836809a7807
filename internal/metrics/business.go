package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("creativechef/business")

	// Recipe metrics
	RecipeGenerationsTotal   metric.Int64Counter
	RecipeGenerationDuration metric.Float64Histogram
	RecipeCacheHitsTotal     metric.Int64Counter

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// AI metrics
	AIGenerationDuration metric.Float64Histogram

	// Provider fallback metrics
	ProviderFallbackTotal metric.Int64Counter
)

func Init() error {
	var err error

	RecipeGenerationsTotal, err = meter.Int64Counter(
		"recipe.generations.total",
		metric.WithDescription("Total number of recipe generation requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeGenerationDuration, err = meter.Float64Histogram(
		"recipe.generation.duration",
		metric.WithDescription("Duration of the full generate-and-format flow"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	RecipeCacheHitsTotal, err = meter.Int64Counter(
		"recipe.cache.hits.total",
		metric.WithDescription("Total number of generations served from cache"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	AIGenerationDuration, err = meter.Float64Histogram(
		"ai.generation.duration",
		metric.WithDescription("Duration of AI recipe generation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	ProviderFallbackTotal, err = meter.Int64Counter(
		"provider.fallback.total",
		metric.WithDescription("Total number of provider fallback events"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}

// The helpers below are no-ops until Init has run, so packages can record
// unconditionally (tests never call Init).

func RecordProviderCall(ctx context.Context, provider string, seconds float64) {
	attrs := metric.WithAttributes(attribute.String("provider", provider))
	if AIGenerationDuration != nil {
		AIGenerationDuration.Record(ctx, seconds, attrs)
	}
	if ExternalAPIDuration != nil {
		ExternalAPIDuration.Record(ctx, seconds, attrs)
	}
	if ExternalAPICallsTotal != nil {
		ExternalAPICallsTotal.Add(ctx, 1, attrs)
	}
}

func RecordGeneration(ctx context.Context, outcome string, seconds float64) {
	if RecipeGenerationsTotal != nil {
		RecipeGenerationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
	if RecipeGenerationDuration != nil {
		RecipeGenerationDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func RecordCacheHit(ctx context.Context) {
	if RecipeCacheHitsTotal != nil {
		RecipeCacheHitsTotal.Add(ctx, 1)
	}
}

func RecordFallback(ctx context.Context, from, to, reason string) {
	if ProviderFallbackTotal == nil {
		return
	}
	ProviderFallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from_provider", from),
		attribute.String("to_provider", to),
		attribute.String("reason", reason),
	))
}
