package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("colette/business")

	// Extraction metrics
	ExtractionsTotal   metric.Int64Counter
	ExtractionDuration metric.Float64Histogram

	// Cache metrics
	CacheLookupsTotal metric.Int64Counter

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// AI metrics
	AIStructuringDuration metric.Float64Histogram

	// Strategy fallback metrics
	StrategyFallbackTotal metric.Int64Counter
)

func Init() error {
	var err error

	// Extraction metrics
	ExtractionsTotal, err = meter.Int64Counter(
		"recipe.extractions.total",
		metric.WithDescription("Total number of recipe extractions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExtractionDuration, err = meter.Float64Histogram(
		"recipe.extraction.duration",
		metric.WithDescription("Duration of the extraction pipeline"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	// Cache metrics
	CacheLookupsTotal, err = meter.Int64Counter(
		"cache.lookups.total",
		metric.WithDescription("Total number of recipe cache lookups"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	// External API metrics
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

	// AI metrics
	AIStructuringDuration, err = meter.Float64Histogram(
		"ai.structuring.duration",
		metric.WithDescription("Duration of AI caption structuring"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	// Strategy fallback metrics
	StrategyFallbackTotal, err = meter.Int64Counter(
		"strategy.fallback.total",
		metric.WithDescription("Total number of strategy fallback events"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}
