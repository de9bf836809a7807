package recipe

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/socialchef/creativechef/internal/cache"
	"github.com/socialchef/creativechef/internal/errors"
	"github.com/socialchef/creativechef/internal/logger"
	"github.com/socialchef/creativechef/internal/metrics"
	"github.com/socialchef/creativechef/internal/telemetry"
)

// ResponseCache stores provider text keyed by prompt.
type ResponseCache interface {
	Get(ctx context.Context, prompt string) (*cache.CachedRecipe, error)
	Set(ctx context.Context, prompt string, recipe *cache.CachedRecipe, ttl time.Duration) error
}

// Recorder receives every freshly generated recipe. Failures are logged only.
type Recorder interface {
	Record(ctx context.Context, g *Generated) error
}

// Generator runs one prompt through the provider and formats the result.
type Generator struct {
	provider Provider
	cache    ResponseCache
	cacheTTL time.Duration
	recorder Recorder
	timeout  time.Duration
	now      func() time.Time
}

type GeneratorOption func(*Generator)

// WithCache enables response caching. A non-positive ttl leaves it disabled.
func WithCache(c ResponseCache, ttl time.Duration) GeneratorOption {
	return func(g *Generator) {
		if c != nil && ttl > 0 {
			g.cache = c
			g.cacheTTL = ttl
		}
	}
}

func WithRecorder(r Recorder) GeneratorOption {
	return func(g *Generator) { g.recorder = r }
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) { g.timeout = d }
}

func NewGenerator(provider Provider, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the prompt for req, asks the provider once and formats the
// reply. Any provider failure is returned as a generation failure AppError
// whose message is errors.GenerationFailureMessage.
func (g *Generator) Generate(ctx context.Context, req Request) (*Generated, error) {
	ctx, span := telemetry.Tracer("recipe").Start(ctx, "recipe.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("recipe.dish_type", string(req.DishType)),
		attribute.String("recipe.region", string(req.Region)),
		attribute.String("recipe.provider", g.provider.Name()),
	)

	start := g.now()
	prompt := req.Prompt()

	if cached := g.lookup(ctx, prompt); cached != nil {
		span.SetAttributes(attribute.Bool("recipe.cached", true))
		metrics.RecordCacheHit(ctx)
		metrics.RecordGeneration(ctx, "cached", time.Since(start).Seconds())
		result := g.build(req, prompt, cached.Raw, cached.Provider)
		result.Cached = true
		return result, nil
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, source, err := generateWithSource(callCtx, g.provider, prompt)
	if err != nil {
		metrics.RecordGeneration(ctx, "failed", time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		slog.ErrorContext(ctx, "Recipe generation failed",
			"provider", g.provider.Name(),
			"error", err,
			logger.WithTraceContext(ctx))
		return nil, generationFailure(err)
	}

	result := g.build(req, prompt, raw, source)
	metrics.RecordGeneration(ctx, "succeeded", time.Since(start).Seconds())
	slog.InfoContext(ctx, "Recipe generated",
		"recipe_id", result.ID,
		"provider", result.Provider,
		"title", result.Title,
		logger.WithTraceContext(ctx))

	if g.cache != nil && raw != "" {
		if err := g.cache.Set(ctx, prompt, &cache.CachedRecipe{
			Raw:       raw,
			Provider:  result.Provider,
			CreatedAt: result.CreatedAt,
		}, g.cacheTTL); err != nil {
			slog.WarnContext(ctx, "Failed to cache recipe", "error", err, logger.WithTraceContext(ctx))
		}
	}

	if g.recorder != nil {
		if err := g.recorder.Record(ctx, result); err != nil {
			slog.WarnContext(ctx, "Failed to record recipe history",
				"recipe_id", result.ID,
				"error", err,
				logger.WithTraceContext(ctx))
		}
	}

	return result, nil
}

func (g *Generator) lookup(ctx context.Context, prompt string) *cache.CachedRecipe {
	if g.cache == nil {
		return nil
	}
	cached, err := g.cache.Get(ctx, prompt)
	if err != nil {
		slog.WarnContext(ctx, "Recipe cache lookup failed", "error", err, logger.WithTraceContext(ctx))
		return nil
	}
	return cached
}

func (g *Generator) build(req Request, prompt, raw, provider string) *Generated {
	return &Generated{
		ID:        uuid.NewString(),
		Request:   req,
		Prompt:    prompt,
		Raw:       raw,
		Title:     ParseRecipe(raw).Title,
		HTML:      FormatRecipeHTML(raw),
		Provider:  provider,
		CreatedAt: g.now().UTC(),
	}
}

func generationFailure(err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Type == errors.ErrorTypeRecipeGeneration {
		return appErr
	}
	return errors.NewGenerationFailure(err)
}
