package recipe

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/creativechef/internal/cache"
	apperrors "github.com/socialchef/creativechef/internal/errors"
)

type memoryCache struct {
	entries map[string]*cache.CachedRecipe
	ttl     time.Duration
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*cache.CachedRecipe)}
}

func (m *memoryCache) Get(_ context.Context, prompt string) (*cache.CachedRecipe, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.entries[prompt], nil
}

func (m *memoryCache) Set(_ context.Context, prompt string, r *cache.CachedRecipe, ttl time.Duration) error {
	m.entries[prompt] = r
	m.ttl = ttl
	return nil
}

type recordingRecorder struct {
	recorded []*Generated
	err      error
}

func (r *recordingRecorder) Record(_ context.Context, g *Generated) error {
	r.recorded = append(r.recorded, g)
	return r.err
}

var mangoRequest = Request{Ingredients: "mango, onion", DishType: DishTypeVeg, Region: RegionSouth}

func TestGeneratorGenerate(t *testing.T) {
	provider := &fakeProvider{name: "gemini", text: mangoCurry}
	recorder := &recordingRecorder{}
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	g := NewGenerator(provider, WithRecorder(recorder))
	g.now = func() time.Time { return fixed }

	result, err := g.Generate(context.Background(), mangoRequest)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, mangoRequest.Prompt(), provider.last)
	assert.Equal(t, "Unexpected Mango Curry", result.Title)
	assert.Equal(t, FormatRecipeHTML(mangoCurry), result.HTML)
	assert.Equal(t, mangoCurry, result.Raw)
	assert.Equal(t, "gemini", result.Provider)
	assert.Equal(t, fixed, result.CreatedAt)
	assert.False(t, result.Cached)
	_, err = uuid.Parse(result.ID)
	assert.NoError(t, err)

	require.Len(t, recorder.recorded, 1)
	assert.Same(t, result, recorder.recorded[0])
}

func TestGeneratorFailure(t *testing.T) {
	provider := &fakeProvider{name: "gemini", err: errors.New("Gemini API error (status 500): boom")}
	recorder := &recordingRecorder{}

	g := NewGenerator(provider, WithRecorder(recorder))
	result, err := g.Generate(context.Background(), mangoRequest)

	assert.Nil(t, result)
	require.Error(t, err)
	appErr := apperrors.As(err)
	assert.Equal(t, apperrors.ErrorTypeRecipeGeneration, appErr.Type)
	assert.Equal(t, apperrors.GenerationFailureMessage, appErr.Message)
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)
	assert.ErrorIs(t, err, provider.err)
	assert.Equal(t, 1, provider.calls, "generation must not be retried")
	assert.Empty(t, recorder.recorded)
}

func TestGeneratorKeepsExistingGenerationFailure(t *testing.T) {
	inner := apperrors.NewGenerationFailure(errors.New("upstream"))
	g := NewGenerator(&fakeProvider{name: "gemini", err: inner})

	_, err := g.Generate(context.Background(), mangoRequest)
	assert.Same(t, inner, err)
}

func TestGeneratorRecorderFailureIsNotSurfaced(t *testing.T) {
	g := NewGenerator(&fakeProvider{name: "groq", text: "**T**"}, WithRecorder(&recordingRecorder{err: errors.New("queue down")}))

	result, err := g.Generate(context.Background(), mangoRequest)
	require.NoError(t, err)
	assert.Equal(t, "T", result.Title)
}

func TestGeneratorCache(t *testing.T) {
	provider := &fakeProvider{name: "gemini", text: mangoCurry}
	recorder := &recordingRecorder{}
	c := newMemoryCache()

	g := NewGenerator(provider, WithCache(c, time.Hour), WithRecorder(recorder))

	first, err := g.Generate(context.Background(), mangoRequest)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, time.Hour, c.ttl)

	second, err := g.Generate(context.Background(), mangoRequest)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.HTML, second.HTML)
	assert.NotEqual(t, first.ID, second.ID)

	assert.Equal(t, 1, provider.calls)
	assert.Len(t, recorder.recorded, 1, "cache hits are not recorded")
}

func TestGeneratorCacheDisabledWithoutTTL(t *testing.T) {
	provider := &fakeProvider{name: "gemini", text: mangoCurry}
	c := newMemoryCache()

	g := NewGenerator(provider, WithCache(c, 0))
	for i := 0; i < 2; i++ {
		_, err := g.Generate(context.Background(), mangoRequest)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, provider.calls)
	assert.Empty(t, c.entries)
}

func TestGeneratorCacheErrorFallsThrough(t *testing.T) {
	provider := &fakeProvider{name: "gemini", text: mangoCurry}
	c := newMemoryCache()
	c.getErr = errors.New("redis down")

	g := NewGenerator(provider, WithCache(c, time.Minute))
	_, err := g.Generate(context.Background(), mangoRequest)

	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (slowProvider) Name() string { return "slow" }

func TestGeneratorTimeout(t *testing.T) {
	g := NewGenerator(slowProvider{}, WithTimeout(10*time.Millisecond))

	_, err := g.Generate(context.Background(), mangoRequest)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, apperrors.GenerationFailureMessage, apperrors.As(err).Message)
}

func TestGeneratorTimeoutSkipsFallback(t *testing.T) {
	secondary := &fakeProvider{name: "groq", text: mangoCurry}
	g := NewGenerator(NewFallbackProvider(slowProvider{}, secondary), WithTimeout(20*time.Millisecond))

	_, err := g.Generate(context.Background(), mangoRequest)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, secondary.calls)
}

func TestGeneratorRecordsAnsweringProvider(t *testing.T) {
	recorder := &recordingRecorder{}
	c := newMemoryCache()
	g := NewGenerator(
		NewFallbackProvider(&fakeProvider{name: "gemini", err: errors.New("status 503")}, &fakeProvider{name: "groq", text: mangoCurry}),
		WithCache(c, time.Hour),
		WithRecorder(recorder),
	)

	result, err := g.Generate(context.Background(), mangoRequest)
	require.NoError(t, err)
	assert.Equal(t, "groq", result.Provider)

	require.Len(t, recorder.recorded, 1)
	assert.Equal(t, "groq", recorder.recorded[0].Provider)

	cached, err := c.Get(context.Background(), mangoRequest.Prompt())
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "groq", cached.Provider)
}
