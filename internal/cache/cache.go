package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// CachedRecipe is a provider response stored under the hash of its prompt.
type CachedRecipe struct {
	Raw       string    `json:"raw"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// RecipeCache provides Redis-backed caching of generated recipe text.
// A nil client makes every operation a miss/no-op. Redis failures are
// logged and treated as misses.
type RecipeCache struct {
	client *redis.Client
	prefix string
}

func NewRecipeCache(client *redis.Client) *RecipeCache {
	return &RecipeCache{
		client: client,
		prefix: "recipe:",
	}
}

// Key returns the Redis key for prompt.
func (c *RecipeCache) Key(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("%s%x", c.prefix, hash)
}

// Get returns nil, nil on a miss.
func (c *RecipeCache) Get(ctx context.Context, prompt string) (*CachedRecipe, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, c.Key(prompt)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Redis cache get failed", "error", err)
		return nil, nil
	}

	var cached CachedRecipe
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		slog.WarnContext(ctx, "Failed to unmarshal cached recipe", "error", err)
		return nil, nil
	}
	return &cached, nil
}

func (c *RecipeCache) Set(ctx context.Context, prompt string, recipe *CachedRecipe, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(recipe)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, c.Key(prompt), data, ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Redis cache set failed", "error", err)
	}
	return nil
}

// NewRedisClient parses a redis:// or rediss:// URL, instruments the client
// with OTel tracing and metrics, and checks connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		slog.Warn("Failed to instrument redis tracing", "error", err)
	}
	if err := redisotel.InstrumentMetrics(client); err != nil {
		slog.Warn("Failed to instrument redis metrics", "error", err)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
