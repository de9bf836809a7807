// Package integration wires the real generator, router and history worker
// together with in-memory stand-ins for the AI provider, Redis and Postgres.
package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/socialchef/creativechef/internal/cache"
	"github.com/socialchef/creativechef/internal/db"
)

// ============================================================================
// Provider
// ============================================================================

type scriptedProvider struct {
	mu      sync.Mutex
	name    string
	text    string
	err     error
	prompts []string
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) Generate(_ context.Context, prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	return p.text, nil
}

func (p *scriptedProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

// ============================================================================
// Cache
// ============================================================================

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*cache.CachedRecipe
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*cache.CachedRecipe)}
}

func (c *memoryCache) Get(_ context.Context, prompt string) (*cache.CachedRecipe, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[prompt], nil
}

func (c *memoryCache) Set(_ context.Context, prompt string, r *cache.CachedRecipe, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[prompt] = r
	return nil
}

// ============================================================================
// History store
// ============================================================================

// memoryHistory satisfies both the worker's HistoryStore and the API's
// HistoryLister.
type memoryHistory struct {
	mu   sync.Mutex
	rows map[string]db.RecipeHistory
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{rows: make(map[string]db.RecipeHistory)}
}

func (h *memoryHistory) InsertRecipeHistory(_ context.Context, arg db.InsertRecipeHistoryParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	row := db.RecipeHistory{
		ID:          arg.ID,
		Ingredients: arg.Ingredients,
		DishType:    arg.DishType,
		Region:      arg.Region,
		Prompt:      arg.Prompt,
		Raw:         arg.Raw,
		Title:       arg.Title,
		Provider:    arg.Provider,
		CreatedAt:   pgtype.Timestamptz{Time: arg.CreatedAt, Valid: true},
	}
	if _, ok := h.rows[row.IDString()]; !ok {
		h.rows[row.IDString()] = row
	}
	return nil
}

func (h *memoryHistory) DeleteRecipeHistoryBefore(_ context.Context, cutoff time.Time) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var n int64
	for id, row := range h.rows {
		if row.CreatedAt.Time.Before(cutoff) {
			delete(h.rows, id)
			n++
		}
	}
	return n, nil
}

func (h *memoryHistory) ListRecentRecipeHistory(_ context.Context, limit int32) ([]db.RecipeHistory, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]db.RecipeHistory, 0, len(h.rows))
	for _, row := range h.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time)
	})
	if int(limit) < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (h *memoryHistory) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rows)
}

// ============================================================================
// Queue
// ============================================================================

// inlineQueue runs every enqueued task through the worker mux immediately,
// rejecting task ids it has already seen the way Redis would.
type inlineQueue struct {
	mu      sync.Mutex
	handler asynq.Handler
	seen    map[string]bool
	errs    []error
}

func newInlineQueue(handler asynq.Handler) *inlineQueue {
	return &inlineQueue{handler: handler, seen: make(map[string]bool)}
}

func (q *inlineQueue) EnqueueContext(ctx context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	key := task.Type() + string(task.Payload())
	if q.seen[key] {
		q.mu.Unlock()
		return nil, asynq.ErrTaskIDConflict
	}
	q.seen[key] = true
	q.mu.Unlock()

	if err := q.handler.ProcessTask(ctx, task); err != nil {
		q.mu.Lock()
		q.errs = append(q.errs, err)
		q.mu.Unlock()
	}
	return &asynq.TaskInfo{Type: task.Type(), Queue: "history"}, nil
}
