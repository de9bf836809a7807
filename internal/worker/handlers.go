package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/socialchef/creativechef/internal/db"
)

// HistoryStore is implemented by *db.Queries.
type HistoryStore interface {
	InsertRecipeHistory(ctx context.Context, arg db.InsertRecipeHistoryParams) error
	DeleteRecipeHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// HistoryProcessor persists generated recipes and enforces retention.
type HistoryProcessor struct {
	store     HistoryStore
	retention time.Duration
	now       func() time.Time
}

func NewHistoryProcessor(store HistoryStore, retentionDays int) *HistoryProcessor {
	return &HistoryProcessor{
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

func (p *HistoryProcessor) HandleRecordRecipe(ctx context.Context, t *asynq.Task) error {
	var payload RecordRecipePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	id := db.ParseUUID(payload.ID)
	if !id.Valid {
		return fmt.Errorf("invalid recipe id %q: %w", payload.ID, asynq.SkipRetry)
	}

	createdAt := payload.CreatedAt
	if createdAt.IsZero() {
		createdAt = p.now()
	}

	err := p.store.InsertRecipeHistory(ctx, db.InsertRecipeHistoryParams{
		ID:          id,
		Ingredients: payload.Ingredients,
		DishType:    payload.DishType,
		Region:      payload.Region,
		Prompt:      payload.Prompt,
		Raw:         payload.Raw,
		Title:       payload.Title,
		Provider:    payload.Provider,
		CreatedAt:   createdAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save recipe history: %w", err)
	}

	slog.InfoContext(ctx, "Recipe history recorded", "recipe_id", payload.ID, "provider", payload.Provider)
	return nil
}

func (p *HistoryProcessor) HandleCleanupHistory(ctx context.Context, t *asynq.Task) error {
	cutoff := p.now().Add(-p.retention)
	deleted, err := p.store.DeleteRecipeHistoryBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean up recipe history: %w", err)
	}
	slog.InfoContext(ctx, "Recipe history cleanup finished", "deleted", deleted, "cutoff", cutoff)
	return nil
}
