package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const schema = `
CREATE TABLE IF NOT EXISTS recipe_history (
	id          uuid PRIMARY KEY,
	ingredients text NOT NULL,
	dish_type   text NOT NULL,
	region      text NOT NULL,
	prompt      text NOT NULL,
	raw         text NOT NULL,
	title       text NOT NULL,
	provider    text NOT NULL,
	created_at  timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS recipe_history_created_at_idx ON recipe_history (created_at DESC);
`

// RecipeHistory is one row of recipe_history.
type RecipeHistory struct {
	ID          pgtype.UUID        `json:"id"`
	Ingredients string             `json:"ingredients"`
	DishType    string             `json:"dish_type"`
	Region      string             `json:"region"`
	Prompt      string             `json:"prompt"`
	Raw         string             `json:"raw"`
	Title       string             `json:"title"`
	Provider    string             `json:"provider"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

// IDString renders the row id in canonical form, or "" when unset.
func (r RecipeHistory) IDString() string {
	if !r.ID.Valid {
		return ""
	}
	return uuid.UUID(r.ID.Bytes).String()
}

// ParseUUID returns an invalid pgtype.UUID for malformed input.
func ParseUUID(s string) pgtype.UUID {
	var u pgtype.UUID
	if err := u.Scan(s); err != nil {
		return pgtype.UUID{Valid: false}
	}
	return u
}

func (q *Queries) EnsureSchema(ctx context.Context) error {
	_, err := q.db.Exec(ctx, schema)
	return err
}

type InsertRecipeHistoryParams struct {
	ID          pgtype.UUID
	Ingredients string
	DishType    string
	Region      string
	Prompt      string
	Raw         string
	Title       string
	Provider    string
	CreatedAt   time.Time
}

const insertRecipeHistory = `
INSERT INTO recipe_history (id, ingredients, dish_type, region, prompt, raw, title, provider, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING`

// InsertRecipeHistory is idempotent on id so redelivered tasks are harmless.
func (q *Queries) InsertRecipeHistory(ctx context.Context, arg InsertRecipeHistoryParams) error {
	if !arg.ID.Valid {
		return fmt.Errorf("recipe history id is required")
	}
	_, err := q.db.Exec(ctx, insertRecipeHistory,
		arg.ID,
		arg.Ingredients,
		arg.DishType,
		arg.Region,
		arg.Prompt,
		arg.Raw,
		arg.Title,
		arg.Provider,
		arg.CreatedAt,
	)
	return err
}

const listRecentRecipeHistory = `
SELECT id, ingredients, dish_type, region, prompt, raw, title, provider, created_at
FROM recipe_history
ORDER BY created_at DESC
LIMIT $1`

func (q *Queries) ListRecentRecipeHistory(ctx context.Context, limit int32) ([]RecipeHistory, error) {
	rows, err := q.db.Query(ctx, listRecentRecipeHistory, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (RecipeHistory, error) {
		var r RecipeHistory
		err := row.Scan(
			&r.ID,
			&r.Ingredients,
			&r.DishType,
			&r.Region,
			&r.Prompt,
			&r.Raw,
			&r.Title,
			&r.Provider,
			&r.CreatedAt,
		)
		return r, err
	})
}

const deleteRecipeHistoryBefore = `DELETE FROM recipe_history WHERE created_at < $1`

// DeleteRecipeHistoryBefore returns the number of rows removed.
func (q *Queries) DeleteRecipeHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteRecipeHistoryBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
