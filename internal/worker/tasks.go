package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/socialchef/creativechef/internal/services/recipe"
)

const (
	TypeRecordRecipe   = "history:record"
	TypeCleanupHistory = "history:cleanup"

	QueueHistory = "history"
)

// RecordRecipePayload is a generated recipe on its way to recipe_history.
type RecordRecipePayload struct {
	ID          string    `json:"id"`
	Ingredients string    `json:"ingredients"`
	DishType    string    `json:"dish_type"`
	Region      string    `json:"region"`
	Prompt      string    `json:"prompt"`
	Raw         string    `json:"raw"`
	Title       string    `json:"title"`
	Provider    string    `json:"provider"`
	CreatedAt   time.Time `json:"created_at"`
}

func PayloadFromGenerated(g *recipe.Generated) RecordRecipePayload {
	return RecordRecipePayload{
		ID:          g.ID,
		Ingredients: g.Request.Ingredients,
		DishType:    string(g.Request.DishType),
		Region:      string(g.Request.Region),
		Prompt:      g.Prompt,
		Raw:         g.Raw,
		Title:       g.Title,
		Provider:    g.Provider,
		CreatedAt:   g.CreatedAt,
	}
}

// NewRecordRecipeTask uses the recipe id as the task id so a recipe is
// enqueued at most once.
func NewRecordRecipeTask(payload RecordRecipePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRecordRecipe, data,
		asynq.TaskID(payload.ID),
		asynq.Queue(QueueHistory),
		asynq.MaxRetry(5),
	), nil
}

func NewCleanupHistoryTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupHistory, nil, asynq.Queue(QueueHistory), asynq.MaxRetry(1))
}
