package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"

	"github.com/socialchef/creativechef/internal/services/recipe"
)

// Enqueuer is the part of *asynq.Client the recorder needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// HistoryRecorder queues generated recipes for the worker to persist.
type HistoryRecorder struct {
	client Enqueuer
}

func NewHistoryRecorder(client Enqueuer) *HistoryRecorder {
	return &HistoryRecorder{client: client}
}

var _ recipe.Recorder = (*HistoryRecorder)(nil)

func (r *HistoryRecorder) Record(ctx context.Context, g *recipe.Generated) error {
	task, err := NewRecordRecipeTask(PayloadFromGenerated(g))
	if err != nil {
		return err
	}
	_, err = r.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}
