package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/creativechef/internal/services/recipe"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func generated() *recipe.Generated {
	return &recipe.Generated{
		ID:        "7d9f4c1e-3b2a-4f5d-9e8c-1a2b3c4d5e6f",
		Request:   recipe.Request{Ingredients: "mango", DishType: recipe.DishTypeVeg, Region: recipe.RegionWest},
		Prompt:    "prompt",
		Raw:       "**Mango Lassi Tart**",
		Title:     "Mango Lassi Tart",
		Provider:  "groq",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestHistoryRecorderRecord(t *testing.T) {
	enq := &fakeEnqueuer{}
	r := NewHistoryRecorder(enq)

	require.NoError(t, r.Record(context.Background(), generated()))
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TypeRecordRecipe, enq.tasks[0].Type())

	var payload RecordRecipePayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, PayloadFromGenerated(generated()), payload)
	assert.Equal(t, "veg", payload.DishType)
	assert.Equal(t, "west", payload.Region)
}

func TestHistoryRecorderDuplicateIsNotAnError(t *testing.T) {
	r := NewHistoryRecorder(&fakeEnqueuer{err: asynq.ErrTaskIDConflict})
	assert.NoError(t, r.Record(context.Background(), generated()))
}

func TestHistoryRecorderEnqueueError(t *testing.T) {
	r := NewHistoryRecorder(&fakeEnqueuer{err: errors.New("redis unavailable")})
	assert.Error(t, r.Record(context.Background(), generated()))
}

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		addr     string
		password string
		tls      bool
	}{
		{"bare host", "localhost:6379", "localhost:6379", "", false},
		{"redis scheme", "redis://:secret@cache:6380/0", "cache:6380", "secret", false},
		{"tls scheme", "rediss://default:pw@managed.example.com:6379", "managed.example.com:6379", "pw", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, err := ParseRedisURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.addr, opt.Addr)
			assert.Equal(t, tt.password, opt.Password)
			assert.Equal(t, tt.tls, opt.TLSConfig != nil)
		})
	}
}

func TestNewCleanupHistoryTask(t *testing.T) {
	task := NewCleanupHistoryTask()
	assert.Equal(t, TypeCleanupHistory, task.Type())
	assert.Empty(t, task.Payload())
}

func TestWorkerMetricsMiddlewareNil(t *testing.T) {
	var m *WorkerMetrics
	called := false
	h := m.Middleware(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		called = true
		return nil
	}))

	require.NoError(t, h.ProcessTask(context.Background(), NewCleanupHistoryTask()))
	assert.True(t, called)
}

func TestSentryMiddlewareTurnsPanicIntoError(t *testing.T) {
	h := SentryMiddleware(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		panic("boom")
	}))

	err := h.ProcessTask(context.Background(), NewCleanupHistoryTask())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
