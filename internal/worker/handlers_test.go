package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/creativechef/internal/db"
)

type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) InsertRecipeHistory(ctx context.Context, arg db.InsertRecipeHistoryParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockHistoryStore) DeleteRecipeHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func recordTask(t *testing.T, payload RecordRecipePayload) *asynq.Task {
	t.Helper()
	task, err := NewRecordRecipeTask(payload)
	require.NoError(t, err)
	return task
}

func TestHandleRecordRecipe(t *testing.T) {
	id := uuid.NewString()
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	store := new(MockHistoryStore)
	store.On("InsertRecipeHistory", mock.Anything, mock.MatchedBy(func(arg db.InsertRecipeHistoryParams) bool {
		return arg.ID == db.ParseUUID(id) &&
			arg.Title == "Mango Curry" &&
			arg.DishType == "veg" &&
			arg.Region == "south" &&
			arg.Provider == "gemini" &&
			arg.CreatedAt.Equal(created)
	})).Return(nil)

	p := NewHistoryProcessor(store, 30)
	err := p.HandleRecordRecipe(context.Background(), recordTask(t, RecordRecipePayload{
		ID:          id,
		Ingredients: "mango, onion",
		DishType:    "veg",
		Region:      "south",
		Prompt:      "prompt",
		Raw:         "**Mango Curry**",
		Title:       "Mango Curry",
		Provider:    "gemini",
		CreatedAt:   created,
	}))

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestHandleRecordRecipeDefaultsCreatedAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store := new(MockHistoryStore)
	store.On("InsertRecipeHistory", mock.Anything, mock.MatchedBy(func(arg db.InsertRecipeHistoryParams) bool {
		return arg.CreatedAt.Equal(now)
	})).Return(nil)

	p := NewHistoryProcessor(store, 30)
	p.now = func() time.Time { return now }

	require.NoError(t, p.HandleRecordRecipe(context.Background(), recordTask(t, RecordRecipePayload{ID: uuid.NewString()})))
	store.AssertExpectations(t)
}

func TestHandleRecordRecipeRejectsBadPayloads(t *testing.T) {
	store := new(MockHistoryStore)
	p := NewHistoryProcessor(store, 30)

	err := p.HandleRecordRecipe(context.Background(), asynq.NewTask(TypeRecordRecipe, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = p.HandleRecordRecipe(context.Background(), recordTask(t, RecordRecipePayload{ID: "nope"}))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	store.AssertNotCalled(t, "InsertRecipeHistory", mock.Anything, mock.Anything)
}

func TestHandleRecordRecipeStoreError(t *testing.T) {
	store := new(MockHistoryStore)
	store.On("InsertRecipeHistory", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	p := NewHistoryProcessor(store, 30)
	err := p.HandleRecordRecipe(context.Background(), recordTask(t, RecordRecipePayload{ID: uuid.NewString()}))

	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleCleanupHistory(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	store := new(MockHistoryStore)
	store.On("DeleteRecipeHistoryBefore", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		return cutoff.Equal(now.AddDate(0, 0, -7))
	})).Return(int64(3), nil)

	p := NewHistoryProcessor(store, 7)
	p.now = func() time.Time { return now }

	require.NoError(t, p.HandleCleanupHistory(context.Background(), NewCleanupHistoryTask()))
	store.AssertExpectations(t)
}

func TestHandleCleanupHistoryError(t *testing.T) {
	store := new(MockHistoryStore)
	store.On("DeleteRecipeHistoryBefore", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	err := NewHistoryProcessor(store, 30).HandleCleanupHistory(context.Background(), NewCleanupHistoryTask())
	assert.Error(t, err)
}

func TestRecordIDFromTask(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, id, recordID(recordTask(t, RecordRecipePayload{ID: id})))
	assert.Empty(t, recordID(NewCleanupHistoryTask()))

	data, err := json.Marshal(map[string]string{"id": id})
	require.NoError(t, err)
	assert.Empty(t, recordID(asynq.NewTask(TypeCleanupHistory, data)))
}
