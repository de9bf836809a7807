package worker

import (
	"github.com/hibiken/asynq"
)

// CleanupSchedule runs history retention once a night.
const CleanupSchedule = "@daily"

func NewServer(redisURL string, concurrency int) (*asynq.Server, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = 5
	}

	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueHistory: 1},
	}), nil
}

// NewMux routes history tasks through the tracing, metrics and Sentry middleware.
func NewMux(p *HistoryProcessor, m *WorkerMetrics) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(SentryMiddleware, OTelMiddleware, m.Middleware)
	mux.HandleFunc(TypeRecordRecipe, p.HandleRecordRecipe)
	mux.HandleFunc(TypeCleanupHistory, p.HandleCleanupHistory)
	return mux
}

// NewScheduler registers the periodic cleanup task.
func NewScheduler(redisURL string) (*asynq.Scheduler, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	s := asynq.NewScheduler(opt, nil)
	if _, err := s.Register(CleanupSchedule, NewCleanupHistoryTask()); err != nil {
		return nil, err
	}
	return s, nil
}
