package worker

import (
	"github.com/hibiken/asynq"
)

// NewServer creates a new Asynq server for processing tasks
func NewServer(redisURL string) *asynq.Server {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		panic("failed to parse Redis URL: " + err.Error())
	}

	return asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 10,
		},
	)
}

// NewScheduler creates an Asynq scheduler for periodic tasks (cache cleanup).
func NewScheduler(redisURL string) *asynq.Scheduler {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		panic("failed to parse Redis URL: " + err.Error())
	}

	return asynq.NewScheduler(opt, nil)
}
