package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"citizenconnect_backend/platform/config"
	"citizenconnect_backend/platform/logger"
)

// Worker processes scheduler tasks from the asynq queue.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	escalator *Escalator
	log       *logger.Logger
}

// NewWorker creates an asynq worker bound to the escalation handler.
func NewWorker(cfg config.SchedulerConfig, escalator *Escalator, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		escalator: escalator,
		log:       log,
	}

	mux.HandleFunc(TaskEscalationScan, w.handleEscalationScan)

	return w, nil
}

func (w *Worker) handleEscalationScan(ctx context.Context, _ *asynq.Task) error {
	return w.escalator.Run(ctx)
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
