package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"citizenconnect_backend/platform/logger"
)

type fakeSchedulerConfig struct {
	redisURL string
	queue    string
}

func (f fakeSchedulerConfig) GetRedisURL() string      { return f.redisURL }
func (f fakeSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (f fakeSchedulerConfig) GetAsynqQueueName() string { return f.queue }
func (f fakeSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestClientRequiresRedisURL(t *testing.T) {
	_, err := NewClient(fakeSchedulerConfig{}, logger.New("development"))
	if err == nil {
		t.Fatal("expected error for missing redis url")
	}
}

func TestEnqueueEscalationScan(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(fakeSchedulerConfig{redisURL: "redis://" + srv.Addr(), queue: "escalations"}, logger.New("development"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.EnqueueEscalationScan(ctx); err != nil {
		t.Fatalf("EnqueueEscalationScan: %v", err)
	}

	if !srv.Exists("asynq:{escalations}:pending") {
		t.Fatal("task was not enqueued on the escalations queue")
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	if err := client.EnqueueEscalationScan(context.Background()); err != nil {
		t.Fatalf("nil client enqueue: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("nil client close: %v", err)
	}
}
