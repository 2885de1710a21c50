// Package scheduler runs background jobs over asynq: a periodic scan
// that escalates complaints stuck without progress.
package scheduler

import (
	"github.com/hibiken/asynq"
)

const TaskEscalationScan = "complaints.escalation_scan"

// NewEscalationScanTask builds the escalation scan task. The scan
// derives everything from the database, so the task carries no payload.
func NewEscalationScanTask() *asynq.Task {
	return asynq.NewTask(TaskEscalationScan, nil)
}
