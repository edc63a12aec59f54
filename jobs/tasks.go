package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskMPCWarmup refreshes the cached committee datasets.
	TaskMPCWarmup = "mpc:warmup"
)

// WarmupPayload describes one warm-up request.
type WarmupPayload struct {
	// Reason is logged only: "cron" or "manual".
	Reason string `json:"reason,omitempty"`
	// KeepCache skips the cache version bump.
	KeepCache bool `json:"keep_cache,omitempty"`
}

// NewMPCWarmupTask constructs the warm-up task. At most one run is queued per
// unique window.
func NewMPCWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMPCWarmup, data,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(2*time.Minute),
		asynq.Unique(5*time.Minute),
	), nil
}
