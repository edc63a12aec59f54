package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samlap/samlap-web/jobs"
)

type stubEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (s *stubEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.tasks = append(s.tasks, task)
	return &asynq.TaskInfo{ID: "abc", Queue: jobs.QueueDefault, Type: task.Type()}, nil
}

func (s *stubEnqueuer) Close() error { return nil }

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return s.info, s.err }
func (s stubInspector) Close() error                                 { return nil }

func TestTriggerCommandEnqueuesWarmup(t *testing.T) {
	enq := &stubEnqueuer{}
	c := &JobsCLI{client: enq}
	stdout := new(bytes.Buffer)

	code := c.TriggerCommand(context.Background(), JobsOptions{Name: jobs.TaskMPCWarmup, KeepCache: true, Stdout: stdout})
	require.Equal(t, 0, code)
	require.Len(t, enq.tasks, 1)
	assert.Contains(t, stdout.String(), "enqueued mpc:warmup id=abc")

	var payload jobs.WarmupPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, "manual", payload.Reason)
	assert.True(t, payload.KeepCache)
}

func TestTriggerCommandErrors(t *testing.T) {
	stderr := new(bytes.Buffer)
	c := &JobsCLI{client: &stubEnqueuer{}}

	assert.Equal(t, 2, c.TriggerCommand(context.Background(), JobsOptions{Stderr: stderr}))
	assert.Equal(t, 1, c.TriggerCommand(context.Background(), JobsOptions{Name: "mail:send", Stderr: stderr}))
	assert.Contains(t, stderr.String(), "unsupported job mail:send")

	c = &JobsCLI{client: &stubEnqueuer{err: errors.New("redis down")}}
	assert.Equal(t, 1, c.TriggerCommand(context.Background(), JobsOptions{Name: jobs.TaskMPCWarmup, Stderr: stderr}))
}

func TestTriggerCommandDuplicateIsSuccess(t *testing.T) {
	stdout := new(bytes.Buffer)
	c := &JobsCLI{client: &stubEnqueuer{err: asynq.ErrDuplicateTask}}

	assert.Equal(t, 0, c.TriggerCommand(context.Background(), JobsOptions{Name: jobs.TaskMPCWarmup, Stdout: stdout}))
	assert.Contains(t, stdout.String(), "already queued")
}

func TestStatsCommandJSON(t *testing.T) {
	stdout := new(bytes.Buffer)
	c := &JobsCLI{inspector: stubInspector{info: &asynq.QueueInfo{Pending: 2, Retry: 1}}}

	require.Equal(t, 0, c.StatsCommand(JobsOptions{JSONOutput: true, Stdout: stdout}))
	var stats QueueStats
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &stats))
	assert.Equal(t, QueueStats{Queue: jobs.QueueDefault, Pending: 2, Retry: 1}, stats)

	stderr := new(bytes.Buffer)
	c = &JobsCLI{inspector: stubInspector{err: errors.New("dial")}}
	assert.Equal(t, 1, c.StatsCommand(JobsOptions{Stderr: stderr}))
}
