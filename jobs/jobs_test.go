package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/samlap/samlap-web/internal/jobs"
	"github.com/samlap/samlap-web/internal/mpc"
)

type stubSource struct {
	calls atomic.Int32
	fail  map[string]bool
}

func (s *stubSource) result(name string) error {
	s.calls.Add(1)
	if s.fail[name] {
		return errors.New(name + " unavailable")
	}
	return nil
}

func (s *stubSource) Decisions(context.Context) ([]mpc.Decision, error) {
	return nil, s.result("decisions")
}

func (s *stubSource) Voting(context.Context) (mpc.VotingData, error) {
	return mpc.VotingData{}, s.result("voting")
}

func (s *stubSource) WordOverview(context.Context) (mpc.WordOverview, error) {
	return mpc.WordOverview{}, s.result("word_overview")
}

func (s *stubSource) DiscussionOverview(context.Context) (mpc.DiscussionOverview, error) {
	return mpc.DiscussionOverview{}, s.result("discussion_overview")
}

type stubCache struct{ bumps atomic.Int32 }

func (c *stubCache) Bump(context.Context) (int64, error) {
	return int64(c.bumps.Add(1)) + 1, nil
}

func newJob(src MPCSource, cache CacheBumper) *MPCWarmupJob {
	return NewMPCWarmupJob(src, cache, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
}

func TestWarmupBumpsCacheAndReadsEveryDataset(t *testing.T) {
	src := &stubSource{}
	cache := &stubCache{}
	task, err := NewMPCWarmupTask(WarmupPayload{Reason: "manual"})
	require.NoError(t, err)
	assert.Equal(t, TaskMPCWarmup, task.Type())

	require.NoError(t, newJob(src, cache).Handle(context.Background(), task))
	assert.EqualValues(t, 1, cache.bumps.Load())
	assert.EqualValues(t, 4, src.calls.Load())
}

func TestWarmupKeepCacheSkipsBump(t *testing.T) {
	cache := &stubCache{}
	task, err := NewMPCWarmupTask(WarmupPayload{KeepCache: true})
	require.NoError(t, err)

	require.NoError(t, newJob(&stubSource{}, cache).Handle(context.Background(), task))
	assert.Zero(t, cache.bumps.Load())
}

func TestWarmupToleratesPartialFailure(t *testing.T) {
	src := &stubSource{fail: map[string]bool{"voting": true}}
	task := asynq.NewTask(TaskMPCWarmup, nil)

	assert.NoError(t, newJob(src, nil).Handle(context.Background(), task))
}

func TestWarmupFailsWhenEverythingFails(t *testing.T) {
	src := &stubSource{fail: map[string]bool{"decisions": true, "voting": true, "word_overview": true, "discussion_overview": true}}
	task := asynq.NewTask(TaskMPCWarmup, nil)

	err := newJob(src, nil).Handle(context.Background(), task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "voting unavailable")
}

func TestWarmupRejectsBadPayload(t *testing.T) {
	task := asynq.NewTask(TaskMPCWarmup, []byte("{"))
	err := newJob(&stubSource{}, nil).Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestWarmupPayloadRoundTrip(t *testing.T) {
	task, err := NewMPCWarmupTask(WarmupPayload{Reason: "cron"})
	require.NoError(t, err)
	var got WarmupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, "cron", got.Reason)
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return s.info, s.err }

func TestJobsHealth(t *testing.T) {
	cases := []struct {
		name      string
		inspector QueueInspector
		status    int
		body      string
	}{
		{"no inspector", nil, http.StatusOK, `{"queue":"default","pending":0}`},
		{"queue info", stubInspector{info: &asynq.QueueInfo{Queue: "default", Pending: 3}}, http.StatusOK, `{"queue":"default","pending":3}`},
		{"redis down", stubInspector{err: errors.New("dial")}, http.StatusServiceUnavailable, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Route("/jobs", NewHandler(tc.inspector, nil).MountRoutes)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
			assert.Equal(t, tc.status, rr.Code)
			if tc.body != "" {
				assert.JSONEq(t, tc.body, rr.Body.String())
			}
		})
	}
}

func TestNewWorkerRegistersCron(t *testing.T) {
	task, err := NewMPCWarmupTask(WarmupPayload{Reason: "cron"})
	require.NoError(t, err)

	worker, err := NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"},
		Handlers:  []TaskHandler{{Type: TaskMPCWarmup, Handler: (&MPCWarmupJob{Source: &stubSource{}}).Handle}},
		Cron:      []CronRegistration{{Spec: "*/15 * * * *", Task: task}},
	})
	require.NoError(t, err)
	assert.NotNil(t, worker.scheduler)
}

func TestNewWorkerRejectsBadCron(t *testing.T) {
	task, err := NewMPCWarmupTask(WarmupPayload{})
	require.NoError(t, err)

	_, err = NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"},
		Cron:      []CronRegistration{{Spec: "every now and then", Task: task}},
	})
	assert.Error(t, err)
}
