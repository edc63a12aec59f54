package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/samlap/samlap-web/internal/jobs"
	"github.com/samlap/samlap-web/internal/mpc"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// MPCSource is the subset of the committee service the warm-up reads.
type MPCSource interface {
	Decisions(ctx context.Context) ([]mpc.Decision, error)
	Voting(ctx context.Context) (mpc.VotingData, error)
	WordOverview(ctx context.Context) (mpc.WordOverview, error)
	DiscussionOverview(ctx context.Context) (mpc.DiscussionOverview, error)
}

// CacheBumper invalidates every cached backend response.
type CacheBumper interface {
	Bump(ctx context.Context) (int64, error)
}

// MPCWarmupJob bumps the response cache generation and re-reads the committee
// datasets through the cached client so the next page view is a cache hit.
type MPCWarmupJob struct {
	Source  MPCSource
	Cache   CacheBumper
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	// ResourceTimeout bounds each dataset read.
	ResourceTimeout time.Duration
}

// NewMPCWarmupJob wires dependencies for the warm-up handler. cache may be nil
// when response caching is disabled.
func NewMPCWarmupJob(source MPCSource, cache CacheBumper, logger *slog.Logger, metrics *jobmetrics.Metrics) *MPCWarmupJob {
	return &MPCWarmupJob{Source: source, Cache: cache, Logger: logger, Metrics: metrics, ResourceTimeout: 30 * time.Second}
}

// Handle processes TaskMPCWarmup tasks. The run fails only when every dataset
// read failed.
func (j *MPCWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Source == nil {
		return errors.New("mpc warmup: handler not configured")
	}
	var payload WarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("mpc warmup: decode payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	tracker := j.metrics().Track(TaskMPCWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("reason", payload.Reason))
	start := time.Now()

	if j.Cache != nil && !payload.KeepCache {
		version, err := j.Cache.Bump(ctx)
		if err != nil {
			logger.Warn("bump cache version", slog.Any("error", err))
		} else {
			logger.Debug("cache version bumped", slog.Int64("version", version))
		}
	}

	resources := []struct {
		name string
		load func(context.Context) error
	}{
		{"decisions", func(ctx context.Context) error { _, err := j.Source.Decisions(ctx); return err }},
		{"voting", func(ctx context.Context) error { _, err := j.Source.Voting(ctx); return err }},
		{"word_overview", func(ctx context.Context) error { _, err := j.Source.WordOverview(ctx); return err }},
		{"discussion_overview", func(ctx context.Context) error { _, err := j.Source.DiscussionOverview(ctx); return err }},
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, res := range resources {
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(gctx, j.resourceTimeout())
			defer cancel()
			err := res.load(rctx)
			j.metrics().AddWarmed(res.name, err == nil)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", res.name, err))
				mu.Unlock()
				logger.Warn("warm resource", slog.String("resource", res.name), slog.Any("error", err))
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) == len(resources) {
		return fmt.Errorf("mpc warmup: every resource failed: %w", errors.Join(errs...))
	}
	logger.Info("completed mpc warmup",
		slog.Int("resources", len(resources)),
		slog.Int("failed", len(errs)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *MPCWarmupJob) resourceTimeout() time.Duration {
	if j.ResourceTimeout > 0 {
		return j.ResourceTimeout
	}
	return 30 * time.Second
}

func (j *MPCWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskMPCWarmup))
	}
	return slog.Default().With(slog.String("job", TaskMPCWarmup))
}

func (j *MPCWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
