// Package service wires the source, scoring pipeline and store together and
// implements the dependencies required by the HTTP API and MCP tools.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	refreshqueue "github.com/okian/pickem/internal/adapters/mq/queue"
	workerpool "github.com/okian/pickem/internal/adapters/mq/worker"
	"github.com/okian/pickem/internal/adapters/repository"
	"github.com/okian/pickem/internal/adapters/source"
	"github.com/okian/pickem/internal/domain/model"
	"github.com/okian/pickem/internal/domain/pipeline"
	"github.com/okian/pickem/internal/domain/report"
	"github.com/okian/pickem/internal/domain/types"
	"github.com/okian/pickem/pkg/logger"
	"github.com/okian/pickem/pkg/metrics"
)

// Refresh reasons.
const (
	ReasonStartup  = "startup"
	ReasonSchedule = "schedule"
	ReasonAPI      = "api"
)

// Errors returned by the service.
var (
	ErrNoSource   = errors.New("no source configured")
	ErrNotStarted = errors.New("service not started")
)

// Service runs refreshes and serves the latest scored run.
type Service struct {
	mu sync.RWMutex

	// Core components
	source    source.Source
	store     repository.Store
	queue     *refreshqueue.InMemoryQueue
	pool      *workerpool.Pool
	scheduler *gocron.Scheduler

	// Configuration
	workerCount     int
	queueSize       int
	refreshInterval time.Duration
	pipelineOpts    []pipeline.Option

	// Refreshes run one at a time.
	refreshMu sync.Mutex

	statsMu   sync.Mutex
	runs      int
	failures  int
	lastErr   error
	lastRunAt time.Time

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: 1,
		queueSize:   16,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewTreapStore()
	}
	return s
}

// Start launches the refresh workers, queues an initial refresh and starts the
// schedule when an interval is configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.source == nil {
		return ErrNoSource
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting scoring service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.queue = refreshqueue.NewInMemoryQueue(refreshqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s)
	s.pool.Start(runCtx)

	if s.refreshInterval > 0 {
		s.scheduler = gocron.NewScheduler(time.UTC)
		_, err := s.scheduler.Every(s.refreshInterval).WaitForSchedule().Do(func() {
			if _, err := s.enqueue(runCtx, ReasonSchedule); err != nil {
				s.logger.Warn(runCtx, "scheduled refresh skipped", logger.Error(err))
			}
		})
		if err != nil {
			cancel()
			_ = s.pool.Shutdown(ctx)
			return fmt.Errorf("schedule refresh: %w", err)
		}
		s.scheduler.StartAsync()
	}

	s.started = true
	if _, err := s.enqueue(runCtx, ReasonStartup); err != nil {
		s.logger.Warn(ctx, "initial refresh not queued", logger.Error(err))
	}

	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("refreshInterval", s.refreshInterval),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoring service...")

	if s.scheduler != nil {
		s.scheduler.Stop()
		s.scheduler = nil
	}
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
		}
	}
	s.cancel()

	if err := s.source.Close(); err != nil {
		s.logger.Warn(ctx, "closing source", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
}

// Refresh loads both tables, scores them and publishes the result. Runs are
// serialized; a failed run leaves the previous result in place.
func (s *Service) Refresh(ctx context.Context, reason string) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	runID := uuid.NewString()
	log := s.log().Named("refresh")

	run, err := s.run(ctx, runID, start)
	latency := float64(time.Since(start).Milliseconds())

	s.statsMu.Lock()
	s.runs++
	if err != nil {
		s.failures++
		s.lastErr = err
	} else {
		s.lastErr = nil
		s.lastRunAt = run.GeneratedAt
	}
	s.statsMu.Unlock()

	if err != nil {
		metrics.RecordPipelineRun(metrics.RunStatusFailed, latency)
		metrics.RecordErrorByComponent("pipeline", "run_failed")
		log.Error(ctx, "refresh failed",
			logger.String("run_id", runID),
			logger.String("reason", reason),
			logger.Error(err),
		)
		return err
	}

	stats := run.Tables.Stats
	metrics.RecordPipelineRun(metrics.RunStatusSuccess, latency)
	metrics.UpdateRunSize(stats.Submissions, stats.Selected)
	metrics.RecordDroppedEntries("row", stats.DroppedRows)
	metrics.RecordDroppedEntries("late", stats.Late)
	metrics.RecordDroppedEntries("malformed", stats.Malformed)
	metrics.RecordDroppedEntries("out_of_range", stats.OutOfRange)
	metrics.RecordDroppedEntries("unknown_game", stats.UnknownGame)
	metrics.RecordDuplicateWeights(stats.Duplicates)
	metrics.UpdateScoreboard(stats.Players, stats.Complete)
	metrics.UpdateLastRun(run.GeneratedAt.Unix())

	log.Info(ctx, "refresh finished",
		logger.String("run_id", runID),
		logger.String("reason", reason),
		logger.Int("players", stats.Players),
		logger.Int("games_complete", stats.Complete),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *Service) run(ctx context.Context, runID string, at time.Time) (repository.Run, error) {
	if s.source == nil {
		return repository.Run{}, ErrNoSource
	}
	snap, err := s.source.Load(ctx)
	if err != nil {
		return repository.Run{}, fmt.Errorf("load inputs: %w", err)
	}
	res, err := pipeline.Run(ctx, snap.Input(), s.pipelineOpts...)
	if err != nil {
		return repository.Run{}, fmt.Errorf("score round-set: %w", err)
	}
	run := repository.Run{ID: runID, GeneratedAt: at.UTC(), Tables: report.Build(res)}
	if err := s.store.Replace(ctx, run); err != nil {
		return repository.Run{}, fmt.Errorf("publish run: %w", err)
	}
	return run, nil
}

// RequestRefresh queues an asynchronous refresh and returns its request ID.
// Returns refreshqueue.ErrFull when too many refreshes are pending.
func (s *Service) RequestRefresh(ctx context.Context, reason string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return "", ErrNotStarted
	}
	return s.enqueue(ctx, reason)
}

func (s *Service) enqueue(ctx context.Context, reason string) (string, error) {
	req := model.RefreshRequest{ID: uuid.NewString(), Reason: reason, RequestedAt: time.Now()}
	if err := s.queue.Enqueue(ctx, req); err != nil {
		return "", err
	}
	return req.ID, nil
}

// Snapshot returns the latest published run.
func (s *Service) Snapshot(ctx context.Context) (repository.Run, error) {
	return s.store.Snapshot(ctx)
}

// Games returns the game results table of the latest run.
func (s *Service) Games(ctx context.Context) ([]types.GameResult, error) {
	run, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return run.Tables.Games, nil
}

// Picks returns the picks grid of the latest run.
func (s *Service) Picks(ctx context.Context) (types.PicksGrid, error) {
	run, err := s.store.Snapshot(ctx)
	if err != nil {
		return types.PicksGrid{}, err
	}
	return run.Tables.Picks, nil
}

// RunStats returns the counters of the latest run.
func (s *Service) RunStats(ctx context.Context) (types.RunStats, error) {
	run, err := s.store.Snapshot(ctx)
	if err != nil {
		return types.RunStats{}, err
	}
	return run.Tables.Stats, nil
}

// TopN returns the top N scoreboard rows.
func (s *Service) TopN(ctx context.Context, n int) ([]types.ScoreboardRow, error) {
	return s.store.TopN(ctx, n)
}

// Rank returns the scoreboard row for a player.
func (s *Service) Rank(ctx context.Context, player string) (types.ScoreboardRow, error) {
	return s.store.Rank(ctx, player)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"refreshInterval": s.refreshInterval.String(),
		"players":         s.store.Count(ctx),
	}

	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
	}

	s.statsMu.Lock()
	stats["runs"] = s.runs
	stats["failedRuns"] = s.failures
	if !s.lastRunAt.IsZero() {
		stats["lastRunAt"] = s.lastRunAt.Format(time.RFC3339)
	}
	if s.lastErr != nil {
		stats["lastError"] = s.lastErr.Error()
	}
	s.statsMu.Unlock()

	if run, err := s.store.Snapshot(ctx); err == nil {
		stats["runId"] = run.ID
	}
	return stats
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get().Named("service")
	}
	return s.logger
}
