package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"ad-video-pipeline/internal/domain"
	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/repository"
	"ad-video-pipeline/internal/infra/logging"
	"ad-video-pipeline/internal/infra/worker"
)

// TaskQueue is the slice of the worker pool the run service needs.
type TaskQueue interface {
	Submit(task worker.Task) error
}

// RunService tracks pipeline runs for the serving front-end: it records a
// run, hands the execution to the worker pool, and keeps the record
// updated as stages progress. Execution gets a deadline so a stuck run
// cannot hold a worker slot forever.
type RunService struct {
	pipeline *PipelineUseCase
	repo     repository.RunRepository
	queue    TaskQueue
	timeout  time.Duration
	log      *zerolog.Logger

	now func() time.Time
}

func NewRunService(pipeline *PipelineUseCase, repo repository.RunRepository, queue TaskQueue, timeout time.Duration, logger *zerolog.Logger) *RunService {
	l := logger.With().Str("component", "RunService").Logger()
	return &RunService{
		pipeline: pipeline,
		repo:     repo,
		queue:    queue,
		timeout:  timeout,
		log:      &l,
		now:      time.Now,
	}
}

// Submit records a new pending run and queues its execution. The
// returned record reflects the pending state; callers poll Get for
// progress.
func (s *RunService) Submit(ctx context.Context, description string) (*model.PipelineRun, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: empty ad description", domain.ErrInvalidArgument)
	}

	now := s.now()
	run := &model.PipelineRun{
		ID:          ulid.Make().String(),
		Description: description,
		Status:      model.RunStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}

	id := run.ID
	if err := s.queue.Submit(func(taskCtx context.Context) error {
		s.execute(taskCtx, id, description)
		return nil
	}); err != nil {
		run.Status = model.RunStatusFailed
		run.Error = err.Error()
		run.UpdatedAt = s.now()
		if saveErr := s.repo.Save(ctx, run); saveErr != nil {
			s.log.Error().Err(saveErr).Str("run_id", id).Msg("failed to record rejected run")
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrRateLimited, err)
	}

	s.log.Info().Str("run_id", id).Msg("run queued")
	return run, nil
}

func (s *RunService) Get(ctx context.Context, id string) (*model.PipelineRun, error) {
	return s.repo.Find(ctx, id)
}

func (s *RunService) List(ctx context.Context) ([]*model.PipelineRun, error) {
	return s.repo.List(ctx)
}

func (s *RunService) execute(ctx context.Context, id, description string) {
	runCtx, cancel := context.WithTimeout(logging.WithRunID(ctx, id), s.timeout)
	defer cancel()

	run, err := s.repo.Find(runCtx, id)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", id).Msg("queued run record missing")
		return
	}

	run.Status = model.RunStatusRunning
	s.save(runCtx, run)

	result, runErr := s.pipeline.Run(runCtx, description, func(stage string, partial model.PipelineResult) {
		run.Stage = stage
		run.Result = partial
		s.save(runCtx, run)
	})

	run.Result = result
	if runErr != nil {
		run.Status = model.RunStatusFailed
		run.Error = runErr.Error()
	} else {
		run.Status = model.RunStatusCompleted
		run.Stage = ""
	}
	s.save(runCtx, run)
}

// save uses a detached context so terminal states still get recorded
// after the run deadline fires.
func (s *RunService) save(ctx context.Context, run *model.PipelineRun) {
	run.UpdatedAt = s.now()
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.repo.Save(saveCtx, run); err != nil {
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("failed to save run record")
	}
}
