package repository

import (
	"context"

	"ad-video-pipeline/internal/domain/model"
)

// RunRepository stores pipeline run records for the serving front-end.
// Implementations: in-memory (single process) and Redis (shared across
// replicas). The storage bucket remains the system of record for the
// artifacts themselves; run records are ephemeral status.
type RunRepository interface {
	Save(ctx context.Context, run *model.PipelineRun) error
	Find(ctx context.Context, id string) (*model.PipelineRun, error)
	List(ctx context.Context) ([]*model.PipelineRun, error)
}
