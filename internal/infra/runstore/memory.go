package runstore

import (
	"context"
	"sort"
	"sync"

	"ad-video-pipeline/internal/domain"
	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/repository"
)

var _ repository.RunRepository = (*MemoryRepo)(nil)

// MemoryRepo keeps run records in process memory. It is the default when
// no Redis is configured; records do not survive a restart, which is
// acceptable because the bucket holds the artifacts themselves.
type MemoryRepo struct {
	mu   sync.RWMutex
	runs map[string]model.PipelineRun
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{runs: make(map[string]model.PipelineRun)}
}

func (r *MemoryRepo) Save(ctx context.Context, run *model.PipelineRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = *run
	return nil
}

func (r *MemoryRepo) Find(ctx context.Context, id string) (*model.PipelineRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return &run, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]*model.PipelineRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	runs := make([]*model.PipelineRun, 0, len(r.runs))
	for id := range r.runs {
		run := r.runs[id]
		runs = append(runs, &run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs, nil
}
