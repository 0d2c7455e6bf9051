package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"ad-video-pipeline/internal/domain"
	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/repository"
)

var _ repository.RunRepository = (*RunRepo)(nil)

// RunRepo keeps pipeline run records in Redis so status survives process
// restarts and is visible across replicas. Records expire after ttl; the
// bucket still holds the artifacts themselves.
type RunRepo struct {
	client Client
	ttl    time.Duration
}

func NewRunRepo(client Client, ttl time.Duration) *RunRepo {
	return &RunRepo{client: client, ttl: ttl}
}

func runKey(id string) string {
	return fmt.Sprintf("run:%s", id)
}

func (r *RunRepo) Save(ctx context.Context, run *model.PipelineRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, runKey(run.ID), data, r.ttl)
}

func (r *RunRepo) Find(ctx context.Context, id string) (*model.PipelineRun, error) {
	data, err := r.client.Get(ctx, runKey(id))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrRunNotFound
		}
		return nil, err
	}
	var run model.PipelineRun
	if err := json.Unmarshal([]byte(data), &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepo) List(ctx context.Context) ([]*model.PipelineRun, error) {
	keys, err := r.client.Keys(ctx, runKey("*"))
	if err != nil {
		return nil, err
	}
	runs := make([]*model.PipelineRun, 0, len(keys))
	for _, key := range keys {
		data, err := r.client.Get(ctx, key)
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				// expired between Keys and Get
				continue
			}
			return nil, err
		}
		var run model.PipelineRun
		if err := json.Unmarshal([]byte(data), &run); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs, nil
}
