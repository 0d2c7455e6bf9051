//go:build !integration

package runstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"ad-video-pipeline/internal/domain"
	"ad-video-pipeline/internal/domain/model"
)

func TestMemoryRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	t.Run("should report missing runs", func(t *testing.T) {
		if _, err := repo.Find(ctx, "nope"); !errors.Is(err, domain.ErrRunNotFound) {
			t.Fatalf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("should save and find a run", func(t *testing.T) {
		run := &model.PipelineRun{
			ID:          "r1",
			Description: "desc",
			Status:      model.RunStatusPending,
			CreatedAt:   time.Now(),
		}
		if err := repo.Save(ctx, run); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := repo.Find(ctx, "r1")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got.Description != "desc" || got.Status != model.RunStatusPending {
			t.Fatalf("unexpected run: %+v", got)
		}
	})

	t.Run("finds are copies, not aliases", func(t *testing.T) {
		got, err := repo.Find(ctx, "r1")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		got.Status = model.RunStatusFailed

		again, err := repo.Find(ctx, "r1")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if again.Status != model.RunStatusPending {
			t.Fatal("mutating a Find result must not change the stored record")
		}
	})

	t.Run("save overwrites by ID", func(t *testing.T) {
		run, _ := repo.Find(ctx, "r1")
		run.Status = model.RunStatusCompleted
		if err := repo.Save(ctx, run); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, _ := repo.Find(ctx, "r1")
		if got.Status != model.RunStatusCompleted {
			t.Fatalf("expected overwrite, got %+v", got)
		}
	})

	t.Run("list is newest first", func(t *testing.T) {
		now := time.Now()
		for i, id := range []string{"old", "mid", "new"} {
			_ = repo.Save(ctx, &model.PipelineRun{
				ID:        id,
				Status:    model.RunStatusPending,
				CreatedAt: now.Add(time.Duration(i) * time.Minute),
			})
		}
		runs, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(runs) != 4 {
			t.Fatalf("expected 4 runs, got %d", len(runs))
		}
		if runs[0].ID != "new" {
			t.Fatalf("expected newest run first, got %s", runs[0].ID)
		}
	})
}
