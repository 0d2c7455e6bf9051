package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/adapter"
)

// MergeUseCase downloads the video and audio artifacts, muxes them into
// one file, and uploads the result. All local temporaries live in one
// per-invocation directory that is removed on every exit path, success
// or failure.
type MergeUseCase struct {
	store  adapter.ObjectStore
	muxer  adapter.Muxer
	bucket string
	// tmpDir overrides the parent of per-invocation temp dirs; empty
	// means the OS default.
	tmpDir string
	log    *zerolog.Logger
}

func NewMergeUseCase(store adapter.ObjectStore, muxer adapter.Muxer, bucket string, logger *zerolog.Logger) *MergeUseCase {
	l := logger.With().Str("component", "MergeUseCase").Logger()
	return &MergeUseCase{store: store, muxer: muxer, bucket: bucket, log: &l}
}

func (uc *MergeUseCase) Merge(ctx context.Context, video, audio model.Artifact) (model.Artifact, error) {
	work, err := os.MkdirTemp(uc.tmpDir, "admerge-*")
	if err != nil {
		return model.Artifact{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(work)

	videoPath := filepath.Join(work, "video.mp4")
	audioPath := filepath.Join(work, "audio.mp3")
	outPath := filepath.Join(work, "merged.mp4")

	if err := uc.store.DownloadTo(ctx, video, videoPath); err != nil {
		return model.Artifact{}, fmt.Errorf("download video: %w", err)
	}
	if err := uc.store.DownloadTo(ctx, audio, audioPath); err != nil {
		return model.Artifact{}, fmt.Errorf("download audio: %w", err)
	}

	if err := uc.muxer.Mux(ctx, videoPath, audioPath, outPath); err != nil {
		return model.Artifact{}, fmt.Errorf("mux: %w", err)
	}

	merged, err := os.ReadFile(outPath)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("read muxed output: %w", err)
	}

	art := model.Artifact{
		Bucket: uc.bucket,
		Key:    fmt.Sprintf("final_videos/ad_%s.mp4", uuid.NewString()),
	}
	if err := uc.store.Put(ctx, art, merged, "video/mp4"); err != nil {
		return model.Artifact{}, fmt.Errorf("upload final video: %w", err)
	}
	uc.log.Info().Str("artifact", art.URI()).Int("bytes", len(merged)).Msg("final video stored")
	return art, nil
}
