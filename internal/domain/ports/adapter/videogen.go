package adapter

import (
	"context"

	"ad-video-pipeline/internal/domain/model"
)

// VideoJobSpec is the submission payload for one asynchronous
// video-generation job.
type VideoJobSpec struct {
	// Prompt must already be clipped to the endpoint's limit.
	Prompt string
	// ReferenceImage is the raw PNG the video is seeded with.
	ReferenceImage  []byte
	DurationSeconds int
	FPS             int
	// Dimension is "WIDTHxHEIGHT", e.g. "1280x720".
	Dimension string
	Seed      int64
	// OutputPrefix is the storage prefix the service writes the finished
	// video into.
	OutputPrefix model.Artifact
}

// JobState is one observation of a remote job.
type JobState struct {
	Status         model.JobStatus
	FailureMessage string
}

// VideoGenerator is the port for the asynchronous video-generation
// endpoint: submit once, then poll by invocation id.
type VideoGenerator interface {
	Submit(ctx context.Context, spec VideoJobSpec) (invocationID string, err error)
	Status(ctx context.Context, invocationID string) (JobState, error)
}
