package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"ad-video-pipeline/internal/domain"
	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/adapter"
)

const testBucket = "test-bucket"

func testVideoJobConfig() VideoJobConfig {
	return VideoJobConfig{
		DurationSeconds: 6,
		FPS:             24,
		Dimension:       "1280x720",
		MaxPromptChars:  512,
		PollInterval:    15 * time.Second,
		PollCeiling:     10 * time.Minute,
	}
}

// seedRefImage stores a reference image and returns its artifact.
func seedRefImage(t *testing.T, store *memObjectStore) model.Artifact {
	t.Helper()
	art := model.Artifact{Bucket: testBucket, Key: "generated_images/ref_image_test.png"}
	if err := store.Put(context.Background(), art, []byte("png-bytes"), "image/png"); err != nil {
		t.Fatalf("seed image: %v", err)
	}
	return art
}

func newTestVideoJobUC(gen *scriptedVideoGen, store *memObjectStore) *VideoJobUseCase {
	uc := NewVideoJobUseCase(gen, store, testBucket, testVideoJobConfig(), testLogger())
	uc.sleep = noSleep
	return uc
}

func TestVideoJob_PromptClipping(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	ref := seedRefImage(t, store)

	gen := &scriptedVideoGen{polls: []pollResult{withStatus(model.JobStatusFailed)}}
	uc := newTestVideoJobUC(gen, store)

	long := strings.Repeat("x", 1000)
	_, _ = uc.Run(ctx, long, ref)
	if got := len(gen.lastSubmitted().Prompt); got != 512 {
		t.Fatalf("expected prompt clipped to 512 chars, got %d", got)
	}

	short := "a short prompt"
	_, _ = uc.Run(ctx, short, ref)
	if got := gen.lastSubmitted().Prompt; got != short {
		t.Fatalf("short prompt altered: %q", got)
	}

	// The limit counts characters: a multi-byte prompt keeps 512 runes
	// and is never cut mid-rune.
	wide := strings.Repeat("日", 600)
	_, _ = uc.Run(ctx, wide, ref)
	clipped := gen.lastSubmitted().Prompt
	if got := utf8.RuneCountInString(clipped); got != 512 {
		t.Fatalf("expected 512 runes after clipping, got %d", got)
	}
	if !utf8.ValidString(clipped) {
		t.Fatalf("clipped prompt is not valid UTF-8")
	}
}

func TestVideoJob_SubmitCarriesFixedParams(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	ref := seedRefImage(t, store)
	gen := &scriptedVideoGen{polls: []pollResult{withStatus(model.JobStatusFailed)}}
	uc := newTestVideoJobUC(gen, store)

	_, _ = uc.Run(ctx, "prompt", ref)
	spec := gen.lastSubmitted()
	if spec.DurationSeconds != 6 || spec.FPS != 24 || spec.Dimension != "1280x720" {
		t.Fatalf("unexpected job params: %+v", spec)
	}
	if string(spec.ReferenceImage) != "png-bytes" {
		t.Fatalf("reference image bytes not passed through")
	}
	if spec.OutputPrefix.Bucket != testBucket || !strings.HasPrefix(spec.OutputPrefix.Key, "generated_videos/") {
		t.Fatalf("unexpected output prefix: %+v", spec.OutputPrefix)
	}
}

func TestVideoJob_PollsUntilCompleted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	ref := seedRefImage(t, store)

	gen := &scriptedVideoGen{polls: []pollResult{
		withStatus(model.JobStatusSubmitted),
		inProgress(),
		inProgress(),
		withStatus(model.JobStatusCompleted),
	}}
	// Drop the finished video into the job's output prefix on submission,
	// the way the remote service does.
	gen.SubmitFunc = func(ctx context.Context, spec adapter.VideoJobSpec) (string, error) {
		out := model.Artifact{Bucket: spec.OutputPrefix.Bucket, Key: spec.OutputPrefix.Key + "/output.mp4"}
		if err := store.Put(ctx, out, []byte("mp4"), "video/mp4"); err != nil {
			return "", err
		}
		return "invocation-1", nil
	}
	uc := newTestVideoJobUC(gen, store)

	art, err := uc.Run(ctx, "prompt", ref)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.HasSuffix(art.Key, ".mp4") {
		t.Fatalf("expected an mp4 artifact, got %q", art.Key)
	}
	if gen.pollCalls != 4 {
		t.Fatalf("expected exactly 4 status queries, got %d", gen.pollCalls)
	}
}

func TestVideoJob_TimeoutIsDistinctFromFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	ref := seedRefImage(t, store)
	gen := &scriptedVideoGen{polls: []pollResult{inProgress()}}
	uc := newTestVideoJobUC(gen, store)

	_, err := uc.Run(ctx, "prompt", ref)
	if !errors.Is(err, domain.ErrJobTimedOut) {
		t.Fatalf("expected ErrJobTimedOut, got %v", err)
	}
	if errors.Is(err, domain.ErrJobFailed) {
		t.Fatalf("timeout must not be reported as job failure")
	}
	// 10 min ceiling at 15s cadence = 40 polls.
	if gen.pollCalls != 40 {
		t.Fatalf("expected 40 polls before the ceiling, got %d", gen.pollCalls)
	}
}

func TestVideoJob_CompletedWithoutOutputIsIntegrityError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	ref := seedRefImage(t, store)
	gen := &scriptedVideoGen{polls: []pollResult{withStatus(model.JobStatusCompleted)}}
	uc := newTestVideoJobUC(gen, store)

	_, err := uc.Run(ctx, "prompt", ref)
	if !errors.Is(err, domain.ErrOutputMissing) {
		t.Fatalf("expected ErrOutputMissing, got %v", err)
	}
}

func TestVideoJob_FailedStatusCarriesMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	ref := seedRefImage(t, store)
	gen := &scriptedVideoGen{polls: []pollResult{
		{state: adapter.JobState{Status: model.JobStatusFailed, FailureMessage: "content policy violation"}},
	}}
	uc := newTestVideoJobUC(gen, store)

	_, err := uc.Run(ctx, "prompt", ref)
	if !errors.Is(err, domain.ErrJobFailed) {
		t.Fatalf("expected ErrJobFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "content policy violation") {
		t.Fatalf("failure message lost: %v", err)
	}
}

func TestVideoJob_TransientPollErrorsAreRetried(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	ref := seedRefImage(t, store)

	gen := &scriptedVideoGen{polls: []pollResult{
		{err: errors.New("throttled")},
		{err: errors.New("connection reset")},
		withStatus(model.JobStatusCompleted),
	}}
	gen.SubmitFunc = func(ctx context.Context, spec adapter.VideoJobSpec) (string, error) {
		out := model.Artifact{Bucket: spec.OutputPrefix.Bucket, Key: spec.OutputPrefix.Key + "/output.mp4"}
		_ = store.Put(ctx, out, []byte("mp4"), "video/mp4")
		return "invocation-1", nil
	}
	uc := newTestVideoJobUC(gen, store)

	_, err := uc.Run(ctx, "prompt", ref)
	if err != nil {
		t.Fatalf("transient poll errors must not fail the job: %v", err)
	}
	if gen.pollCalls != 3 {
		t.Fatalf("expected 3 polls, got %d", gen.pollCalls)
	}
}

func TestVideoJob_UnknownStatusKeepsPolling(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	ref := seedRefImage(t, store)

	gen := &scriptedVideoGen{polls: []pollResult{
		withStatus(model.ParseJobStatus("Queued")),
		withStatus(model.JobStatusCompleted),
	}}
	gen.SubmitFunc = func(ctx context.Context, spec adapter.VideoJobSpec) (string, error) {
		out := model.Artifact{Bucket: spec.OutputPrefix.Bucket, Key: spec.OutputPrefix.Key + "/output.mp4"}
		_ = store.Put(ctx, out, []byte("mp4"), "video/mp4")
		return "invocation-1", nil
	}
	uc := newTestVideoJobUC(gen, store)

	if _, err := uc.Run(ctx, "prompt", ref); err != nil {
		t.Fatalf("unrecognized status must be treated as transient: %v", err)
	}
	if gen.pollCalls != 2 {
		t.Fatalf("expected 2 polls, got %d", gen.pollCalls)
	}
}
