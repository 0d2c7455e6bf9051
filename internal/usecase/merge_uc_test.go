package usecase

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"ad-video-pipeline/internal/domain/model"
)

func seedMergeInputs(t *testing.T, store *memObjectStore) (video, audio model.Artifact) {
	t.Helper()
	ctx := context.Background()
	video = model.Artifact{Bucket: testBucket, Key: "generated_videos/video_abc/output.mp4"}
	audio = model.Artifact{Bucket: testBucket, Key: "generated_audio/voiceover_abc.mp3"}
	if err := store.Put(ctx, video, []byte("video-bytes"), "video/mp4"); err != nil {
		t.Fatalf("seed video: %v", err)
	}
	if err := store.Put(ctx, audio, []byte("audio-bytes"), "audio/mpeg"); err != nil {
		t.Fatalf("seed audio: %v", err)
	}
	return video, audio
}

// tempEntries returns the admerge work dirs left under parent.
func tempEntries(t *testing.T, parent string) []string {
	t.Helper()
	entries, err := os.ReadDir(parent)
	if err != nil {
		t.Fatalf("read temp parent: %v", err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "admerge-") {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestMerge_UploadsFinalVideo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	video, audio := seedMergeInputs(t, store)

	uc := NewMergeUseCase(store, &fakeMuxer{}, testBucket, testLogger())
	uc.tmpDir = t.TempDir()

	art, err := uc.Merge(ctx, video, audio)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !strings.HasPrefix(art.Key, "final_videos/ad_") || !strings.HasSuffix(art.Key, ".mp4") {
		t.Fatalf("unexpected key layout: %q", art.Key)
	}
	if ct := store.contentType(art); ct != "video/mp4" {
		t.Fatalf("expected video/mp4 content type, got %q", ct)
	}
	body, err := store.Get(ctx, art)
	if err != nil {
		t.Fatalf("final video missing: %v", err)
	}
	if !bytes.Equal(body, []byte("muxed")) {
		t.Fatalf("final body mismatch: %q", body)
	}
	if left := tempEntries(t, uc.tmpDir); len(left) != 0 {
		t.Fatalf("temp dirs left behind after success: %v", left)
	}
}

func TestMerge_MuxerSeesDownloadedInputs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	video, audio := seedMergeInputs(t, store)

	muxer := &fakeMuxer{}
	muxer.MuxFunc = func(ctx context.Context, videoPath, audioPath, outPath string) error {
		for path, want := range map[string]string{videoPath: "video-bytes", audioPath: "audio-bytes"} {
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if string(b) != want {
				return errors.New("input mismatch: " + path)
			}
		}
		return os.WriteFile(outPath, []byte("muxed"), 0o644)
	}

	uc := NewMergeUseCase(store, muxer, testBucket, testLogger())
	uc.tmpDir = t.TempDir()
	if _, err := uc.Merge(ctx, video, audio); err != nil {
		t.Fatalf("Merge: %v", err)
	}
}

func TestMerge_CleansUpOnMuxFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	video, audio := seedMergeInputs(t, store)

	muxer := &fakeMuxer{MuxFunc: func(ctx context.Context, videoPath, audioPath, outPath string) error {
		return errors.New("ffmpeg exit 1")
	}}
	uc := NewMergeUseCase(store, muxer, testBucket, testLogger())
	uc.tmpDir = t.TempDir()

	if _, err := uc.Merge(ctx, video, audio); err == nil {
		t.Fatal("expected mux failure")
	}
	if left := tempEntries(t, uc.tmpDir); len(left) != 0 {
		t.Fatalf("temp dirs left behind after failure: %v", left)
	}
	for _, k := range store.allKeys() {
		if strings.Contains(k, "final_videos/") {
			t.Fatalf("no final video should be uploaded on failure, found %q", k)
		}
	}
}

func TestMerge_CleansUpOnDownloadFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	_, audio := seedMergeInputs(t, store)
	missing := model.Artifact{Bucket: testBucket, Key: "generated_videos/video_gone/output.mp4"}

	uc := NewMergeUseCase(store, &fakeMuxer{}, testBucket, testLogger())
	uc.tmpDir = t.TempDir()

	if _, err := uc.Merge(ctx, missing, audio); err == nil {
		t.Fatal("expected download failure")
	}
	if left := tempEntries(t, uc.tmpDir); len(left) != 0 {
		t.Fatalf("temp dirs left behind after failure: %v", left)
	}
}
