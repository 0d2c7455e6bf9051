package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"ad-video-pipeline/internal/domain/model"
)

func TestImage_ProduceStoresPNG(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemObjectStore()
	gen := &stubImageGen{image: []byte("fake-png")}
	uc := NewImageUseCase(gen, store, testBucket, testLogger())

	art, err := uc.Produce(ctx, "a glossy product shot")
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if art.Bucket != testBucket {
		t.Fatalf("wrong bucket: %q", art.Bucket)
	}
	if !strings.HasPrefix(art.Key, "generated_images/ref_image_") || !strings.HasSuffix(art.Key, ".png") {
		t.Fatalf("unexpected key layout: %q", art.Key)
	}
	if ct := store.contentType(art); ct != "image/png" {
		t.Fatalf("expected image/png content type, got %q", ct)
	}
	body, err := store.Get(ctx, art)
	if err != nil {
		t.Fatalf("stored image missing: %v", err)
	}
	if !bytes.Equal(body, []byte("fake-png")) {
		t.Fatalf("stored body mismatch: %q", body)
	}
}

func TestImage_GeneratorFailureIsFatal(t *testing.T) {
	t.Parallel()

	store := newMemObjectStore()
	gen := &stubImageGen{err: errors.New("model throttled")}
	uc := NewImageUseCase(gen, store, testBucket, testLogger())

	art, err := uc.Produce(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error from failed generation")
	}
	if !art.IsZero() {
		t.Fatalf("expected zero artifact, got %+v", art)
	}
	if keys := store.allKeys(); len(keys) != 0 {
		t.Fatalf("nothing should be stored on failure, got %v", keys)
	}
}

func TestImage_UploadFailureIsFatal(t *testing.T) {
	t.Parallel()

	store := newMemObjectStore()
	store.PutFunc = func(ctx context.Context, art model.Artifact, body []byte, contentType string) error {
		return errors.New("bucket gone")
	}
	gen := &stubImageGen{image: []byte("fake-png")}
	uc := NewImageUseCase(gen, store, testBucket, testLogger())

	if _, err := uc.Produce(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error from failed upload")
	}
}
