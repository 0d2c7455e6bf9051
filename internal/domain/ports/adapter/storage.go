package adapter

import (
	"context"
	"time"

	"ad-video-pipeline/internal/domain/model"
)

// ObjectStore is the port for the object-storage service. The bucket is
// treated as an append-only namespace: every artifact is written under a
// freshly generated unique key, so concurrent runs never collide.
type ObjectStore interface {
	// EnsureBucket checks the bucket exists and creates it if absent.
	EnsureBucket(ctx context.Context, bucket string) error

	Put(ctx context.Context, art model.Artifact, body []byte, contentType string) error
	Get(ctx context.Context, art model.Artifact) ([]byte, error)

	// DownloadTo streams the object into a local file at path.
	DownloadTo(ctx context.Context, art model.Artifact, path string) error

	// List returns the keys under prefix, in storage order.
	List(ctx context.Context, bucket, prefix string) ([]string, error)

	// PresignGet returns a time-limited GET URL for the object, for
	// handing final videos to front-end clients.
	PresignGet(ctx context.Context, art model.Artifact, expiry time.Duration) (string, error)
}
