package model

import (
	"fmt"
	"path"
	"strings"

	"ad-video-pipeline/internal/domain"
)

// Artifact locates one stored media object. Bucket and key are kept as
// distinct fields; the "s3://bucket/key" form is parsed exactly once at
// the boundary instead of being re-split at every call site.
type Artifact struct {
	Bucket string
	Key    string
}

// ParseArtifactURI parses an "s3://bucket/key" locator.
func ParseArtifactURI(uri string) (Artifact, error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %q: missing s3:// scheme", domain.ErrInvalidLocator, uri)
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return Artifact{}, fmt.Errorf("%w: %q: want s3://bucket/key", domain.ErrInvalidLocator, uri)
	}
	return Artifact{Bucket: bucket, Key: key}, nil
}

func (a Artifact) URI() string {
	return "s3://" + a.Bucket + "/" + a.Key
}

func (a Artifact) IsZero() bool {
	return a.Bucket == "" && a.Key == ""
}

// Ext returns the lowercase file extension of the key, including the dot.
func (a Artifact) Ext() string {
	return strings.ToLower(path.Ext(a.Key))
}
