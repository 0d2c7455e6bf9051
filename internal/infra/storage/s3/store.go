// Package s3 implements the ObjectStore port against S3 (or any
// S3-compatible endpoint such as MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"ad-video-pipeline/internal/domain"
	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/adapter"
	"ad-video-pipeline/internal/infra/metrics"
)

var _ adapter.ObjectStore = (*Store)(nil)

type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	region  string
}

func NewStore(cfg aws.Config, region, endpoint string, usePathStyle bool) *Store {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = usePathStyle
	})
	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		region:  region,
	}
}

// EnsureBucket heads the bucket and creates it on a miss. us-east-1 must
// not send a LocationConstraint.
func (s *Store) EnsureBucket(ctx context.Context, bucket string) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		metrics.IncStorageOp("ensure_bucket", true)
		return nil
	}

	in := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if s.region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	_, err = s.client.CreateBucket(ctx, in)
	metrics.IncStorageOp("ensure_bucket", err == nil)
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, art model.Artifact, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(art.Bucket),
		Key:         aws.String(art.Key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	metrics.IncStorageOp("put", err == nil)
	if err != nil {
		return fmt.Errorf("put %s: %w", art.URI(), err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, art model.Artifact) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(art.Bucket),
		Key:    aws.String(art.Key),
	})
	metrics.IncStorageOp("get", err == nil)
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("get %s: %w", art.URI(), domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", art.URI(), err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *Store) DownloadTo(ctx context.Context, art model.Artifact, path string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(art.Bucket),
		Key:    aws.String(art.Key),
	})
	metrics.IncStorageOp("download", err == nil)
	if err != nil {
		return fmt.Errorf("get %s: %w", art.URI(), err)
	}
	defer out.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, out.Body); err != nil {
		return fmt.Errorf("download %s: %w", art.URI(), err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			metrics.IncStorageOp("list", false)
			return nil, fmt.Errorf("list s3://%s/%s: %w", bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	metrics.IncStorageOp("list", true)
	return keys, nil
}

func (s *Store) PresignGet(ctx context.Context, art model.Artifact, expiry time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(art.Bucket),
		Key:    aws.String(art.Key),
	}, s3.WithPresignExpires(expiry))
	metrics.IncStorageOp("presign", err == nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", art.URI(), err)
	}
	return req.URL, nil
}
