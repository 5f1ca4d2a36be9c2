// Package storage keeps backup archives in an object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrUnavailable is returned when objects cannot be read back because no
// store is configured.
var ErrUnavailable = errors.New("object storage is not configured")

// LocalPrefix marks paths recorded while object storage was disabled.
const LocalPrefix = "local:"

// ObjectStore 백업 파일 저장소
type ObjectStore interface {
	// Put stores the object and returns the recorded path.
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}

// MinIOStore is an ObjectStore on a single bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore connects and creates the bucket if it does not exist.
func NewMinIOStore(ctx context.Context, cfg config.MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &MinIOStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinIOStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return name, nil
}

func (s *MinIOStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	if strings.HasPrefix(path, LocalPrefix) {
		return nil, ErrUnavailable
	}
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	// GetObject is lazy; Stat surfaces a missing key.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	return obj, nil
}

func (s *MinIOStore) Remove(ctx context.Context, path string) error {
	if strings.HasPrefix(path, LocalPrefix) {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Disabled records a pseudo path and keeps nothing.
type Disabled struct{}

func (Disabled) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return LocalPrefix + name, nil
}

func (Disabled) Get(context.Context, string) (io.ReadCloser, error) { return nil, ErrUnavailable }

func (Disabled) Remove(context.Context, string) error { return nil }
