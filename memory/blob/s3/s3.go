// Package s3 provides a memory.BlobStore over any S3-compatible object
// store (AWS S3, MinIO, GCS interop) using the MinIO client.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds connection settings for the object store.
type Config struct {
	// Endpoint is the host:port of the S3-compatible service.
	Endpoint string

	// AccessKey and SecretKey authenticate the client.
	AccessKey string
	SecretKey string

	// Bucket is the bucket all memory blobs live in. Paths passed to
	// the store become object keys within it.
	Bucket string

	// Secure enables TLS.
	Secure bool
}

// Store implements memory.BlobStore on top of an S3 bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// New connects to the object store. The bucket must already exist;
// creating it is a deployment concern, not a runtime one.
func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Download fetches the object at path. A missing object surfaces as an
// error here; the memory store maps any download failure to "no history
// yet".
func (s *Store) Download(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", path, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", path, err)
	}

	return data, nil
}

// Upload overwrites the object at path. Last write wins.
func (s *Store) Upload(ctx context.Context, path string, data []byte) error {
	_, err := s.client.PutObject(
		ctx, s.bucket, path,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("put object %s: %w", path, err)
	}

	log.Printf("[S3] Uploaded %s (%d bytes)", path, len(data))
	return nil
}

// Delete removes the object at path. S3 delete of a missing key
// succeeds, which matches the store's no-op contract.
func (s *Store) Delete(ctx context.Context, path string) error {
	err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("remove object %s: %w", path, err)
	}

	return nil
}
