// Package minio provides a MinIO implementation of filestore.Store.
package minio

import (
	"context"
	"io"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tordrt/schemadoc/internal/errs"
	"github.com/tordrt/schemadoc/internal/filestore"
)

// Driver is a MinIO implementation of filestore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
}

// New connects to MinIO using cfg and checks that cfg.Bucket exists.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	d := &Driver{client: client}

	if err := d.checkBucket(ctx, cfg.Bucket); err != nil {
		return nil, err
	}

	return d, nil
}

// Ping verifies the MinIO server is reachable by listing buckets.
func (d *Driver) Ping(ctx context.Context) error {
	if _, err := d.client.ListBuckets(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close is a no-op, the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// Put uploads r to key inside bucket.
func (d *Driver) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	if key == "" {
		return errs.InvalidInput("object key is required")
	}
	_, err := d.client.PutObject(ctx, bucket, key, r, size, miniogo.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return mapError(err, "failed to upload "+key)
	}
	return nil
}

func (d *Driver) checkBucket(ctx context.Context, bucket string) error {
	ok, err := d.client.BucketExists(ctx, bucket)
	if err != nil {
		return mapError(err, "failed to check bucket")
	}
	if !ok {
		return errs.New(errs.ErrKindNotFound, "bucket "+bucket+" does not exist")
	}
	return nil
}
