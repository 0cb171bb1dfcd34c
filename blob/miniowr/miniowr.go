// Package miniowr provides the MinIO implementation of the blob.Store contract.
package miniowr

import (
	"context"
	"io"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/guapman/storage-service/blob"
)

const (
	// partSize is the multipart chunk size used for writes of unknown length.
	partSize = 10 * 1024 * 1024

	codeNoSuchKey = "NoSuchKey"
)

// Client implements blob.Store on top of a MinIO bucket.
type Client struct {
	client *minio.Client
	bucket string
}

// New creates a MinIO-backed blob store client. It does not touch the
// bucket; call EnsureBucket during startup.
func New(cfg Config) (*Client, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &Client{
		client: cli,
		bucket: cfg.Bucket,
	}, nil
}

// EnsureBucket checks that the configured bucket exists and creates it when
// missing. The check is retried with a delay so the service can start while
// the backend is still coming up.
func (c *Client) EnsureBucket(ctx context.Context, cfg Config) error {
	err := retry.Do(
		func() error {
			exists, err := c.client.BucketExists(ctx, c.bucket)
			if err != nil {
				return err
			}
			if !exists {
				return c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
			}
			return nil
		},
		retry.Attempts(uint(cfg.EnsureRetries)),
		retry.Delay(cfg.EnsureRetryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(errx.D{"bucket": c.bucket}))
	}
	return nil
}

// Put streams r into the object under key using a multipart write with
// unknown total length.
func (c *Client) Put(ctx context.Context, key string, r io.Reader) error {
	_, err := c.client.PutObject(ctx, c.bucket, key, r, -1, minio.PutObjectOptions{
		PartSize: partSize,
	})
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(errx.D{"key": key}))
	}
	return nil
}

// Open returns a read stream over the object under key together with its
// stat info. Stat is forced up front so a missing object surfaces here
// instead of on the first read.
func (c *Client) Open(ctx context.Context, key string) (io.ReadCloser, blob.Info, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, blob.Info{}, errx.Wrap(err, errx.WithDetails(errx.D{"key": key}))
	}

	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, blob.Info{}, wrapMinioError(err, key)
	}

	return obj, blob.Info{
		Key:          key,
		Size:         stat.Size,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}, nil
}

// Remove deletes the object under key. Removing a missing object is not an
// error on the MinIO side and is not treated as one here.
func (c *Client) Remove(ctx context.Context, key string) error {
	err := c.client.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return wrapMinioError(err, key)
	}
	return nil
}

// wrapMinioError converts MinIO errors to blob error codes.
func wrapMinioError(err error, key string) error {
	errResp := minio.ToErrorResponse(err)
	if errResp.Code == codeNoSuchKey {
		return errx.New(
			"object not found",
			errx.WithCode(blob.CodeObjectNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"key": key}),
		)
	}
	return errx.Wrap(err, errx.WithDetails(errx.D{"key": key}))
}
