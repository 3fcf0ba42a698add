package report

import (
	"bytes"
	"context"
	"path"
	"strings"
	"sync"

	"github.com/jmgilman/go/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Publisher uploads finished artifacts.
type Publisher interface {
	Publish(ctx context.Context, name string, data []byte, contentType string) error
}

// MinIOConfig configures a MinIOPublisher.
type MinIOConfig struct {
	// Endpoint is host[:port] of the S3-compatible service.
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool

	// Bucket receives the artifacts. It is created if missing.
	Bucket string

	// Prefix is prepended to every object key.
	Prefix string

	// Client, if set, is used instead of building one from the fields above.
	Client *minio.Client
}

// MinIOPublisher uploads artifacts to an S3-compatible bucket.
type MinIOPublisher struct {
	client *minio.Client
	bucket string
	prefix string

	bucketOnce sync.Once
	bucketErr  error
}

// NewMinIOPublisher creates a publisher.
func NewMinIOPublisher(cfg MinIOConfig) (*MinIOPublisher, error) {
	if cfg.Bucket == "" {
		err := errors.New(errors.CodeInvalidConfig, "bucket is required")
		return nil, errors.WithContext(err, "field", "bucket")
	}

	client := cfg.Client
	if client == nil {
		if cfg.Endpoint == "" {
			err := errors.New(errors.CodeInvalidConfig, "endpoint is required")
			return nil, errors.WithContext(err, "field", "endpoint")
		}

		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "failed to create minio client"),
				"endpoint", cfg.Endpoint,
			)
		}
	}

	return &MinIOPublisher{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// Key returns the object key used for an artifact.
func (p *MinIOPublisher) Key(name string) string {
	name = strings.TrimLeft(path.Clean("/"+name), "/")
	if p.prefix == "" {
		return name
	}
	return p.prefix + "/" + name
}

// Publish implements Publisher.
func (p *MinIOPublisher) Publish(ctx context.Context, name string, data []byte, contentType string) error {
	p.bucketOnce.Do(func() {
		p.bucketErr = p.ensureBucket(ctx)
	})
	if p.bucketErr != nil {
		return p.bucketErr
	}

	key := p.Key(name)
	_, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodePublishFailed, "failed to upload artifact")
		wrapped = errors.WithContext(wrapped, "bucket", p.bucket)
		return errors.WithContext(wrapped, "key", key)
	}

	return nil
}

func (p *MinIOPublisher) ensureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return errors.WithContext(
			errors.Wrap(err, errors.CodeNetwork, "failed to check bucket"),
			"bucket", p.bucket,
		)
	}
	if exists {
		return nil
	}

	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.WithContext(
			errors.Wrap(err, errors.CodePublishFailed, "failed to create bucket"),
			"bucket", p.bucket,
		)
	}
	return nil
}
