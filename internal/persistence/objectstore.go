package persistence

import (
	"context"
	"errors"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
)

// ObjectStore wraps the minio client used for attachment bytes.
type ObjectStore struct {
	client *minio.Client
	bucket string
	region string
}

// NewObjectStore connects to the S3-compatible store and ensures the
// attachment bucket exists.
func NewObjectStore(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	store := &ObjectStore{client: client, bucket: cfg.BucketName, region: cfg.Region}
	if err := store.ensureBucket(ctx); err != nil {
		logger.Warn("unable to ensure attachment bucket", zap.Error(err))
	} else {
		logger.Info("connected to object store", zap.String("bucket", cfg.BucketName))
	}
	return store, nil
}

func (s *ObjectStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
}

// Put streams an object into the attachment bucket under key.
func (s *ObjectStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if s == nil || s.client == nil {
		return errors.New("object store not configured")
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Get opens the object stored under key.
func (s *ObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("object store not configured")
	}
	return s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
}

// Ping verifies object store connectivity.
func (s *ObjectStore) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errors.New("object store not configured")
	}
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
