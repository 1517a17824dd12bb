// Package minio publishes exported matrices to, and fetches precomputed ones
// from, an S3-compatible bucket.
package minio

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/songpeng/inferBind/internal/infrastructure/monitoring/logging"
	"github.com/songpeng/inferBind/pkg/errors"
)

// ObjectAPI is the subset of *minio.Client the artifact store uses.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error
}

// MinIOConfig holds connection parameters.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Region          string
	Bucket          string
	// Prefix is prepended to every object name.
	Prefix string
}

func applyDefaults(cfg *MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "gift"
	}
}

// NewMinIOClient dials the endpoint.  minio.New does not contact the server;
// the first request does.
func NewMinIOClient(cfg MinIOConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New(errors.ErrCodeArtifactStore, "artifact store endpoint is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArtifactStore, "failed to create minio client")
	}
	return client, nil
}

// NewArtifactStore connects to the configured endpoint.
func NewArtifactStore(cfg MinIOConfig, log logging.Logger) (*ArtifactStore, error) {
	client, err := NewMinIOClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewArtifactStoreWithClient(client, cfg, log)
}

// NewArtifactStoreWithClient wraps an existing client.
func NewArtifactStoreWithClient(api ObjectAPI, cfg MinIOConfig, log logging.Logger) (*ArtifactStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New(errors.ErrCodeArtifactStore, "artifact store bucket is required")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	applyDefaults(&cfg)
	return &ArtifactStore{
		api:    api,
		config: cfg,
		logger: log.Named("artifacts").With(logging.String("bucket", cfg.Bucket)),
	}, nil
}
