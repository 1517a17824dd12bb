package minio

import (
	"context"
	"path"
	"path/filepath"
	"sync"

	"github.com/minio/minio-go/v7"

	"github.com/songpeng/inferBind/internal/infrastructure/monitoring/logging"
	"github.com/songpeng/inferBind/pkg/errors"
)

const (
	contentType  = "text/tab-separated-values"
	metaRunID    = "Run-Id"
	metaArtifact = "Artifact"
)

// Artifact is a local file to publish.  Name identifies it within a run,
// for example "association" or "variance".
type Artifact struct {
	Name string
	Path string
}

// ArtifactStore stores run outputs under <prefix>/<runID>/<name><ext>, where
// ext is the extension of the local file.
type ArtifactStore struct {
	api    ObjectAPI
	config MinIOConfig
	logger logging.Logger

	bucketOnce sync.Once
	bucketErr  error
}

// Bucket returns the bucket name.
func (s *ArtifactStore) Bucket() string { return s.config.Bucket }

// ObjectName returns the key an artifact of a run is stored under.  The
// local directory and base name do not take part, so two files that share a
// base name land under different keys.
func (s *ArtifactStore) ObjectName(runID string, a Artifact) string {
	return path.Join(s.config.Prefix, runID, a.Name+filepath.Ext(a.Path))
}

// objectNames maps artifacts to object names, rejecting unnamed artifacts
// and artifacts that would overwrite each other.
func (s *ArtifactStore) objectNames(runID string, artifacts []Artifact) ([]string, error) {
	names := make([]string, len(artifacts))
	seen := make(map[string]string, len(artifacts))
	for i, a := range artifacts {
		if a.Name == "" {
			return nil, errors.New(errors.ErrCodeArtifactStore, "artifact name is required").WithDetail(a.Path)
		}
		object := s.ObjectName(runID, a)
		if prev, ok := seen[object]; ok {
			return nil, errors.Newf(errors.ErrCodeArtifactStore,
				"%s and %s map to the same object", prev, a.Path).WithDetail(object)
		}
		seen[object] = a.Path
		names[i] = object
	}
	return names, nil
}

func (s *ArtifactStore) ensureBucket(ctx context.Context) error {
	s.bucketOnce.Do(func() {
		exists, err := s.api.BucketExists(ctx, s.config.Bucket)
		if err != nil {
			s.bucketErr = errors.Wrap(err, errors.ErrCodeArtifactStore, "failed to check bucket existence")
			return
		}
		if exists {
			return
		}
		if err := s.api.MakeBucket(ctx, s.config.Bucket, minio.MakeBucketOptions{Region: s.config.Region}); err != nil {
			s.bucketErr = errors.Wrap(err, errors.ErrCodeArtifactStore, "failed to create bucket")
			return
		}
		s.logger.Info("created bucket")
	})
	return s.bucketErr
}

// Publish uploads the artifacts of one run and returns their object names in
// the same order.  It stops at the first failure.
func (s *ArtifactStore) Publish(ctx context.Context, runID string, artifacts []Artifact) ([]string, error) {
	if runID == "" {
		return nil, errors.New(errors.ErrCodeArtifactStore, "run id is required")
	}
	names, err := s.objectNames(runID, artifacts)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	objects := make([]string, 0, len(artifacts))
	for i, a := range artifacts {
		object := names[i]
		info, err := s.api.FPutObject(ctx, s.config.Bucket, object, a.Path, minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				metaRunID:    runID,
				metaArtifact: a.Name,
			},
		})
		if err != nil {
			return objects, errors.Wrap(err, errors.ErrCodeArtifactStore, "failed to upload "+a.Name).WithDetail(object)
		}
		s.logger.Info("artifact published",
			logging.String("artifact", a.Name),
			logging.String("object", object),
			logging.Int64("size", info.Size))
		objects = append(objects, object)
	}
	return objects, nil
}

// Fetch downloads object into the local file dest.
func (s *ArtifactStore) Fetch(ctx context.Context, object, dest string) error {
	if err := s.api.FGetObject(ctx, s.config.Bucket, object, dest, minio.GetObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeArtifactStore, "failed to download artifact").WithDetail(object)
	}
	s.logger.Info("artifact fetched", logging.String("object", object), logging.String(logging.FieldPath, dest))
	return nil
}
