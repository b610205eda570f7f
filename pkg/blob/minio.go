// Package blob wraps the MinIO object store behind the small upload/
// delete contract the core depends on. Blob writes are not
// transactional with the document store; callers must check the upload
// result before persisting any record that references it.
package blob

import (
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vidhub/pkg/config"
	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// Store is the blob storage contract. The returned MediaRef.ID is the
// handle Delete accepts.
type Store interface {
	Upload(ctx context.Context, localPath, folder, contentType string) (models.MediaRef, error)
	Delete(ctx context.Context, id string) error
}

type minioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(cfg config.BlobConfig) (Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &minioStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
	}
	if s.publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		s.publicURL = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	ctx, cancel := utils.WithTimeout(context.Background())
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return s, nil
}

// Upload stores the local file under folder/<random>.<ext> and returns
// its handle and public URL.
func (s *minioStore) Upload(ctx context.Context, localPath, folder, contentType string) (models.MediaRef, error) {
	objectName := fmt.Sprintf("%s/%s%s", folder, utils.NewID("obj"), path.Ext(localPath))

	_, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return models.MediaRef{}, fmt.Errorf("upload %s: %w", objectName, err)
	}

	return models.MediaRef{
		ID:  objectName,
		URL: fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName),
	}, nil
}

// Delete removes a stored object. Missing objects are not an error;
// delete is used for best-effort compensation.
func (s *minioStore) Delete(ctx context.Context, id string) error {
	return s.client.RemoveObject(ctx, s.bucket, id, minio.RemoveObjectOptions{})
}
