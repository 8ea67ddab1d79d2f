package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mohit-lanjewar/WanderLust/internal/listing/domain"
	"github.com/mohit-lanjewar/WanderLust/internal/platform/logger"
	"go.uber.org/zap"
)

// previewWidth is the fixed width requested for scaled form previews.
const previewWidth = 300

type S3Storage struct {
	client      *minio.Client
	bucket      string
	endpointURL string
	logger      *logger.Logger
}

func NewS3Storage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*S3Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for endpoint %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), bucketName)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("make/verify bucket %s: (make: %v / exists check: %v)", bucketName, err, errBucketExists)
		}
	}
	log.Info("S3 storage initialized", zap.String("endpoint", endpoint), zap.String("bucket", bucketName))

	return &S3Storage{
		client:      client,
		bucket:      bucketName,
		endpointURL: client.EndpointURL().String(),
		logger:      log.Named("S3Storage"),
	}, nil
}

// Upload stores the file under a fresh object key, preserving the original
// extension, and returns the direct URL together with the key.
func (s *S3Storage) Upload(ctx context.Context, originalFileName string, data []byte) (*domain.Upload, error) {
	ext := filepath.Ext(originalFileName)
	objectKey := fmt.Sprintf("listings/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return nil, fmt.Errorf("upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.endpointURL, s.bucket, objectKey)
	s.logger.Debug("file uploaded", zap.String("key", objectKey), zap.String("url", fileURL))

	return &domain.Upload{URL: fileURL, Filename: objectKey}, nil
}

// PreviewURL derives a scaled display URL for a stored object key. It is a
// pure string derivation addressed to the storage service's image transform
// endpoint; no request is made here. Returns "" when no key is available.
func (s *S3Storage) PreviewURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s?width=%d&mode=scale", s.endpointURL, s.bucket, filename, previewWidth)
}
