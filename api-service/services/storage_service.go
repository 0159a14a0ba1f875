package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"ngoconnect-backend/shared/config"
	"ngoconnect-backend/shared/database/models"
	"ngoconnect-backend/shared/utils/apperrors"
)

// BlobStore is the Document Ingestion Pipeline's view of object storage.
type BlobStore interface {
	// Put streams the reader into storage under objectKey and returns the
	// resulting blob reference. The payload is never buffered in full.
	Put(ctx context.Context, objectKey, originalName, contentType string, reader io.Reader, size int64) (models.DocumentRef, error)
	// Remove deletes a stored object. Used as best-effort cleanup when the
	// record write after a successful stream fails.
	Remove(ctx context.Context, objectKey string) error
}

// MinIOService is the MinIO-backed blob store.
type MinIOService struct {
	client     *minio.Client
	bucketName string
}

func NewMinIOService() (*MinIOService, error) {
	cfg := config.GetConfig()

	// Parse endpoint URL to get host
	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	endpoint := parsedURL.Host
	useSSL := cfg.MinIOUseSSL

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", endpoint, useSSL)

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	service := &MinIOService{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
	}

	// Test connection and create bucket if needed
	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *MinIOService) initializeBucket() error {
	ctx := context.Background()

	log.Printf("🪣 Checking bucket: %s", s.bucketName)

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	} else {
		log.Printf("✅ MinIO bucket '%s' already exists", s.bucketName)
	}

	return nil
}

// Put streams an upload into the bucket. PutObject consumes the reader
// directly, so the file flows from the inbound connection to storage
// without being materialized in memory.
func (s *MinIOService) Put(ctx context.Context, objectKey, originalName, contentType string, reader io.Reader, size int64) (models.DocumentRef, error) {
	log.Printf("⬆️ Uploading file to: %s/%s (size: %d bytes)", s.bucketName, objectKey, size)

	info, err := s.client.PutObject(ctx, s.bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return models.DocumentRef{}, apperrors.Wrap(apperrors.KindUpstreamStorage, "Error during image/document upload.", err)
	}

	log.Printf("✅ File '%s' uploaded successfully", objectKey)

	return models.DocumentRef{
		ObjectKey:    info.Key,
		FileName:     objectKey,
		OriginalName: originalName,
		ContentType:  contentType,
		Size:         size,
		UploadedAt:   time.Now().UTC(),
	}, nil
}

// Remove deletes an object from the bucket.
func (s *MinIOService) Remove(ctx context.Context, objectKey string) error {
	log.Printf("🗑️ Removing file: %s/%s", s.bucketName, objectKey)

	err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return apperrors.Wrap(apperrors.KindUpstreamStorage, "Failed to remove file", err)
	}

	return nil
}
