package services

import (
	"context"
	"io"

	"github.com/google/uuid"

	"ngoconnect-backend/shared/database/models"
	"ngoconnect-backend/shared/utils/apperrors"
	docUtils "ngoconnect-backend/shared/utils/document"
)

// UserFinder looks up the requesting user for the ownership check.
type UserFinder interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// NGODocumentStore is the organization registry surface the pipeline needs.
type NGODocumentStore interface {
	FindNGOByID(ctx context.Context, id uuid.UUID) (*models.NGO, error)
	// AppendDocument appends the reference to the NGO's document list under
	// optimistic concurrency, so two concurrent uploads both land.
	AppendDocument(ctx context.Context, ngoID uuid.UUID, ref models.DocumentRef) error
}

// FileUpload describes one inbound multipart file.
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UploadService is the document ingestion pipeline: authorize, validate,
// stream, record.
type UploadService struct {
	users UserFinder
	ngos  NGODocumentStore
	blobs BlobStore
}

func NewUploadService(users UserFinder, ngos NGODocumentStore, blobs BlobStore) *UploadService {
	return &UploadService{users: users, ngos: ngos, blobs: blobs}
}

// Upload runs the pipeline end to end and returns the stored blob
// reference. Failures before the record step leave the NGO unchanged; a
// record failure after a successful stream triggers best-effort blob
// removal.
func (s *UploadService) Upload(ctx context.Context, requesterID, ngoID uuid.UUID, file FileUpload) (models.DocumentRef, error) {
	// 1. Authorize: affiliated with the target NGO, or admin.
	requester, err := s.users.FindUserByID(ctx, requesterID)
	if err != nil {
		return models.DocumentRef{}, err
	}
	if !requester.IsAdmin() && !requester.IsAffiliatedWith(ngoID) {
		return models.DocumentRef{}, apperrors.New(apperrors.KindForbidden, "Error during image/document upload.")
	}

	// The target must exist before bytes are streamed.
	if _, err := s.ngos.FindNGOByID(ctx, ngoID); err != nil {
		return models.DocumentRef{}, err
	}

	// 2. Validate extension and declared content type.
	if err := docUtils.ValidateUploadType(file.FileName, file.ContentType); err != nil {
		return models.DocumentRef{}, err
	}

	// 3. Stream to the blob store under a generated key.
	objectKey := docUtils.GenerateObjectKey(file.FileName)
	ref, err := s.blobs.Put(ctx, objectKey, file.FileName, file.ContentType, file.Reader, file.Size)
	if err != nil {
		return models.DocumentRef{}, err
	}

	// 4. Record the reference on the NGO.
	if err := s.ngos.AppendDocument(ctx, ngoID, ref); err != nil {
		// The blob exists but nothing references it; remove it rather than
		// leave an orphan behind.
		_ = s.blobs.Remove(ctx, ref.ObjectKey)
		return models.DocumentRef{}, err
	}

	return ref, nil
}
