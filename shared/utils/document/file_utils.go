package document

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ngoconnect-backend/shared/utils/apperrors"
)

// Upload allow-list: images and pdf only. Both the file extension and the
// declared content type must match, so a spoofed extension alone is not
// enough to get a file through.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".pdf":  {},
}

var allowedContentTypes = map[string]struct{}{
	"image/jpg":       {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
}

// ValidateUploadType checks the filename extension and declared content
// type against the allow-list.
func ValidateUploadType(fileName, contentType string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return apperrors.New(apperrors.KindValidation, "Only images or pdf documents.")
	}

	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	if _, ok := allowedContentTypes[mediaType]; !ok {
		return apperrors.New(apperrors.KindValidation, "Only images or pdf documents.")
	}

	return nil
}

// ValidateUploadedFile validates size constraints of an uploaded file.
func ValidateUploadedFile(header *multipart.FileHeader, maxSize int64) error {
	if header.Size == 0 {
		return apperrors.New(apperrors.KindValidation, "File is empty")
	}

	if header.Size > maxSize {
		return apperrors.New(apperrors.KindValidation,
			fmt.Sprintf("File size exceeds %dMB limit", maxSize/(1024*1024)))
	}

	return nil
}

// GenerateObjectKey builds the stored object name for an upload. The
// original name is kept for display; the uuid keeps keys collision-free.
func GenerateObjectKey(originalName string) string {
	base := filepath.Base(originalName)
	return fmt.Sprintf("file_%s_%s", uuid.New().String(), base)
}
