package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ngoconnect-backend/api-service/middleware"
	"ngoconnect-backend/api-service/services"
	"ngoconnect-backend/shared/config"
	docUtils "ngoconnect-backend/shared/utils/document"
)

type UploadHandler struct {
	uploads *services.UploadService
}

func NewUploadHandler(uploads *services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// POST /api/ngos/:id/upload
// @Summary Upload a verification document
// @Description Stream an image or pdf to the blob store and record it on the NGO
// @Tags ngos
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "NGO ID"
// @Param file formData file true "Document file to upload"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Stored blob reference"
// @Failure 400 {object} map[string]string "Disallowed file type"
// @Failure 403 {object} map[string]string "Not affiliated with the NGO"
// @Router /ngos/{id}/upload [post]
func (h *UploadHandler) UploadDocument(c *gin.Context) {
	ngoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid NGO id"})
		return
	}

	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	if err := docUtils.ValidateUploadedFile(header, config.GetConfig().GetMaxUploadSizeBytes()); err != nil {
		respondError(c, err)
		return
	}

	ref, err := h.uploads.Upload(c.Request.Context(), requesterID, ngoID, services.FileUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Success",
		"file":    ref,
	})
}
