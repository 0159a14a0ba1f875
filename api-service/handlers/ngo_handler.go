package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ngoconnect-backend/shared/database/models"
	"ngoconnect-backend/shared/utils/apperrors"
	utils "ngoconnect-backend/shared/utils/auth"
)

type NGOHandler struct {
	ngos NGOStore
}

func NewNGOHandler(ngos NGOStore) *NGOHandler {
	return &NGOHandler{ngos: ngos}
}

// CreateNGORequest represents request body for creating an NGO. The
// document state is not accepted from the caller; every new NGO starts
// Pending.
type CreateNGORequest struct {
	Name               string         `json:"name" binding:"required"`
	Image              string         `json:"image"`
	Webpage            string         `json:"webpage"`
	Description        string         `json:"description" binding:"required"`
	MainRepresentative string         `json:"mainRepresentative" binding:"required"`
	Affinities         []string       `json:"affinities"`
	Contact            models.Contact `json:"contact"`
}

// UpdateNGORequest represents request body for updating an NGO. Only these
// fields are mutable; document_state transitions (approval/rejection) go
// through here, admin only.
type UpdateNGORequest struct {
	Name               *string         `json:"name"`
	Image              *string         `json:"image"`
	Webpage            *string         `json:"webpage"`
	Description        *string         `json:"description"`
	MainRepresentative *string         `json:"mainRepresentative"`
	Affinities         *[]string       `json:"affinities"`
	Contact            *models.Contact `json:"contact"`
	DocumentState      *string         `json:"document_state"`
}

// PublicNGO is the projection served by the general listing: no contact
// details, no document references.
type PublicNGO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Affinities  []string  `json:"affinities"`
}

// ToPublicNGO projects a full NGO record onto its public listing shape.
func ToPublicNGO(ngo *models.NGO) PublicNGO {
	return PublicNGO{
		ID:          ngo.ID,
		Name:        ngo.Name,
		Image:       ngo.Image,
		Description: ngo.Description,
		Affinities:  ngo.Affinities,
	}
}

// POST /api/ngos
// @Summary Create an NGO
// @Description Register an NGO; it enters the listing queue in Pending state
// @Tags ngos
// @Accept json
// @Produce json
// @Param ngo body CreateNGORequest true "NGO fields"
// @Security BearerAuth
// @Success 201 {object} map[string]string "Created NGO id"
// @Failure 400 {object} map[string]string "Validation failure"
// @Failure 500 {object} map[string]string "Server error"
// @Router /ngos [post]
func (h *NGOHandler) CreateNGO(c *gin.Context) {
	var req CreateNGORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, check := range []error{
		utils.ValidateRequired(req.Name, "name"),
		utils.ValidateRequired(req.Description, "description"),
		utils.ValidateRequired(req.MainRepresentative, "mainRepresentative"),
		utils.ValidateURL(req.Webpage),
		utils.ValidateURL(req.Image),
	} {
		if check != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": check.Error()})
			return
		}
	}

	ngo := models.NGO{
		ID:                 uuid.New(),
		Name:               req.Name,
		Image:              req.Image,
		Webpage:            req.Webpage,
		Description:        req.Description,
		MainRepresentative: req.MainRepresentative,
		Affinities:         req.Affinities,
		Contact:            req.Contact,
		DocumentState:      models.DocumentStatePending,
		Documents:          models.DocumentRefs{},
	}

	if err := h.ngos.CreateNGO(c.Request.Context(), &ngo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create NGO."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"_id": ngo.ID})
}

// GET /api/ngos
// @Summary Get approved NGOs
// @Description List Approved NGOs projected to their public fields
// @Tags ngos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Approved NGOs"
// @Failure 500 {object} map[string]string "Server error"
// @Router /ngos [get]
func (h *NGOHandler) GetNGOs(c *gin.Context) {
	ngoRecords, err := h.ngos.ListNGOsByState(c.Request.Context(), models.DocumentStateApproved)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch NGOs"})
		return
	}

	ngos := make([]PublicNGO, 0, len(ngoRecords))
	for i := range ngoRecords {
		ngos = append(ngos, ToPublicNGO(&ngoRecords[i]))
	}

	c.JSON(http.StatusOK, gin.H{"ngos": ngos})
}

// GET /api/ngos/:id
// @Summary Get single NGO
// @Description Fetch one NGO record including document state and references
// @Tags ngos
// @Produce json
// @Param id path string true "NGO ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "NGO record"
// @Failure 404 {object} map[string]string "NGO not found"
// @Router /ngos/{id} [get]
func (h *NGOHandler) GetNGO(c *gin.Context) {
	id := c.Param("id")

	ngoID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NGO with id " + id + " not found."})
		return
	}

	ngo, err := h.ngos.FindNGOByID(c.Request.Context(), ngoID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "NGO with id " + id + " not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch NGO"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ngo": ngo})
}

// PUT /api/ngos/:id
// @Summary Update an NGO
// @Description Merge whitelisted fields into an NGO record, including approval transitions (admin only)
// @Tags ngos
// @Accept json
// @Produce json
// @Param id path string true "NGO ID"
// @Param ngo body UpdateNGORequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]string "Updated NGO id"
// @Failure 404 {object} map[string]string "NGO not found"
// @Router /ngos/{id} [put]
func (h *NGOHandler) UpdateNGO(c *gin.Context) {
	id := c.Param("id")

	var req UpdateNGORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ngoID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NGO with id " + id + " not found."})
		return
	}

	ngo, err := h.ngos.FindNGOByID(c.Request.Context(), ngoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NGO with id " + id + " not found."})
		return
	}

	if req.Name != nil {
		ngo.Name = *req.Name
	}
	if req.Image != nil {
		ngo.Image = *req.Image
	}
	if req.Webpage != nil {
		ngo.Webpage = *req.Webpage
	}
	if req.Description != nil {
		ngo.Description = *req.Description
	}
	if req.MainRepresentative != nil {
		ngo.MainRepresentative = *req.MainRepresentative
	}
	if req.Affinities != nil {
		ngo.Affinities = models.StringList(*req.Affinities)
	}
	if req.Contact != nil {
		ngo.Contact = *req.Contact
	}
	if req.DocumentState != nil {
		switch *req.DocumentState {
		case models.DocumentStatePending, models.DocumentStateApproved, models.DocumentStateRejected:
			ngo.DocumentState = *req.DocumentState
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document state"})
			return
		}
	}

	if err := h.ngos.SaveNGO(c.Request.Context(), ngo); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Could not update NGO."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"_id": id})
}
