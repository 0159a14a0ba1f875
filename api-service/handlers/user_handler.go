package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ngoconnect-backend/api-service/services"
	"ngoconnect-backend/shared/database/models"
	"ngoconnect-backend/shared/utils/apperrors"
	utils "ngoconnect-backend/shared/utils/auth"
)

type UserHandler struct {
	users  UserStore
	hasher *services.HashWorkerPool
}

func NewUserHandler(users UserStore, hasher *services.HashWorkerPool) *UserHandler {
	return &UserHandler{users: users, hasher: hasher}
}

// CreateUserRequest represents request body for registration
type CreateUserRequest struct {
	Email           string     `json:"email" binding:"required,email"`
	Password        string     `json:"password" binding:"required,min=6"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Role            string     `json:"role"`
	AffiliatedNGOID *uuid.UUID `json:"affiliated_ngo_id"`
}

// UpdateUserRequest represents request body for updating a user. Only
// these fields are mutable; anything else in the body is ignored.
type UpdateUserRequest struct {
	Email           string     `json:"email" binding:"omitempty,email"`
	FirstName       *string    `json:"first_name"`
	LastName        *string    `json:"last_name"`
	Role            *string    `json:"role"`
	AffiliatedNGOID *uuid.UUID `json:"affiliated_ngo_id"`
}

// POST /api/users
// @Summary Register a new user
// @Description Create a user account; the password is stored as a bcrypt hash
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User fields"
// @Success 201 {object} map[string]interface{} "Created user"
// @Failure 400 {object} map[string]string "Duplicate email or validation failure"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.RoleIndependent
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		// Registration never grants admin.
		if parsed == models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		role = parsed
	}

	// Lookup-first for a clean duplicate message; the unique index on email
	// is what actually guarantees the invariant under concurrency.
	taken, err := h.users.EmailTaken(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check email"})
		return
	}
	if taken {
		respondError(c, apperrors.New(apperrors.KindConflict, "Could not create user. The email already exists."))
		return
	}

	hash, err := h.hasher.Hash(c.Request.Context(), req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not process password"})
		return
	}

	user := models.User{
		ID:              uuid.New(),
		Email:           req.Email,
		Password:        hash,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            role,
		AffiliatedNGOID: req.AffiliatedNGOID,
	}

	if err := h.users.CreateUser(c.Request.Context(), &user); err != nil {
		// Concurrent registration can slip past the lookup; the unique
		// index rejects it here.
		if apperrors.KindOf(err) == apperrors.KindConflict {
			respondError(c, apperrors.New(apperrors.KindConflict, "Could not create user. The email already exists."))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not create user."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// GET /api/users
// @Summary Get all users
// @Description List all user records (password hashes are never serialized)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of users"
// @Failure 500 {object} map[string]string "Server error"
// @Router /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GET /api/users/:id
// @Summary Get single user
// @Description Fetch one user record by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "User record"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")

	userID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User with id " + id + " not found."})
		return
	}

	user, err := h.users.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User with id " + id + " not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// PUT /api/users/:id
// @Summary Update a user
// @Description Merge whitelisted fields into an existing user record (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]string "Updated user id"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User with id " + id + " not found."})
		return
	}

	user, err := h.users.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User with id " + id + " not found."})
		return
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		user.Role = role
	}
	if req.AffiliatedNGOID != nil {
		user.AffiliatedNGOID = req.AffiliatedNGOID
	}

	if err := h.users.SaveUser(c.Request.Context(), user); err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			respondError(c, apperrors.New(apperrors.KindConflict, "Could not update user. The email already exists."))
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Could not update user."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"_id": id})
}
