package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ngoconnect-backend/api-service/services"
	"ngoconnect-backend/shared/utils/apperrors"
	utils "ngoconnect-backend/shared/utils/auth"
	"ngoconnect-backend/shared/utils/cache"
)

type AuthHandler struct {
	users  UserStore
	hasher *services.HashWorkerPool
}

func NewAuthHandler(users UserStore, hasher *services.HashWorkerPool) *AuthHandler {
	return &AuthHandler{users: users, hasher: hasher}
}

// Login Request struct
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@ngoconnect.org"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// Refresh Request struct
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// POST /api/auth/login
// @Summary User login
// @Description Authenticate a user and return an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} utils.TokenPair "Successful login"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientIP := c.ClientIP()
	throttle := cache.GetLoginThrottle()

	if blocked, err := throttle.IsBlocked(c.Request.Context(), req.Email, clientIP); err != nil {
		log.Printf("Warning: login throttle check failed: %v", err)
	} else if blocked {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts. Please try again later."})
		return
	}

	// Any registered user with matching credentials may log in; there is no
	// approval gate on user accounts.
	user, err := h.users.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if recordErr := throttle.RecordFailure(c.Request.Context(), req.Email, clientIP); recordErr != nil {
			log.Printf("Warning: failed to record login failure: %v", recordErr)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You provided wrong set of credentials."})
		return
	}

	match, err := h.hasher.Compare(c.Request.Context(), req.Password, user.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not verify credentials"})
		return
	}
	if !match {
		if recordErr := throttle.RecordFailure(c.Request.Context(), req.Email, clientIP); recordErr != nil {
			log.Printf("Warning: failed to record login failure: %v", recordErr)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You provided wrong set of credentials."})
		return
	}

	pair, err := utils.IssueTokenPair(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	if resetErr := throttle.Reset(c.Request.Context(), req.Email, clientIP); resetErr != nil {
		log.Printf("Warning: failed to reset login throttle: %v", resetErr)
	}

	c.JSON(http.StatusOK, pair)
}

// POST /api/auth/refresh
// @Summary Refresh token exchange
// @Description Exchange a valid refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 200 {object} utils.TokenPair "New token pair"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := utils.ValidateRefreshJWT(req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	userID, err := uuid.Parse(claims.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
		return
	}

	// The role is re-read from the record, not the old token, so a role
	// change takes effect on the next refresh.
	user, err := h.users.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You provided wrong set of credentials."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	pair, err := utils.IssueTokenPair(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}
