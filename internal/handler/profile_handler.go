package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkwelldev/inkwell/internal/middleware"
	"github.com/inkwelldev/inkwell/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type ProfileRequest struct {
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// Get handles GET /api/users/:id/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	profile, err := h.profileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"user_id":    profile.UserID,
			"bio":        profile.Bio,
			"avatar_url": profile.AvatarURL,
		},
	})
}

// UpdateOwn handles PUT /api/profile. Behind RequireAuth; a user edits
// only their own profile.
func (h *ProfileHandler) UpdateOwn(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Invalid request body",
			"category": "danger",
		})
		return
	}

	profile, err := h.profileService.UpdateProfile(user.ID, req.Bio, req.AvatarURL)
	if err != nil {
		status, msg := classifyAuthError(err)
		c.JSON(status, gin.H{
			"error":    msg,
			"category": "danger",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Profile updated",
		"category": "success",
		"profile": gin.H{
			"user_id":    profile.UserID,
			"bio":        profile.Bio,
			"avatar_url": profile.AvatarURL,
		},
	})
}
