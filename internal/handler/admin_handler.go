package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/service"
	"github.com/inkwelldev/inkwell/pkg/logger"
	"go.uber.org/zap"
)

type AdminHandler struct {
	authService *service.AuthService
}

func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{
		authService: authService,
	}
}

// Request types
type SetRoleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type BanUserRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// GetAllUsers returns all users (including banned ones)
// GET /api/admin/users
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	logger.Log.Info("Admin fetching all users",
		zap.String("admin_id", c.GetString("user_id")),
	)

	users, err := h.authService.GetAllUsers()
	if err != nil {
		logger.Log.Error("Failed to fetch users",
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
	})
}

// SetRole changes a user's role within the closed role set
// POST /api/admin/role
func (h *AdminHandler) SetRole(c *gin.Context) {
	var req SetRoleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	adminID := c.GetString("user_id")
	logger.Log.Info("Admin changing user role",
		zap.String("admin_id", adminID),
		zap.String("target_user_id", req.UserID),
		zap.String("role", req.Role),
	)

	err := h.authService.SetRole(req.UserID, adminID, models.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			logger.Log.Error("Failed to change role",
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change role"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated",
	})
}

// BanUser bans a single user (soft delete)
// POST /api/admin/ban
func (h *AdminHandler) BanUser(c *gin.Context) {
	var req BanUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Ban user request parsing failed",
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	adminID := c.GetString("user_id")
	logger.Log.Info("Admin banning user",
		zap.String("admin_id", adminID),
		zap.String("target_user_id", req.UserID),
		zap.String("reason", req.Reason),
	)

	if err := h.authService.BanUser(req.UserID, adminID, req.Reason); err != nil {
		logger.Log.Error("Failed to ban user",
			zap.Error(err),
			zap.String("user_id", req.UserID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to ban user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User banned successfully",
	})
}
