package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwelldev/inkwell/internal/middleware"
	"github.com/inkwelldev/inkwell/internal/service"
	"github.com/inkwelldev/inkwell/pkg/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService  *service.AuthService
	sessionTTL   time.Duration
	isProduction bool
}

func NewAuthHandler(authService *service.AuthService, sessionTTL time.Duration, isProduction bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessionTTL:   sessionTTL,
		isProduction: isProduction,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Registration request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Invalid request body",
			"category": "danger",
		})
		return
	}

	logger.Log.Info("User registration attempt",
		zap.String("username", req.Username),
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, token, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUser) {
			// One generic message whichever field collided.
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    "Registration failed: username or email unavailable",
				"category": "danger",
			})
			return
		}

		status, msg := classifyAuthError(err)
		c.JSON(status, gin.H{
			"error":    msg,
			"category": "danger",
		})
		return
	}

	h.setSessionCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registration successful! You are now logged in.",
		"category": "success",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Login handles POST /api/auth/login. On success it honors the `next`
// query parameter so a gated request refused earlier can be forwarded to
// its original destination.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Login request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Invalid request body",
			"category": "danger",
		})
		return
	}

	logger.Log.Info("User login attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Same message for unknown email and wrong password.
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "Invalid email or password. Please try again.",
				"category": "danger",
			})
			return
		}

		status, msg := classifyAuthError(err)
		c.JSON(status, gin.H{
			"error":    msg,
			"category": "danger",
		})
		return
	}

	h.setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Login successful!",
		"category":    "success",
		"redirect_to": safeNext(c.Query("next")),
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Logout handles POST /api/auth/logout. Logging out while anonymous is
// fine; the response is the same either way.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.TokenFromRequest(c)
	if token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			logger.Log.Error("Logout failed",
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":    "Something went wrong",
				"category": "danger",
			})
			return
		}
	}

	h.clearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"message":  "You have been logged out.",
		"category": "info",
	})
}

// Me handles GET /api/auth/me. Runs behind RequireAuth.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Login required",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"role":       user.Role,
			"created_at": user.CreatedAt,
		},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode) // CSRF protection
	c.SetCookie(
		middleware.SessionCookie,
		token,
		int(h.sessionTTL.Seconds()),
		"/",
		"",             // domain (empty = current domain)
		h.isProduction, // secure (HTTPS-only in production)
		true,           // httpOnly (JavaScript cannot access)
	)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.isProduction, true)
}

// classifyAuthError separates our own validation messages, which are safe
// to show, from storage failures, which are not.
func classifyAuthError(err error) (int, string) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Reason
	}
	return http.StatusInternalServerError, "Something went wrong"
}

// safeNext keeps post-login forwarding on this site. Anything that is not
// a relative path falls back to the home page.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
