package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/service"
)

// SessionCookie is the cookie the session token travels in. A Bearer
// header works too, for non-browser clients.
const SessionCookie = "session"

// TokenFromRequest extracts the session token from the cookie or the
// Authorization header. Empty string means anonymous.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return token
	}

	return ""
}

// RequireAuth gates protected routes. Anonymous requests are refused with
// a redirect to the login page that remembers the intended destination,
// so login can forward there afterwards. Authenticated requests get the
// current user loaded into the context.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			refuse(c)
			return
		}

		user, err := authService.CurrentUser(c.Request.Context(), token)
		if err != nil {
			// Covers bad signatures, revoked sessions and sessions whose
			// user no longer exists. All of them are anonymous now.
			refuse(c)
			return
		}

		c.Set("current_user", user)
		c.Set("user_id", user.ID.String())
		c.Set("user_role", string(user.Role))

		c.Next()
	}
}

// RequireAdmin gates admin routes. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user RequireAuth stored, or nil when anonymous.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get("current_user")
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func refuse(c *gin.Context) {
	next := url.QueryEscape(c.Request.URL.RequestURI())
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":    "Login required",
		"category": "info",
		"redirect": "/login?next=" + next,
	})
	c.Abort()
}
