package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkwelldev/inkwell/internal/middleware"
	"github.com/inkwelldev/inkwell/internal/service"
	"github.com/inkwelldev/inkwell/pkg/logger"
	"go.uber.org/zap"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type PostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// List handles GET /api/posts. Public; no session needed to read.
func (h *PostHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	posts, err := h.postService.GetRecentPosts(limit)
	if err != nil {
		logger.Log.Error("Failed to fetch posts",
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch posts",
		})
		return
	}

	result := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		result = append(result, gin.H{
			"id":         post.ID,
			"title":      post.Title,
			"content":    post.Content,
			"author":     post.User.Username,
			"user_id":    post.UserID,
			"created_at": post.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": result,
		"count": len(result),
	})
}

// Get handles GET /api/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post ID"})
		return
	}

	post, err := h.postService.GetPost(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post": gin.H{
			"id":         post.ID,
			"title":      post.Title,
			"content":    post.Content,
			"author":     post.User.Username,
			"user_id":    post.UserID,
			"created_at": post.CreatedAt,
		},
	})
}

// Create handles POST /api/posts. Behind RequireAuth.
func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Invalid request body",
			"category": "danger",
		})
		return
	}

	post, err := h.postService.CreatePost(user.ID, req.Title, req.Content)
	if err != nil {
		status, msg := classifyAuthError(err)
		c.JSON(status, gin.H{
			"error":    msg,
			"category": "danger",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Post created",
		"category": "success",
		"post": gin.H{
			"id":         post.ID,
			"title":      post.Title,
			"content":    post.Content,
			"created_at": post.CreatedAt,
		},
	})
}

// Update handles PUT /api/posts/:id. Behind RequireAuth; author only.
func (h *PostHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post ID"})
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Invalid request body",
			"category": "danger",
		})
		return
	}

	post, err := h.postService.UpdatePost(id, user.ID, req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case errors.Is(err, service.ErrNotPostOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to modify this post"})
		default:
			status, msg := classifyAuthError(err)
			c.JSON(status, gin.H{"error": msg, "category": "danger"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Post updated",
		"category": "success",
		"post": gin.H{
			"id":      post.ID,
			"title":   post.Title,
			"content": post.Content,
		},
	})
}

// Delete handles DELETE /api/posts/:id. Behind RequireAuth; author or
// admin.
func (h *PostHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post ID"})
		return
	}

	if err := h.postService.DeletePost(id, user.ID, user.IsAdmin()); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case errors.Is(err, service.ErrNotPostOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to modify this post"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Post deleted",
		"category": "info",
	})
}
