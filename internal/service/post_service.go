package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/repository"
	"github.com/inkwelldev/inkwell/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("not allowed to modify this post")
)

type PostService struct {
	postRepo *repository.PostRepository
}

func NewPostService(postRepo *repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(userID uuid.UUID, title, content string) (*models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" || len(title) > 255 {
		return nil, &ValidationError{Reason: "title must be between 1 and 255 characters"}
	}
	if content == "" {
		return nil, &ValidationError{Reason: "content must not be empty"}
	}

	post := &models.Post{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Content: content,
	}

	if err := s.postRepo.CreatePost(post); err != nil {
		logger.Log.Error("Failed to create post",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Post created",
		zap.String("post_id", post.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return post, nil
}

func (s *PostService) GetRecentPosts(limit int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.postRepo.GetRecentPosts(limit)
}

func (s *PostService) GetPost(id uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) GetPostsByUser(userID uuid.UUID) ([]models.Post, error) {
	return s.postRepo.GetPostsByUser(userID)
}

// UpdatePost edits a post. Only the author may edit; admins moderate by
// deletion, not by rewriting content.
func (s *PostService) UpdatePost(postID, userID uuid.UUID, title, content string) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.UserID != userID {
		return nil, ErrNotPostOwner
	}

	post.Title = strings.TrimSpace(title)
	post.Content = strings.TrimSpace(content)
	if post.Title == "" || post.Content == "" {
		return nil, &ValidationError{Reason: "title and content must not be empty"}
	}

	if err := s.postRepo.UpdatePost(post); err != nil {
		return nil, err
	}

	return post, nil
}

// DeletePost removes a post. The author may delete their own; an admin
// may delete any.
func (s *PostService) DeletePost(postID, userID uuid.UUID, isAdmin bool) error {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if !isAdmin && post.UserID != userID {
		return ErrNotPostOwner
	}

	if err := s.postRepo.SoftDeletePost(postID); err != nil {
		logger.Log.Error("Failed to delete post",
			zap.String("post_id", postID.String()),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Post deleted",
		zap.String("post_id", postID.String()),
		zap.String("by", userID.String()),
		zap.Bool("admin", isAdmin),
	)

	return nil
}
