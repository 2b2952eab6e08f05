package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/inkwelldev/inkwell/internal/models"
	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) GetPostByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("User").Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetRecentPosts retrieves the most recent posts, newest first.
func (r *PostRepository) GetRecentPosts(limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error

	return posts, err
}

// GetPostsByUser retrieves all posts authored by one user, newest first.
func (r *PostRepository) GetPostsByUser(userID uuid.UUID) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error

	return posts, err
}

func (r *PostRepository) UpdatePost(post *models.Post) error {
	return r.db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":   post.Title,
			"content": post.Content,
		}).Error
}

func (r *PostRepository) SoftDeletePost(id uuid.UUID) error {
	return r.db.Delete(&models.Post{}, id).Error
}
