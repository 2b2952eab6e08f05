package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/utils"
)

// CreateTestUser creates a SQLite-compatible test user with hashed password
func CreateTestUser(username, email, password string, role models.Role) (*TestUser, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &TestUser{
		ID:           uuid.New().String(), // SQLite stores UUID as string
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         string(role),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// CreateTestProfile creates a profile row for a test user
func CreateTestProfile(userID string) *TestProfile {
	return &TestProfile{
		ID:        uuid.New().String(),
		UserID:    userID,
		AvatarURL: "default.jpg",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CreateTestPost creates a SQLite-compatible test post
func CreateTestPost(userID, title, content string) *TestPost {
	return &TestPost{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// DefaultTestUser returns a default test user (regular user)
func DefaultTestUser() (*TestUser, error) {
	return CreateTestUser("testuser", "test@example.com", "Test123456", models.RoleUser)
}

// DefaultAdminUser returns a default admin user
func DefaultAdminUser() (*TestUser, error) {
	return CreateTestUser("admin", "admin@example.com", "Admin123456", models.RoleAdmin)
}
