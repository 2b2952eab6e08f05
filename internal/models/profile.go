package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the extra per-user fields that are editable after
// registration. One row per user, created empty alongside the account.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Bio       string    `gorm:"type:varchar(500)" json:"bio"`
	AvatarURL string    `gorm:"type:varchar(255);default:'default.jpg'" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
