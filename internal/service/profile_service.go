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

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService struct {
	profileRepo *repository.ProfileRepository
}

func NewProfileService(profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) GetProfile(userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// UpdateProfile edits the caller's own profile fields.
func (s *ProfileService) UpdateProfile(userID uuid.UUID, bio, avatarURL string) (*models.Profile, error) {
	bio = strings.TrimSpace(bio)
	if len(bio) > 500 {
		return nil, &ValidationError{Reason: "bio must be at most 500 characters"}
	}
	if avatarURL == "" {
		avatarURL = "default.jpg"
	}

	if err := s.profileRepo.UpdateProfile(userID, bio, avatarURL); err != nil {
		logger.Log.Error("Failed to update profile",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return s.GetProfile(userID)
}
