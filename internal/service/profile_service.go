package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"lingoclass/internal/model"
	"lingoclass/internal/repository"
	"lingoclass/internal/storage"
)

// ProfileService handles account lookups, profile photos and push tokens.
type ProfileService struct {
	profileRepo repository.ProfileRepo
	uploader    storage.Uploader
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo repository.ProfileRepo, uploader storage.Uploader) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		uploader:    uploader,
	}
}

// Get fetches one profile.
func (s *ProfileService) Get(ctx context.Context, id string) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// ListStudents returns every student account, for the teacher dashboard.
func (s *ProfileService) ListStudents(ctx context.Context) ([]*model.Profile, error) {
	return s.profileRepo.ListByRole(ctx, model.RoleStudent)
}

// Children returns the profiles a parent token is scoped to.
func (s *ProfileService) Children(ctx context.Context, studentIDs []string) ([]*model.Profile, error) {
	profiles := make([]*model.Profile, 0, len(studentIDs))
	for _, id := range studentIDs {
		profile, err := s.profileRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		if profile != nil {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}

// UploadPhoto stores a new profile image and records its URL.
func (s *ProfileService) UploadPhoto(ctx context.Context, id string, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("image is required")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	key := fmt.Sprintf("profile_images/%s/%s", id, uuid.New().String())
	url, err := s.uploader.Upload(ctx, key, bytes.NewReader(image), mimeType)
	if err != nil {
		return "", fmt.Errorf("failed to upload profile image: %w", err)
	}
	if err := s.profileRepo.SetProfileImage(ctx, id, url); err != nil {
		return "", fmt.Errorf("failed to save profile image: %w", err)
	}
	return url, nil
}

// SetPushToken records the device's Expo push token.
func (s *ProfileService) SetPushToken(ctx context.Context, id, token string) error {
	if err := s.profileRepo.SetPushToken(ctx, id, token); err != nil {
		return fmt.Errorf("failed to save push token: %w", err)
	}
	return nil
}
