package services

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

type profileService struct {
	repo ports.ProfileRepository
	now  func() time.Time
}

func NewProfileService(repo ports.ProfileRepository) ports.ProfileService {
	return &profileService{
		repo: repo,
		now:  time.Now,
	}
}

// Get returns the stored profile, or a zero-value profile with all share
// flags off for users who never wrote one.
func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &domain.Profile{UserID: userID}, nil
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, input ports.UpdateProfileInput) (*domain.Profile, error) {
	if input.Gender != nil && !slices.Contains(domain.ValidGenders, *input.Gender) {
		return nil, domain.ErrInvalidInput
	}
	if input.AgeGroup != nil && !slices.Contains(domain.ValidAgeGroups, *input.AgeGroup) {
		return nil, domain.ErrInvalidInput
	}

	profile := &domain.Profile{
		UserID:        userID,
		Gender:        input.Gender,
		AgeGroup:      input.AgeGroup,
		Region:        input.Region,
		ShareGender:   input.ShareGender,
		ShareAgeGroup: input.ShareAgeGroup,
		ShareRegion:   input.ShareRegion,
		UpdatedAt:     s.now(),
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}
