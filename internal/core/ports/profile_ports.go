package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
)

type ProfileRepository interface {
	// GetByUserID returns nil, nil when the user has never written a profile.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

type UpdateProfileInput struct {
	Gender        *string
	AgeGroup      *string
	Region        *string
	ShareGender   bool
	ShareAgeGroup bool
	ShareRegion   bool
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.Profile, error)
}
