package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) ports.ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, gender, age_group, region, share_gender, share_age_group, share_region, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`
	profile := &domain.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.Gender, &profile.AgeGroup, &profile.Region,
		&profile.ShareGender, &profile.ShareAgeGroup, &profile.ShareRegion,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO user_profiles (user_id, gender, age_group, region, share_gender, share_age_group, share_region, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			gender = EXCLUDED.gender,
			age_group = EXCLUDED.age_group,
			region = EXCLUDED.region,
			share_gender = EXCLUDED.share_gender,
			share_age_group = EXCLUDED.share_age_group,
			share_region = EXCLUDED.share_region,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.Gender, profile.AgeGroup, profile.Region,
		profile.ShareGender, profile.ShareAgeGroup, profile.ShareRegion,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
