package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds a user's self-reported demographics plus a per-attribute
// consent flag. Consent is attribute-independent: a user may share their
// age group while withholding gender.
type Profile struct {
	UserID        uuid.UUID `json:"user_id"`
	Gender        *string   `json:"gender"`
	AgeGroup      *string   `json:"age_group"`
	Region        *string   `json:"region"`
	ShareGender   bool      `json:"share_gender"`
	ShareAgeGroup bool      `json:"share_age_group"`
	ShareRegion   bool      `json:"share_region"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SharedDemographics applies the consent flags, yielding the snapshot that
// may be attached to a vote.
func (p *Profile) SharedDemographics() Demographics {
	var d Demographics
	if p.ShareGender {
		d.Gender = p.Gender
	}
	if p.ShareAgeGroup {
		d.AgeGroup = p.AgeGroup
	}
	if p.ShareRegion {
		d.Region = p.Region
	}
	return d
}

var (
	ValidGenders   = []string{"male", "female", "other"}
	ValidAgeGroups = []string{"10s", "20s", "30s", "40s", "50s", "60+"}
)
