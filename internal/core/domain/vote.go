package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one row of the append-only vote log. Demographics are a snapshot
// taken at vote time; later profile edits never touch historical rows.
type Vote struct {
	ID           uuid.UUID    `json:"id"`
	PollID       uuid.UUID    `json:"poll_id"`
	OptionIndex  int          `json:"option_index"`
	UserID       *uuid.UUID   `json:"user_id,omitempty"`
	Fingerprint  string       `json:"fingerprint"`
	Demographics Demographics `json:"demographics"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Demographics carries only the attributes the voter consented to share.
// A nil field means "not shared" and contributes to no bucket.
type Demographics struct {
	Gender   *string `json:"gender,omitempty"`
	AgeGroup *string `json:"age_group,omitempty"`
	Region   *string `json:"region,omitempty"`
}
