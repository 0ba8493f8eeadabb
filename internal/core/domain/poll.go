package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID        uuid.UUID    `json:"id"`
	CreatorID *uuid.UUID   `json:"creator_id,omitempty"`
	Question  string       `json:"question"`
	Options   []PollOption `json:"options"`
	Tags      []string     `json:"tags,omitempty"`
	IsActive  bool         `json:"is_active"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// PollOption is the normalized option shape. Incoming options may be a bare
// string or {text, imageUrl}; by the time they reach the domain they are
// always this struct. Options are positional: votes reference them by index.
type PollOption struct {
	Text     string  `json:"text"`
	ImageURL *string `json:"image_url,omitempty"`
}

// Expired reports whether the poll has an expiry in the past relative to now.
func (p *Poll) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// PollSummary is the listing view: the poll plus its response count, as
// counted from the vote log.
type PollSummary struct {
	Poll
	ResponseCount int64 `json:"response_count"`
}
