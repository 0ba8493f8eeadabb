package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
)

// CountsCache is the aggregate counter tier. It is derivable from the vote
// log at all times; adapters may lose entries, and Get returns a zeroed
// entry rather than an error when nothing is stored yet.
type CountsCache interface {
	Init(ctx context.Context, pollID uuid.UUID, optionCount int) error
	Get(ctx context.Context, pollID uuid.UUID, optionCount int) (*domain.VoteCounts, error)
	// Increment applies one vote atomically per counter and returns the
	// resulting entry. A missing entry is re-initialized in place.
	Increment(ctx context.Context, pollID uuid.UUID, optionIndex int, optionCount int, demo domain.Demographics) (*domain.VoteCounts, error)
	// Put overwrites the whole entry; used by rebuilds.
	Put(ctx context.Context, pollID uuid.UUID, counts *domain.VoteCounts) error
}

type RebuildService interface {
	RebuildCounts(ctx context.Context, pollID uuid.UUID) (*domain.VoteCounts, error)
	RebuildAll(ctx context.Context) error
}
