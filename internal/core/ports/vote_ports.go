package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
)

type VoteRepository interface {
	// SaveVote appends one row to the vote log. A second row for the same
	// (poll, fingerprint) violates the unique index and is surfaced as
	// domain.ErrDuplicateVote.
	SaveVote(ctx context.Context, vote *domain.Vote) error
	HasVoted(ctx context.Context, pollID uuid.UUID, fingerprint string) (bool, error)
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]*domain.Vote, error)
}

type SubmitVoteInput struct {
	PollID      uuid.UUID
	OptionIndex int
	Fingerprint string
	UserID      *uuid.UUID
}

type VoteService interface {
	SubmitVote(ctx context.Context, input SubmitVoteInput) (*domain.PollResults, error)
}
