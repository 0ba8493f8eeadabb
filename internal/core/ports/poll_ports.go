package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	GetAllIDs(ctx context.Context) ([]uuid.UUID, error)
	List(ctx context.Context, input ListPollsInput) ([]*domain.PollSummary, string, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type CreatePollInput struct {
	Question  string
	Options   []domain.PollOption
	Tags      []string
	ExpiresAt *time.Time
	CreatorID *uuid.UUID
}

type ListPollsInput struct {
	Sort   string // "latest" or "popular"
	Tag    string
	Cursor string
	Limit  int
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, *domain.PollResults, error)
	ListPolls(ctx context.Context, input ListPollsInput) ([]*domain.PollSummary, string, error)
	Deactivate(ctx context.Context, id string, requesterID uuid.UUID) error
}
