package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

const (
	questionMinLen = 5
	questionMaxLen = 200
	optionsMin     = 2
	optionsMax     = 4
)

type pollService struct {
	repo   ports.PollRepository
	counts ports.CountsCache
	now    func() time.Time
}

func NewPollService(repo ports.PollRepository, counts ports.CountsCache) ports.PollService {
	return &pollService{
		repo:   repo,
		counts: counts,
		now:    time.Now,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	question := strings.TrimSpace(input.Question)
	if n := utf8.RuneCountInString(question); n < questionMinLen || n > questionMaxLen {
		return nil, domain.ErrInvalidInput
	}

	if len(input.Options) < optionsMin || len(input.Options) > optionsMax {
		return nil, domain.ErrInvalidInput
	}

	var options []domain.PollOption
	for _, opt := range input.Options {
		text := strings.TrimSpace(opt.Text)
		if text == "" {
			continue
		}
		options = append(options, domain.PollOption{Text: text, ImageURL: opt.ImageURL})
	}
	if len(options) < optionsMin {
		return nil, domain.ErrInvalidInput
	}

	var tags []string
	for _, tag := range input.Tags {
		tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	poll := &domain.Poll{
		ID:        uuid.New(),
		CreatorID: input.CreatorID,
		Question:  question,
		Options:   options,
		Tags:      tags,
		IsActive:  true,
		ExpiresAt: input.ExpiresAt,
		CreatedAt: s.now(),
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	// Seed a zeroed cache entry so the first result read needs no fold.
	if err := s.counts.Init(ctx, poll.ID, len(poll.Options)); err != nil {
		// Tolerated: Get re-initializes on miss.
		return poll, nil
	}

	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, *domain.PollResults, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil, domain.ErrInvalidPollID
	}

	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, nil, err
	}

	counts, err := s.counts.Get(ctx, pollID, len(poll.Options))
	if err != nil {
		counts = domain.NewVoteCounts(len(poll.Options))
	}

	return poll, domain.FormatResults(counts), nil
}

func (s *pollService) ListPolls(ctx context.Context, input ports.ListPollsInput) ([]*domain.PollSummary, string, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 50 {
		input.Limit = 50
	}
	if input.Sort != "popular" {
		input.Sort = "latest"
	}

	return s.repo.List(ctx, input)
}

func (s *pollService) Deactivate(ctx context.Context, id string, requesterID uuid.UUID) error {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrInvalidPollID
	}

	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}

	if poll.CreatorID == nil || *poll.CreatorID != requesterID {
		return domain.ErrUnauthorized
	}

	return s.repo.Deactivate(ctx, pollID)
}
