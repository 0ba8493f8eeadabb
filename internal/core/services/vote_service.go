package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

type voteService struct {
	pollRepo    ports.PollRepository
	voteRepo    ports.VoteRepository
	profileRepo ports.ProfileRepository
	counts      ports.CountsCache
	now         func() time.Time
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, profileRepo ports.ProfileRepository, counts ports.CountsCache) ports.VoteService {
	return &voteService{
		pollRepo:    pollRepo,
		voteRepo:    voteRepo,
		profileRepo: profileRepo,
		counts:      counts,
		now:         time.Now,
	}
}

// SubmitVote accepts at most one vote per (poll, fingerprint). The
// fingerprint pre-check is a fast path only; the unique index on the vote
// log is what actually closes the race between concurrent submissions.
func (s *voteService) SubmitVote(ctx context.Context, input ports.SubmitVoteInput) (*domain.PollResults, error) {
	if input.Fingerprint == "" {
		return nil, domain.ErrInvalidInput
	}

	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}
	if !poll.IsActive {
		return nil, domain.ErrPollNotFound
	}

	if input.OptionIndex < 0 || input.OptionIndex >= len(poll.Options) {
		return nil, domain.ErrInvalidInput
	}

	if poll.Expired(s.now()) {
		return nil, domain.ErrPollExpired
	}

	hasVoted, err := s.voteRepo.HasVoted(ctx, input.PollID, input.Fingerprint)
	if err != nil {
		return nil, err
	}
	if hasVoted {
		return nil, domain.ErrDuplicateVote
	}

	demo := s.demographicSnapshot(ctx, input.UserID)

	vote := &domain.Vote{
		ID:           uuid.New(),
		PollID:       input.PollID,
		OptionIndex:  input.OptionIndex,
		UserID:       input.UserID,
		Fingerprint:  input.Fingerprint,
		Demographics: demo,
		CreatedAt:    s.now(),
	}

	if err := s.voteRepo.SaveVote(ctx, vote); err != nil {
		return nil, err
	}

	counts, err := s.counts.Increment(ctx, input.PollID, input.OptionIndex, len(poll.Options), demo)
	if err != nil {
		// The vote is durably logged, so a cache fault does not fail the
		// submission. Serve counts folded from the log instead and leave
		// the cache for the rebuild job.
		slog.Warn("counts cache increment failed, folding from vote log",
			"poll_id", input.PollID, "error", err)
		counts, err = s.foldCounts(ctx, input.PollID, len(poll.Options))
		if err != nil {
			return nil, err
		}
	}

	return domain.FormatResults(counts), nil
}

// demographicSnapshot reads the voter's consented attributes at vote time.
// Anonymous votes and profile-store faults both yield an empty snapshot; a
// failed profile read must not reject an otherwise valid vote.
func (s *voteService) demographicSnapshot(ctx context.Context, userID *uuid.UUID) domain.Demographics {
	if userID == nil {
		return domain.Demographics{}
	}

	profile, err := s.profileRepo.GetByUserID(ctx, *userID)
	if err != nil {
		slog.Warn("profile lookup failed, recording vote without demographics",
			"user_id", *userID, "error", err)
		return domain.Demographics{}
	}
	if profile == nil {
		return domain.Demographics{}
	}
	return profile.SharedDemographics()
}

func (s *voteService) foldCounts(ctx context.Context, pollID uuid.UUID, optionCount int) (*domain.VoteCounts, error) {
	votes, err := s.voteRepo.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	counts := domain.NewVoteCounts(optionCount)
	for _, v := range votes {
		if v.OptionIndex < 0 || v.OptionIndex >= optionCount {
			continue
		}
		counts.Increment(v.OptionIndex, v.Demographics)
	}
	return counts, nil
}
