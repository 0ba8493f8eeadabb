package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

type rebuildService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	counts   ports.CountsCache
}

func NewRebuildService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, counts ports.CountsCache) ports.RebuildService {
	return &rebuildService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		counts:   counts,
	}
}

// RebuildCounts folds a poll's vote log into a fresh aggregate entry and
// overwrites the cache with it. The log is the system of record; this is
// the recovery path for cache loss or drift.
func (s *rebuildService) RebuildCounts(ctx context.Context, pollID uuid.UUID) (*domain.VoteCounts, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	votes, err := s.voteRepo.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes for poll %s: %w", pollID, err)
	}

	counts := domain.NewVoteCounts(len(poll.Options))
	for _, v := range votes {
		if v.OptionIndex < 0 || v.OptionIndex >= len(poll.Options) {
			continue
		}
		counts.Increment(v.OptionIndex, v.Demographics)
	}

	if err := s.counts.Put(ctx, pollID, counts); err != nil {
		return nil, fmt.Errorf("failed to store rebuilt counts for poll %s: %w", pollID, err)
	}

	return counts, nil
}

func (s *rebuildService) RebuildAll(ctx context.Context) error {
	ids, err := s.pollRepo.GetAllIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch poll ids: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(ids))

	for _, id := range ids {
		wg.Add(1)
		go func(pollID uuid.UUID) {
			defer wg.Done()
			if _, err := s.RebuildCounts(ctx, pollID); err != nil {
				errChan <- fmt.Errorf("failed to rebuild poll %s: %w", pollID, err)
			}
		}(id)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}

	return nil
}
