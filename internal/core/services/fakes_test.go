package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

// In-memory doubles mirroring the postgres adapters' contracts, including
// the unique-index behavior of the vote log.

type fakePollRepo struct {
	mu    sync.Mutex
	polls map[uuid.UUID]*domain.Poll
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{polls: map[uuid.UUID]*domain.Poll{}}
}

func (f *fakePollRepo) Save(_ context.Context, poll *domain.Poll) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls[poll.ID] = poll
	return nil
}

func (f *fakePollRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, ok := f.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return poll, nil
}

func (f *fakePollRepo) GetAllIDs(_ context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for id := range f.polls {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakePollRepo) List(_ context.Context, _ ports.ListPollsInput) ([]*domain.PollSummary, string, error) {
	return nil, "", nil
}

func (f *fakePollRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, ok := f.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.IsActive = false
	return nil
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	votes []*domain.Vote
	seen  map[string]bool
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{seen: map[string]bool{}}
}

func voteKey(pollID uuid.UUID, fingerprint string) string {
	return pollID.String() + "|" + fingerprint
}

func (f *fakeVoteRepo) SaveVote(_ context.Context, vote *domain.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := voteKey(vote.PollID, vote.Fingerprint)
	if f.seen[key] {
		return domain.ErrDuplicateVote
	}
	f.seen[key] = true
	f.votes = append(f.votes, vote)
	return nil
}

func (f *fakeVoteRepo) HasVoted(_ context.Context, pollID uuid.UUID, fingerprint string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[voteKey(pollID, fingerprint)], nil
}

func (f *fakeVoteRepo) ListByPoll(_ context.Context, pollID uuid.UUID) ([]*domain.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Vote
	for _, v := range f.votes {
		if v.PollID == pollID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]*domain.Profile{}}
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return f.profiles[userID], nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, profile *domain.Profile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

// failingCache rejects increments so the log-fold fallback path can be
// exercised; reads and writes otherwise succeed.
type failingCache struct {
	ports.CountsCache
	incrementErr error
}

func (f *failingCache) Increment(ctx context.Context, pollID uuid.UUID, optionIndex int, optionCount int, demo domain.Demographics) (*domain.VoteCounts, error) {
	return nil, f.incrementErr
}

func strPtr(s string) *string { return &s }
