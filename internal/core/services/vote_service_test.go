package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibepulse/api/internal/adapters/cache/memory"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

type voteFixture struct {
	pollRepo    *fakePollRepo
	voteRepo    *fakeVoteRepo
	profileRepo *fakeProfileRepo
	counts      ports.CountsCache
	service     ports.VoteService
}

func newVoteFixture() *voteFixture {
	f := &voteFixture{
		pollRepo:    newFakePollRepo(),
		voteRepo:    newFakeVoteRepo(),
		profileRepo: newFakeProfileRepo(),
		counts:      memory.NewCountsCache(),
	}
	f.service = NewVoteService(f.pollRepo, f.voteRepo, f.profileRepo, f.counts)
	return f
}

func (f *voteFixture) addPoll(t *testing.T, optionTexts ...string) *domain.Poll {
	t.Helper()
	options := make([]domain.PollOption, len(optionTexts))
	for i, text := range optionTexts {
		options[i] = domain.PollOption{Text: text}
	}
	poll := &domain.Poll{
		ID:        uuid.New(),
		Question:  "Which one?",
		Options:   options,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.pollRepo.Save(context.Background(), poll))
	require.NoError(t, f.counts.Init(context.Background(), poll.ID, len(options)))
	return poll
}

func TestSubmitVoteSingleVoteInvariant(t *testing.T) {
	f := newVoteFixture()
	poll := f.addPoll(t, "A", "B")
	ctx := context.Background()

	res, err := f.service.SubmitVote(ctx, ports.SubmitVoteInput{
		PollID: poll.ID, OptionIndex: 0, Fingerprint: "f1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)

	// Same fingerprint again, even with a different option.
	_, err = f.service.SubmitVote(ctx, ports.SubmitVoteInput{
		PollID: poll.ID, OptionIndex: 1, Fingerprint: "f1",
	})
	require.ErrorIs(t, err, domain.ErrDuplicateVote)

	counts, err := f.counts.Get(ctx, poll.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Total)
	assert.Equal(t, []int64{1, 0}, counts.Options)

	votes, err := f.voteRepo.ListByPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Len(t, votes, 1)
}

func TestSubmitVoteCountConservation(t *testing.T) {
	f := newVoteFixture()
	poll := f.addPoll(t, "A", "B", "C")
	ctx := context.Background()

	distribution := []int{0, 1, 0, 2, 2, 1, 0}
	for i, optionIndex := range distribution {
		_, err := f.service.SubmitVote(ctx, ports.SubmitVoteInput{
			PollID:      poll.ID,
			OptionIndex: optionIndex,
			Fingerprint: uuid.NewString(),
		})
		require.NoError(t, err, "vote %d", i)
	}

	counts, err := f.counts.Get(ctx, poll.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(len(distribution)), counts.Total)

	var sum int64
	for _, n := range counts.Options {
		sum += n
	}
	assert.Equal(t, counts.Total, sum)
	assert.Equal(t, []int64{3, 2, 2}, counts.Options)
}

func TestSubmitVoteOptionIndexBounds(t *testing.T) {
	f := newVoteFixture()
	poll := f.addPoll(t, "A", "B")
	ctx := context.Background()

	for _, optionIndex := range []int{-1, 2, 100} {
		_, err := f.service.SubmitVote(ctx, ports.SubmitVoteInput{
			PollID: poll.ID, OptionIndex: optionIndex, Fingerprint: "f1",
		})
		require.ErrorIs(t, err, domain.ErrInvalidInput, "optionIndex=%d", optionIndex)
	}

	votes, err := f.voteRepo.ListByPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Empty(t, votes, "rejected votes must not reach the log")

	counts, err := f.counts.Get(ctx, poll.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Total, "rejected votes must not touch the cache")
}

func TestSubmitVoteEmptyFingerprint(t *testing.T) {
	f := newVoteFixture()
	poll := f.addPoll(t, "A", "B")

	_, err := f.service.SubmitVote(context.Background(), ports.SubmitVoteInput{
		PollID: poll.ID, OptionIndex: 0, Fingerprint: "",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmitVotePollNotFound(t *testing.T) {
	f := newVoteFixture()

	_, err := f.service.SubmitVote(context.Background(), ports.SubmitVoteInput{
		PollID: uuid.New(), OptionIndex: 0, Fingerprint: "f1",
	})
	require.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestSubmitVoteInactivePoll(t *testing.T) {
	f := newVoteFixture()
	poll := f.addPoll(t, "A", "B")
	poll.IsActive = false

	_, err := f.service.SubmitVote(context.Background(), ports.SubmitVoteInput{
		PollID: poll.ID, OptionIndex: 0, Fingerprint: "f1",
	})
	require.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestSubmitVoteExpiredPoll(t *testing.T) {
	f := newVoteFixture()
	poll := f.addPoll(t, "A", "B")
	expired := time.Now().Add(-time.Second)
	poll.ExpiresAt = &expired

	_, err := f.service.SubmitVote(context.Background(), ports.SubmitVoteInput{
		PollID: poll.ID, OptionIndex: 0, Fingerprint: "brand-new",
	})
	require.ErrorIs(t, err, domain.ErrPollExpired)
}

func TestSubmitVoteConsentRespected(t *testing.T) {
	f := newVoteFixture()
	poll := f.addPoll(t, "A", "B")
	ctx := context.Background()

	userID := uuid.New()
	f.profileRepo.profiles[userID] = &domain.Profile{
		UserID:        userID,
		Gender:        strPtr("female"),
		AgeGroup:      strPtr("20s"),
		ShareGender:   false,
		ShareAgeGroup: true,
	}

	_, err := f.service.SubmitVote(ctx, ports.SubmitVoteInput{
		PollID: poll.ID, OptionIndex: 0, Fingerprint: "f1", UserID: &userID,
	})
	require.NoError(t, err)

	counts, err := f.counts.Get(ctx, poll.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, counts.ByGender, "unshared gender must not reach any bucket")
	assert.Equal(t, []int64{1, 0}, counts.ByAgeGroup["20s"])

	// The logged snapshot honors consent too.
	votes, err := f.voteRepo.ListByPoll(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Nil(t, votes[0].Demographics.Gender)
	require.NotNil(t, votes[0].Demographics.AgeGroup)
	assert.Equal(t, "20s", *votes[0].Demographics.AgeGroup)
}

func TestSubmitVoteAnonymousHasNoDemographics(t *testing.T) {
	f := newVoteFixture()
	poll := f.addPoll(t, "A", "B")
	ctx := context.Background()

	_, err := f.service.SubmitVote(ctx, ports.SubmitVoteInput{
		PollID: poll.ID, OptionIndex: 1, Fingerprint: "anon",
	})
	require.NoError(t, err)

	counts, err := f.counts.Get(ctx, poll.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, counts.ByGender)
	assert.Empty(t, counts.ByAgeGroup)
}

func TestSubmitVoteCacheFailureStillAccepts(t *testing.T) {
	f := newVoteFixture()
	poll := f.addPoll(t, "A", "B")
	ctx := context.Background()

	broken := &failingCache{CountsCache: f.counts, incrementErr: errors.New("cache down")}
	service := NewVoteService(f.pollRepo, f.voteRepo, f.profileRepo, broken)

	res, err := service.SubmitVote(ctx, ports.SubmitVoteInput{
		PollID: poll.ID, OptionIndex: 0, Fingerprint: "f1",
	})
	require.NoError(t, err, "a cache fault must not reject a durably logged vote")
	assert.Equal(t, int64(1), res.Total, "results fall back to a vote log fold")

	votes, err := f.voteRepo.ListByPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Len(t, votes, 1)
}

func TestSubmitVoteEndToEndScenario(t *testing.T) {
	f := newVoteFixture()
	poll := f.addPoll(t, "A", "B")
	ctx := context.Background()

	_, err := f.service.SubmitVote(ctx, ports.SubmitVoteInput{
		PollID: poll.ID, OptionIndex: 0, Fingerprint: "f1",
	})
	require.NoError(t, err)

	res, err := f.service.SubmitVote(ctx, ports.SubmitVoteInput{
		PollID: poll.ID, OptionIndex: 0, Fingerprint: "f2",
	})
	require.NoError(t, err)

	_, err = f.service.SubmitVote(ctx, ports.SubmitVoteInput{
		PollID: poll.ID, OptionIndex: 1, Fingerprint: "f1",
	})
	require.ErrorIs(t, err, domain.ErrDuplicateVote)

	counts, err := f.counts.Get(ctx, poll.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Total)
	assert.Equal(t, []int64{2, 0}, counts.Options)

	assert.Equal(t, 100.0, res.Options[0].Percentage)
	assert.Equal(t, 0.0, res.Options[1].Percentage)
}
