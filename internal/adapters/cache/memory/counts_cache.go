// Package memory is an in-process aggregate counter cache. It backs local
// development when Redis is not configured, and unit tests. Entries do not
// survive restarts, which is acceptable: the vote log can rebuild them.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

type countsCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*domain.VoteCounts
}

func NewCountsCache() ports.CountsCache {
	return &countsCache{
		entries: make(map[uuid.UUID]*domain.VoteCounts),
	}
}

func (c *countsCache) Init(_ context.Context, pollID uuid.UUID, optionCount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[pollID]; !ok {
		c.entries[pollID] = domain.NewVoteCounts(optionCount)
	}
	return nil
}

func (c *countsCache) Get(_ context.Context, pollID uuid.UUID, optionCount int) (*domain.VoteCounts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[pollID]
	if !ok {
		return domain.NewVoteCounts(optionCount), nil
	}
	return entry.Clone(), nil
}

func (c *countsCache) Increment(_ context.Context, pollID uuid.UUID, optionIndex int, optionCount int, demo domain.Demographics) (*domain.VoteCounts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[pollID]
	if !ok {
		entry = domain.NewVoteCounts(optionCount)
		c.entries[pollID] = entry
	}
	entry.Increment(optionIndex, demo)
	return entry.Clone(), nil
}

func (c *countsCache) Put(_ context.Context, pollID uuid.UUID, counts *domain.VoteCounts) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[pollID] = counts.Clone()
	return nil
}
