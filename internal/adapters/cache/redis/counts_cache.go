// Package redis implements the aggregate counter cache on a Redis hash per
// poll. Every counter is a separate hash field mutated with HINCRBY, so
// concurrent votes never read-modify-write the whole entry and no update is
// lost.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

// Hash layout under poll:<id>:counts:
//
//	total        grand total
//	opt:<i>      per-option count
//	g:<value>:<i>  per-gender per-option count
//	a:<value>:<i>  per-age-group per-option count
type countsCache struct {
	client *redis.Client
}

func NewCountsCache(client *redis.Client) ports.CountsCache {
	return &countsCache{client: client}
}

func countsKey(pollID uuid.UUID) string {
	return fmt.Sprintf("poll:%s:counts", pollID)
}

func (c *countsCache) Init(ctx context.Context, pollID uuid.UUID, optionCount int) error {
	key := countsKey(pollID)
	pipe := c.client.TxPipeline()
	pipe.HSetNX(ctx, key, "total", 0)
	for i := 0; i < optionCount; i++ {
		pipe.HSetNX(ctx, key, optField(i), 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to init counts for poll %s: %w", pollID, err)
	}
	return nil
}

func (c *countsCache) Get(ctx context.Context, pollID uuid.UUID, optionCount int) (*domain.VoteCounts, error) {
	fields, err := c.client.HGetAll(ctx, countsKey(pollID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read counts for poll %s: %w", pollID, err)
	}
	return decodeFields(fields, optionCount)
}

func (c *countsCache) Increment(ctx context.Context, pollID uuid.UUID, optionIndex int, optionCount int, demo domain.Demographics) (*domain.VoteCounts, error) {
	key := countsKey(pollID)

	pipe := c.client.TxPipeline()
	pipe.HIncrBy(ctx, key, "total", 1)
	pipe.HIncrBy(ctx, key, optField(optionIndex), 1)
	if demo.Gender != nil {
		pipe.HIncrBy(ctx, key, bucketField("g", *demo.Gender, optionIndex), 1)
	}
	if demo.AgeGroup != nil {
		pipe.HIncrBy(ctx, key, bucketField("a", *demo.AgeGroup, optionIndex), 1)
	}
	all := pipe.HGetAll(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to increment counts for poll %s: %w", pollID, err)
	}

	return decodeFields(all.Val(), optionCount)
}

func (c *countsCache) Put(ctx context.Context, pollID uuid.UUID, counts *domain.VoteCounts) error {
	key := countsKey(pollID)

	fields := map[string]any{"total": counts.Total}
	for i, n := range counts.Options {
		fields[optField(i)] = n
	}
	for value, optCounts := range counts.ByGender {
		for i, n := range optCounts {
			fields[bucketField("g", value, i)] = n
		}
	}
	for value, optCounts := range counts.ByAgeGroup {
		for i, n := range optCounts {
			fields[bucketField("a", value, i)] = n
		}
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store counts for poll %s: %w", pollID, err)
	}
	return nil
}

func optField(i int) string {
	return "opt:" + strconv.Itoa(i)
}

func bucketField(prefix, value string, i int) string {
	return prefix + ":" + value + ":" + strconv.Itoa(i)
}

// decodeFields rebuilds a VoteCounts from the raw hash. An empty hash (lost
// or never-initialized entry) decodes to a zeroed structure.
func decodeFields(fields map[string]string, optionCount int) (*domain.VoteCounts, error) {
	counts := domain.NewVoteCounts(optionCount)

	for field, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed counter field %q: %w", field, err)
		}

		switch {
		case field == "total":
			counts.Total = n
		case strings.HasPrefix(field, "opt:"):
			i, err := strconv.Atoi(strings.TrimPrefix(field, "opt:"))
			if err != nil || i < 0 || i >= optionCount {
				continue
			}
			counts.Options[i] = n
		case strings.HasPrefix(field, "g:"):
			setBucket(counts.ByGender, strings.TrimPrefix(field, "g:"), n, optionCount)
		case strings.HasPrefix(field, "a:"):
			setBucket(counts.ByAgeGroup, strings.TrimPrefix(field, "a:"), n, optionCount)
		}
	}

	return counts, nil
}

func setBucket(buckets map[string][]int64, rest string, n int64, optionCount int) {
	// rest is "<value>:<index>"; bucket values never contain a colon.
	sep := strings.LastIndex(rest, ":")
	if sep < 0 {
		return
	}
	value := rest[:sep]
	i, err := strconv.Atoi(rest[sep+1:])
	if err != nil || i < 0 || i >= optionCount {
		return
	}
	if buckets[value] == nil {
		buckets[value] = make([]int64, optionCount)
	}
	buckets[value][i] = n
}
