package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// uniqueViolation is the SQLSTATE raised when the (poll_id, fingerprint)
// unique index rejects a second vote from the same identity.
const uniqueViolation = "23505"

func (r *voteRepository) SaveVote(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO responses (id, poll_id, option_index, user_id, fingerprint, gender, age_group, region, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		vote.ID, vote.PollID, vote.OptionIndex, vote.UserID, vote.Fingerprint,
		vote.Demographics.Gender, vote.Demographics.AgeGroup, vote.Demographics.Region,
		vote.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateVote
		}
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

func (r *voteRepository) HasVoted(ctx context.Context, pollID uuid.UUID, fingerprint string) (bool, error) {
	query := `SELECT 1 FROM responses WHERE poll_id = $1 AND fingerprint = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, pollID, fingerprint).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func (r *voteRepository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]*domain.Vote, error) {
	query := `
		SELECT id, poll_id, option_index, user_id, fingerprint, gender, age_group, region, created_at
		FROM responses
		WHERE poll_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []*domain.Vote
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(
			&v.ID, &v.PollID, &v.OptionIndex, &v.UserID, &v.Fingerprint,
			&v.Demographics.Gender, &v.Demographics.AgeGroup, &v.Demographics.Region,
			&v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}
