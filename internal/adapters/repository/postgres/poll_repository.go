package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vibepulse/api/internal/core/domain"
	"github.com/vibepulse/api/internal/core/ports"
)

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, creator_id, question, is_active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, queryPoll, poll.ID, poll.CreatorID, poll.Question, poll.IsActive, poll.ExpiresAt, poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryOption := `
		INSERT INTO poll_options (poll_id, idx, text, image_url)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, queryOption)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for i, opt := range poll.Options {
		_, err = stmt.ExecContext(ctx, poll.ID, i, opt.Text, opt.ImageURL)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	queryTag := `INSERT INTO poll_tags (poll_id, tag) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, tag := range poll.Tags {
		if _, err = tx.ExecContext(ctx, queryTag, poll.ID, tag); err != nil {
			return fmt.Errorf("failed to insert tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	queryPoll := `
		SELECT id, creator_id, question, is_active, expires_at, created_at
		FROM polls
		WHERE id = $1 AND deleted_at IS NULL
	`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, queryPoll, id).Scan(
		&poll.ID, &poll.CreatorID, &poll.Question, &poll.IsActive, &poll.ExpiresAt, &poll.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	tags, err := r.fetchTags(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Tags = tags

	return &poll, nil
}

func (r *pollRepository) GetAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM polls WHERE deleted_at IS NULL`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan poll id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating poll ids: %w", err)
	}
	return ids, nil
}

// List pages through active, unexpired polls. The cursor is the created_at
// of the last row of the previous page, formatted as RFC3339Nano.
func (r *pollRepository) List(ctx context.Context, input ports.ListPollsInput) ([]*domain.PollSummary, string, error) {
	query := `
		SELECT p.id, p.creator_id, p.question, p.is_active, p.expires_at, p.created_at,
		       COUNT(v.id) AS response_count
		FROM polls p
		LEFT JOIN responses v ON p.id = v.poll_id
		WHERE p.deleted_at IS NULL
		  AND p.is_active = true
		  AND (p.expires_at IS NULL OR p.expires_at > NOW())
	`
	args := []any{}

	if input.Tag != "" {
		args = append(args, input.Tag)
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM poll_tags t WHERE t.poll_id = p.id AND t.tag = $%d)", len(args))
	}

	if input.Cursor != "" {
		args = append(args, input.Cursor)
		query += fmt.Sprintf(" AND p.created_at < $%d", len(args))
	}

	query += " GROUP BY p.id"
	if input.Sort == "popular" {
		query += " ORDER BY response_count DESC, p.created_at DESC"
	} else {
		query += " ORDER BY p.created_at DESC"
	}

	args = append(args, input.Limit+1)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []*domain.PollSummary
	for rows.Next() {
		var p domain.PollSummary
		if err := rows.Scan(&p.ID, &p.CreatorID, &p.Question, &p.IsActive, &p.ExpiresAt, &p.CreatedAt, &p.ResponseCount); err != nil {
			return nil, "", fmt.Errorf("failed to scan poll: %w", err)
		}

		options, err := r.fetchOptions(ctx, p.ID)
		if err != nil {
			return nil, "", err
		}
		p.Options = options

		polls = append(polls, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating polls: %w", err)
	}

	nextCursor := ""
	if len(polls) > input.Limit {
		polls = polls[:input.Limit]
		nextCursor = polls[len(polls)-1].CreatedAt.Format(time.RFC3339Nano)
	}

	return polls, nextCursor, nil
}

func (r *pollRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE polls SET is_active = false WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate poll: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID uuid.UUID) ([]domain.PollOption, error) {
	queryOptions := `
		SELECT text, image_url
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY idx
	`
	rows, err := r.db.QueryContext(ctx, queryOptions, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.Text, &opt.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}

func (r *pollRepository) fetchTags(ctx context.Context, pollID uuid.UUID) ([]string, error) {
	query := `SELECT tag FROM poll_tags WHERE poll_id = $1 ORDER BY tag`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}
