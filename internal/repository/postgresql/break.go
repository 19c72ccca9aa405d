package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/domain/session"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type breakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) session.BreakRepository {
	return &breakRepository{db: db}
}

// Create implements session.BreakRepository.
func (r *breakRepository) Create(ctx context.Context, b session.Break) (session.Break, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO session_breaks (session_id, type, started_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, b.SessionID, b.Type, b.StartedAt).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_breaks_one_open_per_session") {
			return session.Break{}, session.ErrBreakAlreadyOpen
		}
		return session.Break{}, fmt.Errorf("failed to create break: %w", database.MapError(err))
	}

	return b, nil
}

// GetOpenBySession implements session.BreakRepository.
func (r *breakRepository) GetOpenBySession(ctx context.Context, sessionID string) (session.Break, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, session_id, type, started_at, ended_at, duration_minutes, created_at, updated_at
		FROM session_breaks
		WHERE session_id = $1 AND ended_at IS NULL
		LIMIT 1
	`

	var b session.Break
	err := q.QueryRow(ctx, query, sessionID).Scan(
		&b.ID, &b.SessionID, &b.Type, &b.StartedAt, &b.EndedAt, &b.DurationMinutes,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Break{}, session.ErrNoOpenBreak
		}
		return session.Break{}, fmt.Errorf("failed to get open break: %w", database.MapError(err))
	}

	return b, nil
}

// Close implements session.BreakRepository.
func (r *breakRepository) Close(ctx context.Context, id string, endedAt time.Time, durationMinutes int) (session.Break, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE session_breaks
		SET ended_at = $1, duration_minutes = $2, updated_at = NOW()
		WHERE id = $3 AND ended_at IS NULL
		RETURNING id, session_id, type, started_at, ended_at, duration_minutes, created_at, updated_at
	`

	var b session.Break
	err := q.QueryRow(ctx, query, endedAt, durationMinutes, id).Scan(
		&b.ID, &b.SessionID, &b.Type, &b.StartedAt, &b.EndedAt, &b.DurationMinutes,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Break{}, session.ErrNoOpenBreak
		}
		return session.Break{}, fmt.Errorf("failed to close break: %w", database.MapError(err))
	}

	return b, nil
}

// ListBySession implements session.BreakRepository.
func (r *breakRepository) ListBySession(ctx context.Context, sessionID string) ([]session.Break, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, session_id, type, started_at, ended_at, duration_minutes, created_at, updated_at
		FROM session_breaks
		WHERE session_id = $1
		ORDER BY started_at ASC
	`

	rows, err := q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", database.MapError(err))
	}
	defer rows.Close()

	var breaks []session.Break
	for rows.Next() {
		var b session.Break
		if err := rows.Scan(
			&b.ID, &b.SessionID, &b.Type, &b.StartedAt, &b.EndedAt, &b.DurationMinutes,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		breaks = append(breaks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read breaks: %w", database.MapError(err))
	}

	return breaks, nil
}
