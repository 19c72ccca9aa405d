package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronohq/attendance-engine-go/internal/domain/exception"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const exceptionColumns = `id, session_id, company_id, kind, reason, status,
	requester_id, approver_id, approver_notes, resolved_at, created_at, updated_at`

type exceptionRepository struct {
	db *database.DB
}

func NewExceptionRepository(db *database.DB) exception.Repository {
	return &exceptionRepository{db: db}
}

func scanException(row pgx.Row) (exception.Request, error) {
	var r exception.Request
	err := row.Scan(
		&r.ID, &r.SessionID, &r.CompanyID, &r.Kind, &r.Reason, &r.Status,
		&r.RequesterID, &r.ApproverID, &r.ApproverNotes, &r.ResolvedAt,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements exception.Repository.
func (e *exceptionRepository) Create(ctx context.Context, r exception.Request) (exception.Request, error) {
	q := database.GetQuerier(ctx, e.db)

	query := `
		INSERT INTO exception_requests (session_id, company_id, kind, reason, status, requester_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		r.SessionID, r.CompanyID, r.Kind, r.Reason, r.Status, r.RequesterID,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_exceptions_pending_session_kind") {
			return exception.Request{}, exception.ErrDuplicatePendingRequest
		}
		return exception.Request{}, fmt.Errorf("failed to create exception request: %w", database.MapError(err))
	}

	return r, nil
}

// GetByID implements exception.Repository.
func (e *exceptionRepository) GetByID(ctx context.Context, id string, companyID string) (exception.Request, error) {
	q := database.GetQuerier(ctx, e.db)

	query := `
		SELECT ` + exceptionColumns + `
		FROM exception_requests
		WHERE id = $1 AND company_id = $2
	`

	r, err := scanException(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exception.Request{}, exception.ErrRequestNotFound
		}
		return exception.Request{}, fmt.Errorf("failed to get exception request: %w", database.MapError(err))
	}

	return r, nil
}

// UpdateStatus implements exception.Repository. The pending predicate in the
// WHERE clause is the race arbiter: of two concurrent resolutions exactly
// one matches the row, the other sees ErrAlreadyResolved.
func (e *exceptionRepository) UpdateStatus(ctx context.Context, id string, status exception.Status, approverID string, notes *string) (exception.Request, error) {
	q := database.GetQuerier(ctx, e.db)

	query := `
		UPDATE exception_requests
		SET status = $1, approver_id = $2, approver_notes = $3, resolved_at = NOW(), updated_at = NOW()
		WHERE id = $4 AND status = 'pending'
		RETURNING ` + exceptionColumns

	r, err := scanException(q.QueryRow(ctx, query, status, approverID, notes, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exception.Request{}, exception.ErrAlreadyResolved
		}
		return exception.Request{}, fmt.Errorf("failed to update exception request: %w", database.MapError(err))
	}

	return r, nil
}

// ListBySession implements exception.Repository.
func (e *exceptionRepository) ListBySession(ctx context.Context, sessionID string, companyID string) ([]exception.Request, error) {
	q := database.GetQuerier(ctx, e.db)

	query := `
		SELECT ` + exceptionColumns + `
		FROM exception_requests
		WHERE session_id = $1 AND company_id = $2
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, sessionID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exception requests: %w", database.MapError(err))
	}
	defer rows.Close()

	var requests []exception.Request
	for rows.Next() {
		r, err := scanException(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exception request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exception requests: %w", database.MapError(err))
	}

	return requests, nil
}
