package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/domain/leave"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `lr.id, lr.employee_id, lr.company_id, lr.leave_type_id,
	lr.start_date, lr.end_date, lr.total_days, lr.reason, lr.status,
	lr.approved_by, lr.approved_at, lr.rejection_reason, lr.cancelled_at,
	lr.created_at, lr.updated_at`

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.CompanyID, &r.LeaveTypeID,
		&r.StartDate, &r.EndDate, &r.TotalDays, &r.Reason, &r.Status,
		&r.ApprovedBy, &r.ApprovedAt, &r.RejectionReason, &r.CancelledAt,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (employee_id, company_id, leave_type_id, start_date, end_date, total_days, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID,
		request.CompanyID,
		request.LeaveTypeID,
		request.StartDate,
		request.EndDate,
		request.TotalDays,
		request.Reason,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", database.MapError(err))
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveRequest, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		WHERE lr.id = $1 AND lr.company_id = $2
	`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", database.MapError(err))
	}

	return request, nil
}

// GetByIDForUpdate implements leave.LeaveRequestRepository. The row lock
// held until the surrounding transaction ends serializes concurrent
// approvals of the same request.
func (r *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string, companyID string) (leave.LeaveRequest, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		WHERE lr.id = $1 AND lr.company_id = $2
		FOR UPDATE OF lr
	`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to lock leave request: %w", database.MapError(err))
	}

	return request, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, request leave.LeaveRequest) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1,
			approved_by = $2,
			approved_at = $3,
			rejection_reason = $4,
			cancelled_at = $5,
			updated_at = NOW()
		WHERE id = $6
	`

	tag, err := q.Exec(ctx, query,
		request.Status,
		request.ApprovedBy,
		request.ApprovedAt,
		request.RejectionReason,
		request.CancelledAt,
		request.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", database.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrRequestNotFound
	}

	return nil
}

// HasOverlapping implements leave.LeaveRequestRepository. Only pending and
// approved requests block; rejected and cancelled ones do not occupy dates.
func (r *leaveRequestRepository) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('pending', 'approved')
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping requests: %w", database.MapError(err))
	}

	return exists, nil
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `, lt.name
		FROM leave_requests lr
		JOIN leave_types lt ON lt.id = lr.leave_type_id
		WHERE lr.employee_id = $1
		ORDER BY lr.start_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", database.MapError(err))
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var req leave.LeaveRequest
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.CompanyID, &req.LeaveTypeID,
			&req.StartDate, &req.EndDate, &req.TotalDays, &req.Reason, &req.Status,
			&req.ApprovedBy, &req.ApprovedAt, &req.RejectionReason, &req.CancelledAt,
			&req.CreatedAt, &req.UpdatedAt, &req.LeaveTypeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leave requests: %w", database.MapError(err))
	}

	return requests, nil
}
