package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronohq/attendance-engine-go/internal/domain/leave"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveTypeRepository struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepository{db: db}
}

// Create implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_types (
			company_id, name, code, default_allotment_days, monthly_accrual_rate,
			cap_days, is_paid, requires_approval, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		leaveType.CompanyID,
		leaveType.Name,
		leaveType.Code,
		leaveType.DefaultAllotmentDays,
		leaveType.MonthlyAccrualRate,
		leaveType.CapDays,
		leaveType.IsPaid,
		leaveType.RequiresApproval,
		leaveType.IsActive,
	).Scan(&leaveType.ID, &leaveType.CreatedAt, &leaveType.UpdatedAt)
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", database.MapError(err))
	}

	return leaveType, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveType, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, code, default_allotment_days, monthly_accrual_rate,
			   cap_days, is_paid, requires_approval, is_active, created_at, updated_at
		FROM leave_types
		WHERE id = $1 AND company_id = $2
	`

	var t leave.LeaveType
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&t.ID, &t.CompanyID, &t.Name, &t.Code, &t.DefaultAllotmentDays, &t.MonthlyAccrualRate,
		&t.CapDays, &t.IsPaid, &t.RequiresApproval, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", database.MapError(err))
	}

	return t, nil
}

// GetByCompanyID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) GetByCompanyID(ctx context.Context, companyID string) ([]leave.LeaveType, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, code, default_allotment_days, monthly_accrual_rate,
			   cap_days, is_paid, requires_approval, is_active, created_at, updated_at
		FROM leave_types
		WHERE company_id = $1 AND is_active = true
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", database.MapError(err))
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		var t leave.LeaveType
		if err := rows.Scan(
			&t.ID, &t.CompanyID, &t.Name, &t.Code, &t.DefaultAllotmentDays, &t.MonthlyAccrualRate,
			&t.CapDays, &t.IsPaid, &t.RequiresApproval, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leave types: %w", database.MapError(err))
	}

	return types, nil
}
