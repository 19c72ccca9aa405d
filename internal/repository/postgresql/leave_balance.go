package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronohq/attendance-engine-go/internal/domain/leave"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{db: db}
}

// Create implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, leave_type_id, year, initial_days, accrued_days, used_days, current_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.EmployeeID,
		balance.LeaveTypeID,
		balance.Year,
		balance.InitialDays,
		balance.AccruedDays,
		balance.UsedDays,
		balance.CurrentDays,
	).Scan(&balance.ID, &balance.CreatedAt, &balance.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_leave_balances_employee_type_year") {
			return leave.LeaveBalance{}, leave.ErrBalanceAlreadyExists
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", database.MapError(err))
	}

	return balance, nil
}

// GetByEmployeeTypeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
			   lb.initial_days, lb.accrued_days, lb.used_days, lb.current_days,
			   lb.created_at, lb.updated_at, lt.name
		FROM leave_balances lb
		JOIN leave_types lt ON lt.id = lb.leave_type_id
		WHERE lb.employee_id = $1 AND lb.leave_type_id = $2 AND lb.year = $3
	`

	var b leave.LeaveBalance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID, year).Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.InitialDays, &b.AccruedDays, &b.UsedDays, &b.CurrentDays,
		&b.CreatedAt, &b.UpdatedAt, &b.LeaveTypeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", database.MapError(err))
	}

	return b, nil
}

// GetByEmployeeAndYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
			   lb.initial_days, lb.accrued_days, lb.used_days, lb.current_days,
			   lb.created_at, lb.updated_at, lt.name
		FROM leave_balances lb
		JOIN leave_types lt ON lt.id = lb.leave_type_id
		WHERE lb.employee_id = $1 AND lb.year = $2
		ORDER BY lt.name ASC
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", database.MapError(err))
	}
	defer rows.Close()

	var balances []leave.LeaveBalance
	for rows.Next() {
		var b leave.LeaveBalance
		if err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
			&b.InitialDays, &b.AccruedDays, &b.UsedDays, &b.CurrentDays,
			&b.CreatedAt, &b.UpdatedAt, &b.LeaveTypeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leave balances: %w", database.MapError(err))
	}

	return balances, nil
}

// AccrueAll implements leave.LeaveBalanceRepository. One statement applies
// the type's monthly rate to every balance of the year and recomputes
// current from the full identity initial + accrued - used, clamped at the
// cap where one is defined. Recomputing rather than incrementing matters: a
// balance sitting at its cap keeps banking accrued days, and a later debit
// frees headroom that the next accrual restores from the banked total. The
// arithmetic happens row-locked inside the UPDATE, so concurrent debits
// interleave safely.
func (r *leaveBalanceRepository) AccrueAll(ctx context.Context, year int) (int64, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances lb
		SET accrued_days = lb.accrued_days + lt.monthly_accrual_rate,
			current_days = LEAST(
				lb.initial_days + lb.accrued_days + lt.monthly_accrual_rate - lb.used_days,
				COALESCE(lt.cap_days, lb.initial_days + lb.accrued_days + lt.monthly_accrual_rate - lb.used_days)
			),
			updated_at = NOW()
		FROM leave_types lt
		WHERE lt.id = lb.leave_type_id
		  AND lb.year = $1
		  AND lt.is_active = true
		  AND lt.monthly_accrual_rate > 0
	`

	tag, err := q.Exec(ctx, query, year)
	if err != nil {
		return 0, fmt.Errorf("failed to accrue leave balances: %w", database.MapError(err))
	}

	return tag.RowsAffected(), nil
}

// Debit implements leave.LeaveBalanceRepository. The current_days >= days
// predicate makes the debit conditional; a request for more days than remain
// simply matches no row.
func (r *leaveBalanceRepository) Debit(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) (leave.LeaveBalance, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days + $1,
			current_days = current_days - $1,
			updated_at = NOW()
		WHERE employee_id = $2 AND leave_type_id = $3 AND year = $4
		  AND current_days >= $1
		RETURNING id, employee_id, leave_type_id, year,
				  initial_days, accrued_days, used_days, current_days,
				  created_at, updated_at
	`

	var b leave.LeaveBalance
	err := q.QueryRow(ctx, query, days, employeeID, leaveTypeID, year).Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.InitialDays, &b.AccruedDays, &b.UsedDays, &b.CurrentDays,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the balance does not exist or it cannot cover the days;
			// both present to the caller as an insufficient balance.
			return leave.LeaveBalance{}, leave.ErrInsufficientBalance
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to debit leave balance: %w", database.MapError(err))
	}

	return b, nil
}

// TryMarkPeriodAccrued implements leave.LeaveBalanceRepository. The unique
// period column is the claim token for system-wide exactly-one accrual.
func (r *leaveBalanceRepository) TryMarkPeriodAccrued(ctx context.Context, period string) (bool, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_accrual_periods (period)
		VALUES ($1)
		ON CONFLICT (period) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, period)
	if err != nil {
		return false, fmt.Errorf("failed to claim accrual period: %w", database.MapError(err))
	}

	return tag.RowsAffected() == 1, nil
}
