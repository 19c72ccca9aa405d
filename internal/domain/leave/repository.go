package leave

import (
	"context"
	"time"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string, companyID string) (LeaveType, error)
	GetByCompanyID(ctx context.Context, companyID string) ([]LeaveType, error)
}

// LeaveBalanceRepository - interface for leave_balances table. Balance rows
// are mutated only through accrual and debit; current_days arithmetic lives
// in SQL so the non-negative and cap invariants hold under race.
type LeaveBalanceRepository interface {
	// Create inserts a zeroed/default balance. Returns
	// ErrBalanceAlreadyExists on the unique (employee, type, year) key.
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)

	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)

	GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)

	// AccrueAll adds one period's accrual to every balance of the given year
	// whose type accrues, clamping current at the type's cap. Returns the
	// number of balances touched. Not idempotent per call.
	AccrueAll(ctx context.Context, year int) (int64, error)

	// Debit atomically consumes days from a balance, failing with
	// ErrInsufficientBalance when it would go negative. Racing debits
	// serialize on the row.
	Debit(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) (LeaveBalance, error)

	// TryMarkPeriodAccrued records that period was accrued; returns false if
	// some other run already claimed it. Combined with AccrueAll in one
	// transaction this gives exactly-one accrual per period system-wide.
	TryMarkPeriodAccrued(ctx context.Context, period string) (bool, error)
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string, companyID string) (LeaveRequest, error)

	// GetByIDForUpdate locks the row for the duration of the surrounding
	// transaction. Must be called inside one.
	GetByIDForUpdate(ctx context.Context, id string, companyID string) (LeaveRequest, error)

	UpdateStatus(ctx context.Context, request LeaveRequest) error

	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
}
