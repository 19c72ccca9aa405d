package leave

import "context"

// LedgerService owns LeaveBalance rows. Nothing else mutates them.
type LedgerService interface {
	// InitializeBalance creates a default balance for (employee, type, year).
	InitializeBalance(ctx context.Context, req InitializeBalanceRequest) (BalanceResponse, error)

	// Accrue adds one period's accrual to every eligible balance and returns
	// how many were touched. The engine is not idempotent per call; the
	// scheduler claims each period exactly once before invoking it.
	Accrue(ctx context.Context, period string) (int64, error)

	// DebitOnApproval consumes days from the requester's balance. Fails with
	// ErrInsufficientBalance rather than letting the balance go negative.
	DebitOnApproval(ctx context.Context, request LeaveRequest) (LeaveBalance, error)

	// GetMyBalances lists the authenticated employee's balances for a year.
	GetMyBalances(ctx context.Context, year int) ([]BalanceResponse, error)
}

// RequestService drives the LeaveRequest state machine:
// pending -> approved (debits the ledger exactly once, terminal) or
// pending -> rejected | cancelled (terminal, no ledger effect).
type RequestService interface {
	CreateRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, requestID string, reason string) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	ListMyRequests(ctx context.Context) ([]LeaveRequestResponse, error)
}

// TypeService manages the leave type catalog.
type TypeService interface {
	CreateType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	ListTypes(ctx context.Context) ([]LeaveTypeResponse, error)
}
