package leave

import "time"

// LeaveType is a global catalog entry describing one kind of leave.
type LeaveType struct {
	ID        string
	CompanyID string
	Name      string
	Code      *string

	// DefaultAllotmentDays seeds the initial balance when a balance row is
	// created for an employee.
	DefaultAllotmentDays float64

	// MonthlyAccrualRate is the number of days added per accrual period;
	// zero means the type never accrues.
	MonthlyAccrualRate float64

	// CapDays bounds the current balance when defined.
	CapDays *float64

	IsPaid           bool
	RequiresApproval bool
	IsActive         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveBalance is the ledger row for (employee, leave type, year). It is
// mutated only by the accrual job and by leave request approval. The store
// maintains current = initial + accrued - used, current >= 0, and
// current <= cap when a cap is defined.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int

	InitialDays float64
	AccruedDays float64
	UsedDays    float64
	CurrentDays float64

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / join
	LeaveTypeName *string
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// LeaveRequest is one employee's dated request against a leave type.
// pending -> approved debits the balance exactly once and is terminal;
// pending -> rejected | cancelled is terminal with no ledger effect.
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	LeaveTypeID string

	StartDate time.Time
	EndDate   time.Time
	TotalDays float64

	Reason string
	Status RequestStatus

	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CancelledAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / join
	LeaveTypeName *string
}

// IsTerminal reports whether no further status transition is allowed.
func (r LeaveRequest) IsTerminal() bool {
	return r.Status != RequestStatusPending
}
