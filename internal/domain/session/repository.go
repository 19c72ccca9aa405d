package session

import (
	"context"
	"time"
)

// SessionRepository defines data access for attendance sessions. All methods
// that read by ID include companyID to prevent cross-company access.
type SessionRepository interface {
	// Create inserts a new session. Returns ErrDuplicateSession when the
	// unique (employee_id, work_date) constraint is violated; the constraint,
	// not application locking, is what makes concurrent punch-ins resolve to
	// exactly one success.
	Create(ctx context.Context, s Session) (Session, error)

	GetByID(ctx context.Context, id string, companyID string) (Session, error)

	// GetOpenByEmployee returns the employee's session in active or on_break
	// state. Returns ErrNoActiveSession when none is open.
	GetOpenByEmployee(ctx context.Context, employeeID string) (Session, error)

	Update(ctx context.Context, s Session) error

	ListByEmployee(ctx context.Context, employeeID string, filter ListSessionsFilter) ([]Session, int64, error)
}

// BreakRepository defines data access for session breaks.
type BreakRepository interface {
	// Create inserts a new break. Returns ErrBreakAlreadyOpen when the
	// partial unique "one open break per session" index is violated.
	Create(ctx context.Context, b Break) (Break, error)

	// GetOpenBySession returns the open break, or ErrNoOpenBreak.
	GetOpenBySession(ctx context.Context, sessionID string) (Break, error)

	// Close sets the end time and duration of an open break.
	Close(ctx context.Context, id string, endedAt time.Time, durationMinutes int) (Break, error)

	ListBySession(ctx context.Context, sessionID string) ([]Break, error)
}
