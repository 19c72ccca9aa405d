package session

import (
	"context"
)

// SessionService owns the lifecycle of a single day's attendance record.
// Every mutating operation commits atomically and then emits a domain event
// for external observers.
type SessionService interface {
	// PunchIn opens today's session for the authenticated employee.
	PunchIn(ctx context.Context, req PunchInRequest) (SessionResponse, error)

	// PunchOut completes the open session and persists computed durations.
	PunchOut(ctx context.Context, req PunchOutRequest) (SessionResponse, error)

	// StartBreak opens a break on the employee's active session.
	StartBreak(ctx context.Context, req StartBreakRequest) (BreakResponse, error)

	// EndBreak closes the open break and returns the session to active.
	EndBreak(ctx context.Context) (BreakResponse, error)

	// CurrentStatus returns a read-only snapshot, including live-computed
	// net hours for a still-open session.
	CurrentStatus(ctx context.Context) (StatusSnapshot, error)

	// ListMySessions pages the authenticated employee's sessions.
	ListMySessions(ctx context.Context, filter ListSessionsFilter) (ListSessionsResponse, error)

	// GetSession retrieves a single session by ID.
	GetSession(ctx context.Context, id string) (SessionResponse, error)
}
