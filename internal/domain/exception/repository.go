package exception

import "context"

// Repository defines data access for exception requests.
type Repository interface {
	// Create inserts a new request. Returns ErrDuplicatePendingRequest when
	// the partial unique (session_id, kind) WHERE pending index is violated.
	Create(ctx context.Context, r Request) (Request, error)

	GetByID(ctx context.Context, id string, companyID string) (Request, error)

	// UpdateStatus moves a pending request to a terminal status. Returns
	// ErrAlreadyResolved when the row is no longer pending, so racing
	// resolutions settle to exactly one winner.
	UpdateStatus(ctx context.Context, id string, status Status, approverID string, notes *string) (Request, error)

	ListBySession(ctx context.Context, sessionID string, companyID string) ([]Request, error)
}
