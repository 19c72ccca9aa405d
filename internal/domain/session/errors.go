package session

import "errors"

// Session domain errors
var (
	// Punch-in errors
	ErrDuplicateSession = errors.New("a session already exists for this employee today")
	ErrUnknownWorkplace = errors.New("workplace does not resolve")
	ErrOutsideGeofence  = errors.New("punch location is outside every active zone")

	// Break errors
	ErrBreakAlreadyOpen = errors.New("a break is already open on this session")
	ErrNoOpenBreak      = errors.New("no open break on this session")

	// Punch-out errors
	ErrNoActiveSession  = errors.New("no open session for this employee")
	ErrOpenBreakPending = errors.New("an open break must be ended before punching out")

	// General errors
	ErrSessionNotFound = errors.New("attendance session not found")
)
