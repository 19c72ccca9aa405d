package session

import (
	"time"
)

// Status is the lifecycle state of a single day's attendance session.
// The state is stored explicitly rather than inferred from nullable
// timestamps.
type Status string

const (
	StatusActive    Status = "active"
	StatusOnBreak   Status = "on_break"
	StatusCompleted Status = "completed"
)

// Verification marks how a completed session stands with respect to review.
type Verification string

const (
	VerificationUnverified  Verification = "unverified"
	VerificationVerified    Verification = "verified"
	VerificationOutOfRange  Verification = "out_of_range"
	VerificationNeedsReview Verification = "needs_review"
)

// BreakType enumerates the closed set of break kinds.
type BreakType string

const (
	BreakTypeMeal  BreakType = "meal"
	BreakTypeShort BreakType = "short"
	BreakTypeRest  BreakType = "rest"
	BreakTypeOther BreakType = "other"
)

// ValidBreakTypes lists accepted break type values for validation.
var ValidBreakTypes = []string{
	string(BreakTypeMeal),
	string(BreakTypeShort),
	string(BreakTypeRest),
	string(BreakTypeOther),
}

// Session is one employee's single-day attendance record from punch-in to
// punch-out. At most one session exists per (employee, work date), enforced
// by a unique constraint in the store.
type Session struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	WorkplaceID string
	WorkDate    time.Time // calendar day in the workplace timezone

	PunchIn  time.Time
	PunchOut *time.Time

	Status       Status
	Verification Verification

	PunchInLatitude   float64
	PunchInLongitude  float64
	PunchInMethod     string
	PunchInCompliant  bool
	PunchOutLatitude  *float64
	PunchOutLongitude *float64
	PunchOutMethod    *string
	PunchOutCompliant *bool

	// Computed when the session completes.
	TotalMinutes    *int
	BreakMinutes    *int
	NetMinutes      *int
	OvertimeMinutes *int

	VerifiedBy *string
	VerifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Loaded alongside the session where callers need them.
	Breaks []Break
}

// IsOpen reports whether the session still accepts punches.
func (s Session) IsOpen() bool {
	return s.Status == StatusActive || s.Status == StatusOnBreak
}

// Break belongs to exactly one session. EndedAt is nil while the break is
// open; at most one break per session may be open at a time.
type Break struct {
	ID              string
	SessionID       string
	Type            BreakType
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationMinutes *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOpen reports whether the break has not been ended yet.
func (b Break) IsOpen() bool {
	return b.EndedAt == nil
}
