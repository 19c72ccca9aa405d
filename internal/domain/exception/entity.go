package exception

import "time"

// Kind is the closed set of deviations an employee can ask to be reviewed.
type Kind string

const (
	KindLate           Kind = "late"
	KindEarlyLeave     Kind = "early_leave"
	KindOvertime       Kind = "overtime"
	KindBreakExtension Kind = "break_extension"
)

// ValidKinds lists accepted kind values for validation.
var ValidKinds = []string{
	string(KindLate),
	string(KindEarlyLeave),
	string(KindOvertime),
	string(KindBreakExtension),
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is an exception request tied to one attendance session. At most
// one pending request of a given kind may exist per session.
type Request struct {
	ID        string
	SessionID string
	CompanyID string
	Kind      Kind
	Reason    string
	Status    Status

	RequesterID   string
	ApproverID    *string
	ApproverNotes *string
	ResolvedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsResolved reports whether the request reached a terminal status.
func (r Request) IsResolved() bool {
	return r.Status != StatusPending
}
