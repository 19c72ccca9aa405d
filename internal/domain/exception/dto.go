package exception

import (
	"github.com/chronohq/attendance-engine-go/internal/pkg/validator"
)

// ========================================
// EXCEPTION DTOs
// ========================================

type CreateRequest struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Reason    string `json:"reason"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	}

	if validator.IsEmpty(r.Kind) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind is required",
		})
	} else if !validator.IsInSlice(r.Kind, ValidKinds) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of late, early_leave, overtime, break_extension",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidDecisions lists the terminal decisions a resolver may pick.
var ValidDecisions = []string{string(StatusApproved), string(StatusRejected)}

type ResolveRequest struct {
	RequestID string `json:"-"`
	Decision  string `json:"decision"`
	Notes     string `json:"notes,omitempty"`
}

func (r *ResolveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if validator.IsEmpty(r.Decision) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision is required",
		})
	} else if !validator.IsInSlice(r.Decision, ValidDecisions) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be approved or rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RequestResponse struct {
	ID            string  `json:"id"`
	SessionID     string  `json:"session_id"`
	Kind          string  `json:"kind"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	RequesterID   string  `json:"requester_id"`
	ApproverID    *string `json:"approver_id,omitempty"`
	ApproverNotes *string `json:"approver_notes,omitempty"`
	ResolvedAt    *string `json:"resolved_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}
