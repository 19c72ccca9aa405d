package session

import (
	"time"

	"github.com/chronohq/attendance-engine-go/internal/pkg/validator"
)

// ========================================
// SESSION DTOs
// ========================================

// ValidPunchMethods lists the punch methods the engine accepts.
var ValidPunchMethods = []string{"gps", "wifi", "beacon", "manual"}

type PunchInRequest struct {
	WorkplaceID string   `json:"workplace_id"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
	Method      string   `json:"method"`
}

func (r *PunchInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkplaceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "workplace_id",
			Message: "workplace_id is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if validator.IsEmpty(r.Method) {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method is required",
		})
	} else if !validator.IsInSlice(r.Method, ValidPunchMethods) {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be one of gps, wifi, beacon, manual",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PunchOutRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Method    string  `json:"method"`
}

func (r *PunchOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if validator.IsEmpty(r.Method) {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method is required",
		})
	} else if !validator.IsInSlice(r.Method, ValidPunchMethods) {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be one of gps, wifi, beacon, manual",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StartBreakRequest struct {
	Type string `json:"type"`
}

func (r *StartBreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	} else if !validator.IsInSlice(r.Type, ValidBreakTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of meal, short, rest, other",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SessionResponse is the external projection of a session.
type SessionResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	WorkplaceID       string   `json:"workplace_id"`
	WorkDate          string   `json:"work_date"`
	PunchInTime       string   `json:"punch_in_time"`
	PunchOutTime      *string  `json:"punch_out_time,omitempty"`
	Status            string   `json:"status"`
	Verification      string   `json:"verification"`
	GeofenceCompliant bool     `json:"geofence_compliant"`
	TotalHours        *float64 `json:"total_hours,omitempty"`
	BreakHours        *float64 `json:"break_hours,omitempty"`
	NetHours          *float64 `json:"net_hours,omitempty"`
	OvertimeHours     *float64 `json:"overtime_hours,omitempty"`

	Breaks []BreakResponse `json:"breaks,omitempty"`
}

type BreakResponse struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	StartedAt       string  `json:"started_at"`
	EndedAt         *string `json:"ended_at,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
}

// StatusSnapshot is the read-only projection served by current-status. Net
// hours for an open session are computed with "now" as a provisional
// punch-out and never persisted.
type StatusSnapshot struct {
	IsActive bool             `json:"is_active"`
	Session  *SessionResponse `json:"session,omitempty"`
	AsOf     time.Time        `json:"as_of"`
}

// ListSessionsFilter pages an employee's own sessions.
type ListSessionsFilter struct {
	From  *time.Time
	To    *time.Time
	Page  int
	Limit int
}

type ListSessionsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Sessions   []SessionResponse `json:"sessions"`
}
