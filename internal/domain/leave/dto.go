package leave

import (
	"github.com/chronohq/attendance-engine-go/internal/pkg/validator"
)

// ========================================
// LEAVE DTOs
// ========================================

type CreateLeaveTypeRequest struct {
	Name                 string   `json:"name"`
	Code                 *string  `json:"code,omitempty"`
	DefaultAllotmentDays float64  `json:"default_allotment_days"`
	MonthlyAccrualRate   float64  `json:"monthly_accrual_rate"`
	CapDays              *float64 `json:"cap_days,omitempty"`
	IsPaid               bool     `json:"is_paid"`
	RequiresApproval     bool     `json:"requires_approval"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.DefaultAllotmentDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "default_allotment_days",
			Message: "default_allotment_days must not be negative",
		})
	}

	if r.MonthlyAccrualRate < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "monthly_accrual_rate",
			Message: "monthly_accrual_rate must not be negative",
		})
	}

	if r.CapDays != nil && *r.CapDays <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "cap_days",
			Message: "cap_days must be positive when set",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type InitializeBalanceRequest struct {
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
}

func (r *InitializeBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateLeaveRequestRequest struct {
	LeaveTypeID string `json:"leave_type_id"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
	EndDate     string `json:"end_date"`   // YYYY-MM-DD
	Reason      string `json:"reason"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be YYYY-MM-DD",
		})
	}

	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be YYYY-MM-DD",
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

type LeaveTypeResponse struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Code                 *string  `json:"code,omitempty"`
	DefaultAllotmentDays float64  `json:"default_allotment_days"`
	MonthlyAccrualRate   float64  `json:"monthly_accrual_rate"`
	CapDays              *float64 `json:"cap_days,omitempty"`
	IsPaid               bool     `json:"is_paid"`
	RequiresApproval     bool     `json:"requires_approval"`
	IsActive             bool     `json:"is_active"`
}

type BalanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName *string `json:"leave_type_name,omitempty"`
	Year          int     `json:"year"`
	InitialDays   float64 `json:"initial_days"`
	AccruedDays   float64 `json:"accrued_days"`
	UsedDays      float64 `json:"used_days"`
	CurrentDays   float64 `json:"current_days"`
}

type LeaveRequestResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName *string `json:"leave_type_name,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalDays     float64 `json:"total_days"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	ApprovedBy    *string `json:"approved_by,omitempty"`
	ApprovedAt    *string `json:"approved_at,omitempty"`
}
