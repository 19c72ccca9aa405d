package leave

import "errors"

var (
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrBalanceNotFound      = errors.New("leave balance not found")
	ErrBalanceAlreadyExists = errors.New("leave balance already exists for this employee, type and year")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")
	ErrRequestNotFound      = errors.New("leave request not found")
	ErrAlreadyProcessed     = errors.New("leave request already processed")
	ErrOverlappingRequest   = errors.New("an overlapping leave request already exists")
	ErrInvalidDateRange     = errors.New("end date must not be before start date")
)
