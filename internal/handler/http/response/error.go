package response

import (
	"errors"
	"net/http"

	"github.com/chronohq/attendance-engine-go/internal/domain/exception"
	"github.com/chronohq/attendance-engine-go/internal/domain/leave"
	"github.com/chronohq/attendance-engine-go/internal/domain/session"
	"github.com/chronohq/attendance-engine-go/internal/domain/user"
	"github.com/chronohq/attendance-engine-go/internal/domain/workplace"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/chronohq/attendance-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Session domain errors
	case errors.Is(err, session.ErrDuplicateSession):
		Conflict(w, "An attendance session already exists for this work date")
	case errors.Is(err, session.ErrUnknownWorkplace):
		NotFound(w, "Workplace not found")
	case errors.Is(err, session.ErrOutsideGeofence):
		Forbidden(w, "Punch location is outside every registered zone")
	case errors.Is(err, session.ErrBreakAlreadyOpen):
		Conflict(w, "A break is already open for this session")
	case errors.Is(err, session.ErrNoOpenBreak):
		Conflict(w, "No open break to end")
	case errors.Is(err, session.ErrNoActiveSession):
		NotFound(w, "No active attendance session")
	case errors.Is(err, session.ErrOpenBreakPending):
		Conflict(w, "End the open break before punching out")
	case errors.Is(err, session.ErrSessionNotFound):
		NotFound(w, "Attendance session not found")

	// Workplace domain errors
	case errors.Is(err, workplace.ErrWorkplaceNotFound):
		NotFound(w, "Workplace not found")
	case errors.Is(err, workplace.ErrZoneNotFound):
		NotFound(w, "Geofence zone not found")
	case errors.Is(err, workplace.ErrInvalidZoneRadius):
		BadRequest(w, "Zone radius must be positive", nil)

	// Exception domain errors
	case errors.Is(err, exception.ErrDuplicatePendingRequest):
		Conflict(w, "A pending request of this kind already exists for the session")
	case errors.Is(err, exception.ErrAlreadyResolved):
		Conflict(w, "Exception request already resolved")
	case errors.Is(err, exception.ErrUnauthorizedApprover):
		Forbidden(w, "Only managers may resolve exception requests")
	case errors.Is(err, exception.ErrRequestNotFound):
		NotFound(w, "Exception request not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrBalanceAlreadyExists):
		Conflict(w, "Leave balance already initialized for this employee, type and year")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrOverlappingRequest):
		Conflict(w, "An overlapping leave request already exists")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)

	// Access errors
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, err.Error())

	// Infrastructure
	case errors.Is(err, database.ErrStoreUnavailable):
		ServiceUnavailable(w, "Storage is temporarily unavailable, retry shortly")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
