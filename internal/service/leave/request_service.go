package leave

import (
	"context"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/config"
	"github.com/chronohq/attendance-engine-go/internal/domain/leave"
	"github.com/chronohq/attendance-engine-go/internal/domain/user"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/chronohq/attendance-engine-go/internal/pkg/events"
	"github.com/chronohq/attendance-engine-go/internal/pkg/validator"
)

// RequestServiceImpl drives the leave request state machine. Approval locks
// the request row and debits the ledger in the same transaction, so racing
// approvers cannot double-spend a balance.
type RequestServiceImpl struct {
	tx database.TxManager
	leave.LeaveRequestRepository
	typeRepo leave.LeaveTypeRepository
	ledger   leave.LedgerService
	emitter  *events.Emitter
	cfg      config.EngineConfig
}

func NewRequestService(
	tx database.TxManager,
	requestRepo leave.LeaveRequestRepository,
	typeRepo leave.LeaveTypeRepository,
	ledger leave.LedgerService,
	emitter *events.Emitter,
	cfg config.EngineConfig,
) *RequestServiceImpl {
	return &RequestServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: requestRepo,
		typeRepo:               typeRepo,
		ledger:                 ledger,
		emitter:                emitter,
		cfg:                    cfg,
	}
}

func (s *RequestServiceImpl) guard(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// CreateRequest implements leave.RequestService. The request is recorded
// against the balance of the year the leave starts in; availability is not
// checked here, only at approval time.
func (s *RequestServiceImpl) CreateRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	employeeID, companyID, _, err := identityFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	if end.Before(start) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	leaveType, err := s.typeRepo.GetByID(ctx, req.LeaveTypeID, companyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	overlaps, err := s.LeaveRequestRepository.HasOverlapping(ctx, employeeID, start, end)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if overlaps {
		return leave.LeaveRequestResponse{}, leave.ErrOverlappingRequest
	}

	request := leave.LeaveRequest{
		EmployeeID:  employeeID,
		CompanyID:   companyID,
		LeaveTypeID: leaveType.ID,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   countLeaveDays(start, end),
		Reason:      req.Reason,
		Status:      leave.RequestStatusPending,
	}

	created, err := s.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return mapRequestToResponse(created), nil
}

// Approve implements leave.RequestService.
func (s *RequestServiceImpl) Approve(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	approverID, companyID, role, err := identityFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !role.CanApprove() {
		return leave.LeaveRequestResponse{}, user.ErrManagerAccessRequired
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	var request leave.LeaveRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err = s.LeaveRequestRepository.GetByIDForUpdate(ctx, requestID, companyID)
		if err != nil {
			return err
		}
		if request.IsTerminal() {
			return leave.ErrAlreadyProcessed
		}

		// Debit before flipping status; ErrInsufficientBalance rolls the
		// whole approval back and leaves the request pending.
		if _, err := s.ledger.DebitOnApproval(ctx, request); err != nil {
			return err
		}

		now := time.Now().UTC()
		request.Status = leave.RequestStatusApproved
		request.ApprovedBy = &approverID
		request.ApprovedAt = &now

		return s.LeaveRequestRepository.UpdateStatus(ctx, request)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	response := mapRequestToResponse(request)
	s.emitter.Emit(companyID, events.TopicLeaveRequestDecided, response)

	return response, nil
}

// Reject implements leave.RequestService.
func (s *RequestServiceImpl) Reject(ctx context.Context, requestID string, reason string) (leave.LeaveRequestResponse, error) {
	_, companyID, role, err := identityFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !role.CanApprove() {
		return leave.LeaveRequestResponse{}, user.ErrManagerAccessRequired
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	var request leave.LeaveRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err = s.LeaveRequestRepository.GetByIDForUpdate(ctx, requestID, companyID)
		if err != nil {
			return err
		}
		if request.IsTerminal() {
			return leave.ErrAlreadyProcessed
		}

		request.Status = leave.RequestStatusRejected
		if reason != "" {
			request.RejectionReason = &reason
		}

		return s.LeaveRequestRepository.UpdateStatus(ctx, request)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	response := mapRequestToResponse(request)
	s.emitter.Emit(companyID, events.TopicLeaveRequestDecided, response)

	return response, nil
}

// Cancel implements leave.RequestService. Only the requester may cancel, and
// only while the request is still pending.
func (s *RequestServiceImpl) Cancel(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	employeeID, companyID, _, err := identityFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	var request leave.LeaveRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err = s.LeaveRequestRepository.GetByIDForUpdate(ctx, requestID, companyID)
		if err != nil {
			return err
		}
		if request.EmployeeID != employeeID {
			return leave.ErrRequestNotFound
		}
		if request.IsTerminal() {
			return leave.ErrAlreadyProcessed
		}

		now := time.Now().UTC()
		request.Status = leave.RequestStatusCancelled
		request.CancelledAt = &now

		return s.LeaveRequestRepository.UpdateStatus(ctx, request)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return mapRequestToResponse(request), nil
}

// ListMyRequests returns the authenticated employee's leave requests.
func (s *RequestServiceImpl) ListMyRequests(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	employeeID, _, _, err := identityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	requests, err := s.LeaveRequestRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, mapRequestToResponse(r))
	}

	return responses, nil
}

// countLeaveDays counts calendar days inclusive of both endpoints.
func countLeaveDays(start, end time.Time) float64 {
	return end.Sub(start).Hours()/24 + 1
}

func mapRequestToResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	response := leave.LeaveRequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		LeaveTypeID:   r.LeaveTypeID,
		LeaveTypeName: r.LeaveTypeName,
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		TotalDays:     r.TotalDays,
		Reason:        r.Reason,
		Status:        string(r.Status),
		ApprovedBy:    r.ApprovedBy,
	}
	if r.ApprovedAt != nil {
		approvedAt := r.ApprovedAt.Format(time.RFC3339)
		response.ApprovedAt = &approvedAt
	}
	return response
}
