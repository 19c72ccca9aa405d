package exception

import (
	"context"
	"fmt"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/config"
	"github.com/chronohq/attendance-engine-go/internal/domain/exception"
	"github.com/chronohq/attendance-engine-go/internal/domain/session"
	"github.com/chronohq/attendance-engine-go/internal/domain/user"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/chronohq/attendance-engine-go/internal/pkg/events"
	"github.com/go-chi/jwtauth/v5"
)

type ExceptionServiceImpl struct {
	tx database.TxManager
	exception.Repository
	sessionRepo session.SessionRepository
	emitter     *events.Emitter
	cfg         config.EngineConfig
}

func NewExceptionService(
	tx database.TxManager,
	repo exception.Repository,
	sessionRepo session.SessionRepository,
	emitter *events.Emitter,
	cfg config.EngineConfig,
) exception.Service {
	return &ExceptionServiceImpl{
		tx:          tx,
		Repository:  repo,
		sessionRepo: sessionRepo,
		emitter:     emitter,
		cfg:         cfg,
	}
}

func identityFromContext(ctx context.Context) (employeeID, companyID string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", "", "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	companyID, ok = claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return "", "", "", fmt.Errorf("role claim is missing or invalid")
	}

	return employeeID, companyID, user.Role(roleStr), nil
}

func (s *ExceptionServiceImpl) guard(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// RequestException implements exception.Service.
func (s *ExceptionServiceImpl) RequestException(ctx context.Context, req exception.CreateRequest) (exception.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return exception.RequestResponse{}, err
	}

	employeeID, companyID, role, err := identityFromContext(ctx)
	if err != nil {
		return exception.RequestResponse{}, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	autoApprove := s.cfg.AutoApproveManagers && role.CanApprove()

	var created exception.Request
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sess, err := s.sessionRepo.GetByID(ctx, req.SessionID, companyID)
		if err != nil {
			return err
		}

		data := exception.Request{
			SessionID:   sess.ID,
			CompanyID:   companyID,
			Kind:        exception.Kind(req.Kind),
			Reason:      req.Reason,
			Status:      exception.StatusPending,
			RequesterID: employeeID,
		}

		// The partial unique (session_id, kind) WHERE pending index settles
		// duplicate filings under race.
		created, err = s.Repository.Create(ctx, data)
		if err != nil {
			return err
		}

		if autoApprove {
			// Privileged requester: created and resolved as approved in the
			// same operation, approver attributed as the requester.
			created, err = s.Repository.UpdateStatus(ctx, created.ID, exception.StatusApproved, employeeID, nil)
			if err != nil {
				return err
			}
			return s.stampSessionVerification(ctx, sess, created, employeeID)
		}

		return nil
	})
	if err != nil {
		return exception.RequestResponse{}, err
	}

	resp := mapRequestToResponse(created)
	if autoApprove {
		s.emitter.Emit(companyID, events.TopicExceptionResolved, resp)
	}

	return resp, nil
}

// ResolveException implements exception.Service.
func (s *ExceptionServiceImpl) ResolveException(ctx context.Context, req exception.ResolveRequest) (exception.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return exception.RequestResponse{}, err
	}

	approverID, companyID, role, err := identityFromContext(ctx)
	if err != nil {
		return exception.RequestResponse{}, err
	}

	if !role.CanApprove() {
		return exception.RequestResponse{}, exception.ErrUnauthorizedApprover
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	var resolved exception.Request
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.Repository.GetByID(ctx, req.RequestID, companyID)
		if err != nil {
			return err
		}

		if existing.IsResolved() {
			return exception.ErrAlreadyResolved
		}

		var notes *string
		if req.Notes != "" {
			notes = &req.Notes
		}

		resolved, err = s.Repository.UpdateStatus(ctx, existing.ID, exception.Status(req.Decision), approverID, notes)
		if err != nil {
			return err
		}

		if resolved.Status == exception.StatusApproved {
			sess, err := s.sessionRepo.GetByID(ctx, resolved.SessionID, companyID)
			if err != nil {
				return err
			}
			return s.stampSessionVerification(ctx, sess, resolved, approverID)
		}

		return nil
	})
	if err != nil {
		return exception.RequestResponse{}, err
	}

	resp := mapRequestToResponse(resolved)
	s.emitter.Emit(companyID, events.TopicExceptionResolved, resp)

	return resp, nil
}

// stampSessionVerification records approval metadata on the session.
// Computed durations are untouched; they remain the calculator's output.
func (s *ExceptionServiceImpl) stampSessionVerification(ctx context.Context, sess session.Session, req exception.Request, approverID string) error {
	if req.Kind == exception.KindBreakExtension {
		return nil
	}

	now := time.Now().UTC()
	sess.Verification = session.VerificationVerified
	sess.VerifiedBy = &approverID
	sess.VerifiedAt = &now

	return s.sessionRepo.Update(ctx, sess)
}

// ListExceptions implements exception.Service.
func (s *ExceptionServiceImpl) ListExceptions(ctx context.Context, sessionID string) ([]exception.RequestResponse, error) {
	_, companyID, _, err := identityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	requests, err := s.Repository.ListBySession(ctx, sessionID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exception requests: %w", err)
	}

	responses := make([]exception.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, mapRequestToResponse(r))
	}

	return responses, nil
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02 15:04:05")
	return &formatted
}

func mapRequestToResponse(r exception.Request) exception.RequestResponse {
	return exception.RequestResponse{
		ID:            r.ID,
		SessionID:     r.SessionID,
		Kind:          string(r.Kind),
		Reason:        r.Reason,
		Status:        string(r.Status),
		RequesterID:   r.RequesterID,
		ApproverID:    r.ApproverID,
		ApproverNotes: r.ApproverNotes,
		ResolvedAt:    timePtrToString(r.ResolvedAt),
		CreatedAt:     r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
