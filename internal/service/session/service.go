package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/config"
	"github.com/chronohq/attendance-engine-go/internal/domain/session"
	"github.com/chronohq/attendance-engine-go/internal/domain/workplace"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/chronohq/attendance-engine-go/internal/pkg/events"
	"github.com/chronohq/attendance-engine-go/internal/service/geofence"
	"github.com/go-chi/jwtauth/v5"
)

type SessionServiceImpl struct {
	tx database.TxManager
	session.SessionRepository
	session.BreakRepository
	workplaceRepo workplace.WorkplaceRepository
	validator     *geofence.Validator
	calculator    *DurationCalculator
	emitter       *events.Emitter
	cfg           config.EngineConfig
}

func NewSessionService(
	tx database.TxManager,
	sessionRepo session.SessionRepository,
	breakRepo session.BreakRepository,
	workplaceRepo workplace.WorkplaceRepository,
	validator *geofence.Validator,
	calculator *DurationCalculator,
	emitter *events.Emitter,
	cfg config.EngineConfig,
) session.SessionService {
	return &SessionServiceImpl{
		tx:                tx,
		SessionRepository: sessionRepo,
		BreakRepository:   breakRepo,
		workplaceRepo:     workplaceRepo,
		validator:         validator,
		calculator:        calculator,
		emitter:           emitter,
		cfg:               cfg,
	}
}

// identityFromContext extracts the authenticated employee identity from the
// JWT claims the verifier middleware placed on the context.
func identityFromContext(ctx context.Context) (employeeID, companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	companyID, ok = claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return employeeID, companyID, nil
}

// guard bounds store interactions so no operation hangs the caller.
func (s *SessionServiceImpl) guard(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// PunchIn implements session.SessionService.
func (s *SessionServiceImpl) PunchIn(ctx context.Context, req session.PunchInRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	employeeID, companyID, err := identityFromContext(ctx)
	if err != nil {
		return session.SessionResponse{}, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	nowUTC := time.Now().UTC()

	wp, err := s.workplaceRepo.GetByID(ctx, req.WorkplaceID, companyID)
	if err != nil {
		if errors.Is(err, workplace.ErrWorkplaceNotFound) {
			return session.SessionResponse{}, session.ErrUnknownWorkplace
		}
		return session.SessionResponse{}, fmt.Errorf("failed to get workplace: %w", err)
	}

	loc, err := time.LoadLocation(wp.Timezone)
	if err != nil {
		loc = time.UTC
	}
	nowLocal := nowUTC.In(loc)
	workDate := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)

	compliant, err := s.validator.IsWithinAnyActiveZone(ctx, req.Latitude, req.Longitude, wp.ID, req.Method)
	if err != nil {
		return session.SessionResponse{}, fmt.Errorf("failed to validate punch location: %w", err)
	}

	// Default policy records non-compliant punches for audit rather than
	// rejecting them; strict deployments reject instead.
	if !compliant && s.cfg.GeofenceStrict {
		return session.SessionResponse{}, session.ErrOutsideGeofence
	}

	verification := session.VerificationUnverified
	if !compliant {
		verification = session.VerificationOutOfRange
	}

	data := session.Session{
		EmployeeID:       employeeID,
		CompanyID:        companyID,
		WorkplaceID:      wp.ID,
		WorkDate:         workDate,
		PunchIn:          nowUTC,
		Status:           session.StatusActive,
		Verification:     verification,
		PunchInLatitude:  req.Latitude,
		PunchInLongitude: req.Longitude,
		PunchInMethod:    req.Method,
		PunchInCompliant: compliant,
	}

	// The unique (employee_id, work_date) constraint settles concurrent
	// punch-ins to exactly one success.
	created, err := s.SessionRepository.Create(ctx, data)
	if err != nil {
		if errors.Is(err, session.ErrDuplicateSession) {
			return session.SessionResponse{}, session.ErrDuplicateSession
		}
		return session.SessionResponse{}, fmt.Errorf("failed to create session: %w", err)
	}

	resp := mapSessionToResponse(created)
	s.emitter.Emit(companyID, events.TopicSessionPunchedIn, resp)

	return resp, nil
}

// StartBreak implements session.SessionService.
func (s *SessionServiceImpl) StartBreak(ctx context.Context, req session.StartBreakRequest) (session.BreakResponse, error) {
	if err := req.Validate(); err != nil {
		return session.BreakResponse{}, err
	}

	employeeID, companyID, err := identityFromContext(ctx)
	if err != nil {
		return session.BreakResponse{}, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	var created session.Break
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.SessionRepository.GetOpenByEmployee(ctx, employeeID)
		if err != nil {
			return err
		}

		if open.Status != session.StatusActive {
			return session.ErrBreakAlreadyOpen
		}

		// The partial unique open-break index backs this up under race.
		created, err = s.BreakRepository.Create(ctx, session.Break{
			SessionID: open.ID,
			Type:      session.BreakType(req.Type),
			StartedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		open.Status = session.StatusOnBreak
		return s.SessionRepository.Update(ctx, open)
	})
	if err != nil {
		return session.BreakResponse{}, err
	}

	resp := mapBreakToResponse(created)
	s.emitter.Emit(companyID, events.TopicSessionBreakStarted, resp)

	return resp, nil
}

// EndBreak implements session.SessionService.
func (s *SessionServiceImpl) EndBreak(ctx context.Context) (session.BreakResponse, error) {
	employeeID, companyID, err := identityFromContext(ctx)
	if err != nil {
		return session.BreakResponse{}, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	var closed session.Break
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.SessionRepository.GetOpenByEmployee(ctx, employeeID)
		if err != nil {
			return err
		}

		b, err := s.BreakRepository.GetOpenBySession(ctx, open.ID)
		if err != nil {
			return err
		}

		endedAt := time.Now().UTC()
		duration := Minutes(endedAt.Sub(b.StartedAt))

		closed, err = s.BreakRepository.Close(ctx, b.ID, endedAt, duration)
		if err != nil {
			return err
		}

		open.Status = session.StatusActive
		return s.SessionRepository.Update(ctx, open)
	})
	if err != nil {
		return session.BreakResponse{}, err
	}

	resp := mapBreakToResponse(closed)
	s.emitter.Emit(companyID, events.TopicSessionBreakEnded, resp)

	return resp, nil
}

// PunchOut implements session.SessionService.
func (s *SessionServiceImpl) PunchOut(ctx context.Context, req session.PunchOutRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	employeeID, companyID, err := identityFromContext(ctx)
	if err != nil {
		return session.SessionResponse{}, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	nowUTC := time.Now().UTC()

	var completed session.Session
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.SessionRepository.GetOpenByEmployee(ctx, employeeID)
		if err != nil {
			return err
		}

		// Punch-out with an open break blocks rather than silently closing
		// the break; the employee must end it first.
		if open.Status == session.StatusOnBreak {
			return session.ErrOpenBreakPending
		}

		breaks, err := s.BreakRepository.ListBySession(ctx, open.ID)
		if err != nil {
			return err
		}

		compliant, err := s.validator.IsWithinAnyActiveZone(ctx, req.Latitude, req.Longitude, open.WorkplaceID, req.Method)
		if err != nil {
			return fmt.Errorf("failed to validate punch location: %w", err)
		}
		if !compliant && s.cfg.GeofenceStrict {
			return session.ErrOutsideGeofence
		}

		d := s.calculator.ComputeDurations(open.PunchIn, &nowUTC, breaks, s.cfg.StandardDay())

		totalMins := Minutes(d.Total)
		breakMins := Minutes(d.Break)
		netMins := Minutes(d.Net)
		overtimeMins := Minutes(d.Overtime)

		open.PunchOut = &nowUTC
		open.PunchOutLatitude = &req.Latitude
		open.PunchOutLongitude = &req.Longitude
		open.PunchOutMethod = &req.Method
		open.PunchOutCompliant = &compliant
		open.TotalMinutes = &totalMins
		open.BreakMinutes = &breakMins
		open.NetMinutes = &netMins
		open.OvertimeMinutes = &overtimeMins
		open.Status = session.StatusCompleted

		if d.NeedsReview {
			open.Verification = session.VerificationNeedsReview
		} else if !compliant {
			open.Verification = session.VerificationOutOfRange
		}

		if err := s.SessionRepository.Update(ctx, open); err != nil {
			return err
		}

		open.Breaks = breaks
		completed = open
		return nil
	})
	if err != nil {
		return session.SessionResponse{}, err
	}

	resp := mapSessionToResponse(completed)
	s.emitter.Emit(companyID, events.TopicSessionPunchedOut, resp)

	return resp, nil
}

// CurrentStatus implements session.SessionService. The snapshot is a
// read-only projection and never the source of truth for a mutating
// decision.
func (s *SessionServiceImpl) CurrentStatus(ctx context.Context) (session.StatusSnapshot, error) {
	employeeID, _, err := identityFromContext(ctx)
	if err != nil {
		return session.StatusSnapshot{}, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	now := time.Now().UTC()

	open, err := s.SessionRepository.GetOpenByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			return session.StatusSnapshot{IsActive: false, AsOf: now}, nil
		}
		return session.StatusSnapshot{}, fmt.Errorf("failed to get open session: %w", err)
	}

	breaks, err := s.BreakRepository.ListBySession(ctx, open.ID)
	if err != nil {
		return session.StatusSnapshot{}, fmt.Errorf("failed to list breaks: %w", err)
	}
	open.Breaks = breaks

	// Live figures use "now" as a provisional punch-out without persisting.
	d := s.calculator.ComputeDurations(open.PunchIn, &now, breaks, s.cfg.StandardDay())

	resp := mapSessionToResponse(open)
	resp.TotalHours = hoursPtr(d.Total)
	resp.BreakHours = hoursPtr(d.Break)
	resp.NetHours = hoursPtr(d.Net)
	resp.OvertimeHours = hoursPtr(d.Overtime)

	return session.StatusSnapshot{IsActive: true, Session: &resp, AsOf: now}, nil
}

// ListMySessions implements session.SessionService.
func (s *SessionServiceImpl) ListMySessions(ctx context.Context, filter session.ListSessionsFilter) (session.ListSessionsResponse, error) {
	employeeID, _, err := identityFromContext(ctx)
	if err != nil {
		return session.ListSessionsResponse{}, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	sessions, total, err := s.SessionRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return session.ListSessionsResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]session.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		responses = append(responses, mapSessionToResponse(sess))
	}

	return session.ListSessionsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Sessions:   responses,
	}, nil
}

// GetSession implements session.SessionService.
func (s *SessionServiceImpl) GetSession(ctx context.Context, id string) (session.SessionResponse, error) {
	_, companyID, err := identityFromContext(ctx)
	if err != nil {
		return session.SessionResponse{}, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	sess, err := s.SessionRepository.GetByID(ctx, id, companyID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	breaks, err := s.BreakRepository.ListBySession(ctx, sess.ID)
	if err != nil {
		return session.SessionResponse{}, fmt.Errorf("failed to list breaks: %w", err)
	}
	sess.Breaks = breaks

	return mapSessionToResponse(sess), nil
}

func hoursPtr(d time.Duration) *float64 {
	h := d.Hours()
	return &h
}

func minutesToHoursPtr(mins *int) *float64 {
	if mins == nil {
		return nil
	}
	h := float64(*mins) / 60.0
	return &h
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02 15:04:05")
	return &formatted
}

// mapSessionToResponse converts a Session entity to its external projection.
func mapSessionToResponse(s session.Session) session.SessionResponse {
	resp := session.SessionResponse{
		ID:                s.ID,
		EmployeeID:        s.EmployeeID,
		WorkplaceID:       s.WorkplaceID,
		WorkDate:          s.WorkDate.Format("2006-01-02"),
		PunchInTime:       s.PunchIn.Format("2006-01-02 15:04:05"),
		PunchOutTime:      timePtrToString(s.PunchOut),
		Status:            string(s.Status),
		Verification:      string(s.Verification),
		GeofenceCompliant: s.PunchInCompliant,
		TotalHours:        minutesToHoursPtr(s.TotalMinutes),
		BreakHours:        minutesToHoursPtr(s.BreakMinutes),
		NetHours:          minutesToHoursPtr(s.NetMinutes),
		OvertimeHours:     minutesToHoursPtr(s.OvertimeMinutes),
	}

	for _, b := range s.Breaks {
		resp.Breaks = append(resp.Breaks, mapBreakToResponse(b))
	}

	return resp
}

func mapBreakToResponse(b session.Break) session.BreakResponse {
	return session.BreakResponse{
		ID:              b.ID,
		Type:            string(b.Type),
		StartedAt:       b.StartedAt.Format("2006-01-02 15:04:05"),
		EndedAt:         timePtrToString(b.EndedAt),
		DurationMinutes: b.DurationMinutes,
	}
}
