package exception

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/config"
	"github.com/chronohq/attendance-engine-go/internal/domain/exception"
	"github.com/chronohq/attendance-engine-go/internal/domain/session"
	"github.com/chronohq/attendance-engine-go/internal/domain/user"
	"github.com/chronohq/attendance-engine-go/internal/pkg/events"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokenAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func authContext(t *testing.T, employeeID, companyID string, role user.Role) context.Context {
	t.Helper()

	token, _, err := testTokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"company_id":  companyID,
		"role":        string(role),
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type pendingKey struct {
	sessionID string
	kind      exception.Kind
}

type fakeExceptionRepo struct {
	requests map[string]exception.Request
	pending  map[pendingKey]bool
	next     int
}

func newFakeExceptionRepo() *fakeExceptionRepo {
	return &fakeExceptionRepo{
		requests: map[string]exception.Request{},
		pending:  map[pendingKey]bool{},
	}
}

func (r *fakeExceptionRepo) Create(ctx context.Context, req exception.Request) (exception.Request, error) {
	key := pendingKey{req.SessionID, req.Kind}
	if r.pending[key] {
		return exception.Request{}, exception.ErrDuplicatePendingRequest
	}
	r.next++
	req.ID = fmt.Sprintf("exc-%d", r.next)
	req.CreatedAt = time.Now().UTC()
	r.requests[req.ID] = req
	r.pending[key] = true
	return req, nil
}

func (r *fakeExceptionRepo) GetByID(ctx context.Context, id string, companyID string) (exception.Request, error) {
	req, ok := r.requests[id]
	if !ok || req.CompanyID != companyID {
		return exception.Request{}, exception.ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeExceptionRepo) UpdateStatus(ctx context.Context, id string, status exception.Status, approverID string, notes *string) (exception.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return exception.Request{}, exception.ErrRequestNotFound
	}
	if req.Status != exception.StatusPending {
		return exception.Request{}, exception.ErrAlreadyResolved
	}
	now := time.Now().UTC()
	req.Status = status
	req.ApproverID = &approverID
	req.ApproverNotes = notes
	req.ResolvedAt = &now
	r.requests[id] = req
	delete(r.pending, pendingKey{req.SessionID, req.Kind})
	return req, nil
}

func (r *fakeExceptionRepo) ListBySession(ctx context.Context, sessionID string, companyID string) ([]exception.Request, error) {
	var out []exception.Request
	for _, req := range r.requests {
		if req.SessionID == sessionID && req.CompanyID == companyID {
			out = append(out, req)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	sessions map[string]session.Session
	updates  int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]session.Session{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s session.Session) (session.Session, error) {
	r.sessions[s.ID] = s
	return s, nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string, companyID string) (session.Session, error) {
	s, ok := r.sessions[id]
	if !ok || s.CompanyID != companyID {
		return session.Session{}, session.ErrSessionNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) GetOpenByEmployee(ctx context.Context, employeeID string) (session.Session, error) {
	for _, s := range r.sessions {
		if s.EmployeeID == employeeID && s.IsOpen() {
			return s, nil
		}
	}
	return session.Session{}, session.ErrNoActiveSession
}

func (r *fakeSessionRepo) Update(ctx context.Context, s session.Session) error {
	if _, ok := r.sessions[s.ID]; !ok {
		return session.ErrSessionNotFound
	}
	r.sessions[s.ID] = s
	r.updates++
	return nil
}

func (r *fakeSessionRepo) ListByEmployee(ctx context.Context, employeeID string, filter session.ListSessionsFilter) ([]session.Session, int64, error) {
	var out []session.Session
	for _, s := range r.sessions {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

type exceptionFixture struct {
	svc         exception.Service
	repo        *fakeExceptionRepo
	sessionRepo *fakeSessionRepo
}

func newExceptionFixture(cfg config.EngineConfig) exceptionFixture {
	repo := newFakeExceptionRepo()
	sessionRepo := newFakeSessionRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	emitter := events.NewEmitter(events.NewHub(), logger)
	svc := NewExceptionService(fakeTxManager{}, repo, sessionRepo, emitter, cfg)
	return exceptionFixture{svc: svc, repo: repo, sessionRepo: sessionRepo}
}

func defaultConfig() config.EngineConfig {
	return config.EngineConfig{
		StandardDayHours: 8,
		StoreTimeout:     5 * time.Second,
	}
}

func (f exceptionFixture) seedSession(id, employeeID, companyID string) {
	f.sessionRepo.sessions[id] = session.Session{
		ID:           id,
		EmployeeID:   employeeID,
		CompanyID:    companyID,
		Status:       session.StatusCompleted,
		Verification: session.VerificationUnverified,
	}
}

func TestExceptionService_RequestException_CreatesPending(t *testing.T) {
	f := newExceptionFixture(defaultConfig())
	f.seedSession("sess-1", "emp-1", "company-1")
	ctx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	created, err := f.svc.RequestException(ctx, exception.CreateRequest{
		SessionID: "sess-1",
		Kind:      string(exception.KindLate),
		Reason:    "train delay",
	})

	require.NoError(t, err)
	assert.Equal(t, string(exception.StatusPending), created.Status)
	assert.Equal(t, "emp-1", created.RequesterID)
	assert.Nil(t, created.ApproverID)
}

func TestExceptionService_RequestException_DuplicatePendingKind(t *testing.T) {
	f := newExceptionFixture(defaultConfig())
	f.seedSession("sess-1", "emp-1", "company-1")
	ctx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	req := exception.CreateRequest{
		SessionID: "sess-1",
		Kind:      string(exception.KindLate),
		Reason:    "train delay",
	}

	_, err := f.svc.RequestException(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.RequestException(ctx, req)
	assert.ErrorIs(t, err, exception.ErrDuplicatePendingRequest)

	// A different kind on the same session is still allowed.
	_, err = f.svc.RequestException(ctx, exception.CreateRequest{
		SessionID: "sess-1",
		Kind:      string(exception.KindOvertime),
		Reason:    "release night",
	})
	assert.NoError(t, err)
}

func TestExceptionService_RequestException_UnknownSession(t *testing.T) {
	f := newExceptionFixture(defaultConfig())
	ctx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	_, err := f.svc.RequestException(ctx, exception.CreateRequest{
		SessionID: "missing",
		Kind:      string(exception.KindLate),
		Reason:    "train delay",
	})

	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestExceptionService_RequestException_ManagerAutoApprove(t *testing.T) {
	cfg := defaultConfig()
	cfg.AutoApproveManagers = true
	f := newExceptionFixture(cfg)
	f.seedSession("sess-1", "manager-1", "company-1")
	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)

	created, err := f.svc.RequestException(ctx, exception.CreateRequest{
		SessionID: "sess-1",
		Kind:      string(exception.KindOvertime),
		Reason:    "release night",
	})

	require.NoError(t, err)
	assert.Equal(t, string(exception.StatusApproved), created.Status)
	require.NotNil(t, created.ApproverID)
	assert.Equal(t, "manager-1", *created.ApproverID)

	sess := f.sessionRepo.sessions["sess-1"]
	assert.Equal(t, session.VerificationVerified, sess.Verification)
}

func TestExceptionService_RequestException_NoAutoApproveWhenDisabled(t *testing.T) {
	f := newExceptionFixture(defaultConfig())
	f.seedSession("sess-1", "manager-1", "company-1")
	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)

	created, err := f.svc.RequestException(ctx, exception.CreateRequest{
		SessionID: "sess-1",
		Kind:      string(exception.KindOvertime),
		Reason:    "release night",
	})

	require.NoError(t, err)
	assert.Equal(t, string(exception.StatusPending), created.Status)
}

func TestExceptionService_ResolveException_Approve(t *testing.T) {
	f := newExceptionFixture(defaultConfig())
	f.seedSession("sess-1", "emp-1", "company-1")
	employeeCtx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	created, err := f.svc.RequestException(employeeCtx, exception.CreateRequest{
		SessionID: "sess-1",
		Kind:      string(exception.KindLate),
		Reason:    "train delay",
	})
	require.NoError(t, err)

	managerCtx := authContext(t, "manager-1", "company-1", user.RoleManager)
	resolved, err := f.svc.ResolveException(managerCtx, exception.ResolveRequest{
		RequestID: created.ID,
		Decision:  string(exception.StatusApproved),
		Notes:     "confirmed with transit alerts",
	})

	require.NoError(t, err)
	assert.Equal(t, string(exception.StatusApproved), resolved.Status)
	require.NotNil(t, resolved.ApproverID)
	assert.Equal(t, "manager-1", *resolved.ApproverID)
	assert.NotNil(t, resolved.ResolvedAt)

	sess := f.sessionRepo.sessions["sess-1"]
	assert.Equal(t, session.VerificationVerified, sess.Verification)
	require.NotNil(t, sess.VerifiedBy)
	assert.Equal(t, "manager-1", *sess.VerifiedBy)
}

func TestExceptionService_ResolveException_RejectLeavesSessionUntouched(t *testing.T) {
	f := newExceptionFixture(defaultConfig())
	f.seedSession("sess-1", "emp-1", "company-1")
	employeeCtx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	created, err := f.svc.RequestException(employeeCtx, exception.CreateRequest{
		SessionID: "sess-1",
		Kind:      string(exception.KindLate),
		Reason:    "train delay",
	})
	require.NoError(t, err)

	managerCtx := authContext(t, "manager-1", "company-1", user.RoleManager)
	resolved, err := f.svc.ResolveException(managerCtx, exception.ResolveRequest{
		RequestID: created.ID,
		Decision:  string(exception.StatusRejected),
	})

	require.NoError(t, err)
	assert.Equal(t, string(exception.StatusRejected), resolved.Status)
	assert.Equal(t, session.VerificationUnverified, f.sessionRepo.sessions["sess-1"].Verification)
	assert.Zero(t, f.sessionRepo.updates)
}

func TestExceptionService_ResolveException_AlreadyResolved(t *testing.T) {
	f := newExceptionFixture(defaultConfig())
	f.seedSession("sess-1", "emp-1", "company-1")
	employeeCtx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	created, err := f.svc.RequestException(employeeCtx, exception.CreateRequest{
		SessionID: "sess-1",
		Kind:      string(exception.KindLate),
		Reason:    "train delay",
	})
	require.NoError(t, err)

	managerCtx := authContext(t, "manager-1", "company-1", user.RoleManager)
	resolve := exception.ResolveRequest{
		RequestID: created.ID,
		Decision:  string(exception.StatusApproved),
	}

	_, err = f.svc.ResolveException(managerCtx, resolve)
	require.NoError(t, err)

	_, err = f.svc.ResolveException(managerCtx, resolve)
	assert.ErrorIs(t, err, exception.ErrAlreadyResolved)
}

func TestExceptionService_ResolveException_RequiresApproverRole(t *testing.T) {
	f := newExceptionFixture(defaultConfig())
	f.seedSession("sess-1", "emp-1", "company-1")
	employeeCtx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	created, err := f.svc.RequestException(employeeCtx, exception.CreateRequest{
		SessionID: "sess-1",
		Kind:      string(exception.KindLate),
		Reason:    "train delay",
	})
	require.NoError(t, err)

	_, err = f.svc.ResolveException(employeeCtx, exception.ResolveRequest{
		RequestID: created.ID,
		Decision:  string(exception.StatusApproved),
	})

	assert.ErrorIs(t, err, exception.ErrUnauthorizedApprover)
}

func TestExceptionService_ResolveException_BreakExtensionSkipsSessionStamp(t *testing.T) {
	f := newExceptionFixture(defaultConfig())
	f.seedSession("sess-1", "emp-1", "company-1")
	employeeCtx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	created, err := f.svc.RequestException(employeeCtx, exception.CreateRequest{
		SessionID: "sess-1",
		Kind:      string(exception.KindBreakExtension),
		Reason:    "doctor appointment ran long",
	})
	require.NoError(t, err)

	managerCtx := authContext(t, "manager-1", "company-1", user.RoleManager)
	_, err = f.svc.ResolveException(managerCtx, exception.ResolveRequest{
		RequestID: created.ID,
		Decision:  string(exception.StatusApproved),
	})

	require.NoError(t, err)
	assert.Equal(t, session.VerificationUnverified, f.sessionRepo.sessions["sess-1"].Verification)
	assert.Zero(t, f.sessionRepo.updates)
}

func TestExceptionService_ListExceptions(t *testing.T) {
	f := newExceptionFixture(defaultConfig())
	f.seedSession("sess-1", "emp-1", "company-1")
	ctx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	for _, kind := range []exception.Kind{exception.KindLate, exception.KindOvertime} {
		_, err := f.svc.RequestException(ctx, exception.CreateRequest{
			SessionID: "sess-1",
			Kind:      string(kind),
			Reason:    "reason",
		})
		require.NoError(t, err)
	}

	listed, err := f.svc.ListExceptions(ctx, "sess-1")

	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
