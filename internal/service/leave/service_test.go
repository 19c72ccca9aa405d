package leave

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/config"
	"github.com/chronohq/attendance-engine-go/internal/domain/leave"
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

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		StandardDayHours: 8,
		StoreTimeout:     5 * time.Second,
	}
}

func testEmitter() *events.Emitter {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return events.NewEmitter(events.NewHub(), logger)
}

// fakeTxManager runs the function directly; transactional semantics are
// exercised against a real store.
type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTypeRepo struct {
	types map[string]leave.LeaveType
	next  int
}

func newFakeTypeRepo() *fakeTypeRepo {
	return &fakeTypeRepo{types: map[string]leave.LeaveType{}}
}

func (r *fakeTypeRepo) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	r.next++
	leaveType.ID = fmt.Sprintf("type-%d", r.next)
	r.types[leaveType.ID] = leaveType
	return leaveType, nil
}

func (r *fakeTypeRepo) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveType, error) {
	t, ok := r.types[id]
	if !ok || t.CompanyID != companyID {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (r *fakeTypeRepo) GetByCompanyID(ctx context.Context, companyID string) ([]leave.LeaveType, error) {
	var out []leave.LeaveType
	for _, t := range r.types {
		if t.CompanyID == companyID {
			out = append(out, t)
		}
	}
	return out, nil
}

type balanceKey struct {
	employeeID  string
	leaveTypeID string
	year        int
}

type fakeBalanceRepo struct {
	types          *fakeTypeRepo
	balances       map[balanceKey]leave.LeaveBalance
	claimedPeriods map[string]bool
	accrueAllCalls int
	next           int
}

func newFakeBalanceRepo(types *fakeTypeRepo) *fakeBalanceRepo {
	return &fakeBalanceRepo{
		types:          types,
		balances:       map[balanceKey]leave.LeaveBalance{},
		claimedPeriods: map[string]bool{},
	}
}

func (r *fakeBalanceRepo) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	key := balanceKey{balance.EmployeeID, balance.LeaveTypeID, balance.Year}
	if _, exists := r.balances[key]; exists {
		return leave.LeaveBalance{}, leave.ErrBalanceAlreadyExists
	}
	r.next++
	balance.ID = fmt.Sprintf("balance-%d", r.next)
	r.balances[key] = balance
	return balance, nil
}

func (r *fakeBalanceRepo) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	b, ok := r.balances[balanceKey{employeeID, leaveTypeID, year}]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (r *fakeBalanceRepo) GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	var out []leave.LeaveBalance
	for key, b := range r.balances {
		if key.employeeID == employeeID && key.year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

// AccrueAll mirrors the store's statement: only balances of active,
// accruing types are touched, and current is recomputed from
// initial + accrued - used, clamped at the type's cap.
func (r *fakeBalanceRepo) AccrueAll(ctx context.Context, year int) (int64, error) {
	r.accrueAllCalls++
	var count int64
	for key, b := range r.balances {
		if key.year != year {
			continue
		}
		lt, ok := r.types.types[b.LeaveTypeID]
		if !ok || !lt.IsActive || lt.MonthlyAccrualRate <= 0 {
			continue
		}
		b.AccruedDays += lt.MonthlyAccrualRate
		current := b.InitialDays + b.AccruedDays - b.UsedDays
		if lt.CapDays != nil && current > *lt.CapDays {
			current = *lt.CapDays
		}
		b.CurrentDays = current
		r.balances[key] = b
		count++
	}
	return count, nil
}

func (r *fakeBalanceRepo) Debit(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) (leave.LeaveBalance, error) {
	key := balanceKey{employeeID, leaveTypeID, year}
	b, ok := r.balances[key]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	if b.CurrentDays < days {
		return leave.LeaveBalance{}, leave.ErrInsufficientBalance
	}
	b.UsedDays += days
	b.CurrentDays -= days
	r.balances[key] = b
	return b, nil
}

func (r *fakeBalanceRepo) TryMarkPeriodAccrued(ctx context.Context, period string) (bool, error) {
	if r.claimedPeriods[period] {
		return false, nil
	}
	r.claimedPeriods[period] = true
	return true, nil
}

type fakeRequestRepo struct {
	requests map[string]leave.LeaveRequest
	overlaps bool
	next     int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[string]leave.LeaveRequest{}}
}

func (r *fakeRequestRepo) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.next++
	request.ID = fmt.Sprintf("request-%d", r.next)
	r.requests[request.ID] = request
	return request, nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveRequest, error) {
	req, ok := r.requests[id]
	if !ok || req.CompanyID != companyID {
		return leave.LeaveRequest{}, leave.ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) GetByIDForUpdate(ctx context.Context, id string, companyID string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id, companyID)
}

func (r *fakeRequestRepo) UpdateStatus(ctx context.Context, request leave.LeaveRequest) error {
	if _, ok := r.requests[request.ID]; !ok {
		return leave.ErrRequestNotFound
	}
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	return r.overlaps, nil
}

func (r *fakeRequestRepo) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID == employeeID {
			out = append(out, req)
		}
	}
	return out, nil
}

func newLedgerFixture() (*LedgerService, *fakeTypeRepo, *fakeBalanceRepo) {
	typeRepo := newFakeTypeRepo()
	balanceRepo := newFakeBalanceRepo(typeRepo)
	svc := NewLedgerService(fakeTxManager{}, typeRepo, balanceRepo, testEngineConfig())
	return svc, typeRepo, balanceRepo
}

func seedLeaveType(typeRepo *fakeTypeRepo, companyID string, allotment, rate float64) leave.LeaveType {
	created, _ := typeRepo.Create(context.Background(), leave.LeaveType{
		CompanyID:            companyID,
		Name:                 "Annual Leave",
		DefaultAllotmentDays: allotment,
		MonthlyAccrualRate:   rate,
		RequiresApproval:     true,
		IsActive:             true,
	})
	return created
}

func seedCappedLeaveType(typeRepo *fakeTypeRepo, companyID string, allotment, rate, capDays float64) leave.LeaveType {
	created, _ := typeRepo.Create(context.Background(), leave.LeaveType{
		CompanyID:            companyID,
		Name:                 "Time Off In Lieu",
		DefaultAllotmentDays: allotment,
		MonthlyAccrualRate:   rate,
		CapDays:              &capDays,
		RequiresApproval:     true,
		IsActive:             true,
	})
	return created
}

func TestLedgerService_InitializeBalance_SeedsDefaultAllotment(t *testing.T) {
	svc, typeRepo, _ := newLedgerFixture()
	leaveType := seedLeaveType(typeRepo, "company-1", 12, 1)
	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)

	balance, err := svc.InitializeBalance(ctx, leave.InitializeBalanceRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: leaveType.ID,
		Year:        2026,
	})

	require.NoError(t, err)
	assert.Equal(t, 12.0, balance.InitialDays)
	assert.Equal(t, 12.0, balance.CurrentDays)
	assert.Equal(t, 0.0, balance.UsedDays)
}

func TestLedgerService_InitializeBalance_Duplicate(t *testing.T) {
	svc, typeRepo, _ := newLedgerFixture()
	leaveType := seedLeaveType(typeRepo, "company-1", 12, 1)
	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)

	req := leave.InitializeBalanceRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: leaveType.ID,
		Year:        2026,
	}

	_, err := svc.InitializeBalance(ctx, req)
	require.NoError(t, err)

	_, err = svc.InitializeBalance(ctx, req)
	assert.ErrorIs(t, err, leave.ErrBalanceAlreadyExists)
}

func TestLedgerService_InitializeBalance_RequiresManager(t *testing.T) {
	svc, typeRepo, _ := newLedgerFixture()
	leaveType := seedLeaveType(typeRepo, "company-1", 12, 1)
	ctx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	_, err := svc.InitializeBalance(ctx, leave.InitializeBalanceRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: leaveType.ID,
		Year:        2026,
	})

	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)
}

func TestLedgerService_Accrue_ClaimsPeriodOnce(t *testing.T) {
	svc, typeRepo, balanceRepo := newLedgerFixture()
	leaveType := seedLeaveType(typeRepo, "company-1", 12, 1)
	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)

	_, err := svc.InitializeBalance(ctx, leave.InitializeBalanceRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: leaveType.ID,
		Year:        2026,
	})
	require.NoError(t, err)

	count, err := svc.Accrue(context.Background(), "2026-03")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Second run of the same period finds it already claimed.
	count, err = svc.Accrue(context.Background(), "2026-03")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 1, balanceRepo.accrueAllCalls)

	balance, err := balanceRepo.GetByEmployeeTypeYear(context.Background(), "emp-1", leaveType.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1.0, balance.AccruedDays)
	assert.Equal(t, 13.0, balance.CurrentDays)
}

func TestLedgerService_Accrue_ClampsCurrentAtCap(t *testing.T) {
	svc, typeRepo, balanceRepo := newLedgerFixture()
	leaveType := seedCappedLeaveType(typeRepo, "company-1", 0, 2, 3)
	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)

	_, err := svc.InitializeBalance(ctx, leave.InitializeBalanceRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: leaveType.ID,
		Year:        2026,
	})
	require.NoError(t, err)

	_, err = svc.Accrue(context.Background(), "2026-01")
	require.NoError(t, err)

	balance, err := balanceRepo.GetByEmployeeTypeYear(context.Background(), "emp-1", leaveType.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2.0, balance.AccruedDays)
	assert.Equal(t, 2.0, balance.CurrentDays)

	// The second accrual would reach 4; the cap holds current at 3 while
	// accrued keeps the full total.
	_, err = svc.Accrue(context.Background(), "2026-02")
	require.NoError(t, err)

	balance, err = balanceRepo.GetByEmployeeTypeYear(context.Background(), "emp-1", leaveType.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 4.0, balance.AccruedDays)
	assert.Equal(t, 3.0, balance.CurrentDays)
	assert.GreaterOrEqual(t, balance.CurrentDays, 0.0)
	assert.LessOrEqual(t, balance.CurrentDays, *leaveType.CapDays)
}

func TestLedgerService_Accrue_RestoresBankedDaysAfterDebit(t *testing.T) {
	svc, typeRepo, balanceRepo := newLedgerFixture()
	leaveType := seedCappedLeaveType(typeRepo, "company-1", 0, 2, 3)
	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)

	_, err := svc.InitializeBalance(ctx, leave.InitializeBalanceRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: leaveType.ID,
		Year:        2026,
	})
	require.NoError(t, err)

	// Two periods bank 4 accrued days; the cap holds current at 3.
	_, err = svc.Accrue(context.Background(), "2026-01")
	require.NoError(t, err)
	_, err = svc.Accrue(context.Background(), "2026-02")
	require.NoError(t, err)

	_, err = svc.DebitOnApproval(context.Background(), leave.LeaveRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: leaveType.ID,
		StartDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		TotalDays:   3,
	})
	require.NoError(t, err)

	// current = initial + accrued - used, so the next accrual restores the
	// day the cap withheld on top of the period's rate.
	_, err = svc.Accrue(context.Background(), "2026-03")
	require.NoError(t, err)

	balance, err := balanceRepo.GetByEmployeeTypeYear(context.Background(), "emp-1", leaveType.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 6.0, balance.AccruedDays)
	assert.Equal(t, 3.0, balance.UsedDays)
	assert.Equal(t, 3.0, balance.CurrentDays)
}

func TestLedgerService_Accrue_SkipsNonAccruingTypes(t *testing.T) {
	svc, typeRepo, balanceRepo := newLedgerFixture()
	leaveType := seedLeaveType(typeRepo, "company-1", 5, 0)
	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)

	_, err := svc.InitializeBalance(ctx, leave.InitializeBalanceRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: leaveType.ID,
		Year:        2026,
	})
	require.NoError(t, err)

	count, err := svc.Accrue(context.Background(), "2026-01")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	balance, err := balanceRepo.GetByEmployeeTypeYear(context.Background(), "emp-1", leaveType.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.AccruedDays)
	assert.Equal(t, 5.0, balance.CurrentDays)
}

func TestLedgerService_Accrue_InvalidPeriod(t *testing.T) {
	svc, _, _ := newLedgerFixture()

	_, err := svc.Accrue(context.Background(), "March 2026")
	assert.Error(t, err)
}

func TestLedgerService_GetMyBalances(t *testing.T) {
	svc, typeRepo, _ := newLedgerFixture()
	leaveType := seedLeaveType(typeRepo, "company-1", 12, 1)
	managerCtx := authContext(t, "manager-1", "company-1", user.RoleManager)

	_, err := svc.InitializeBalance(managerCtx, leave.InitializeBalanceRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: leaveType.ID,
		Year:        2026,
	})
	require.NoError(t, err)

	ctx := authContext(t, "emp-1", "company-1", user.RoleEmployee)
	balances, err := svc.GetMyBalances(ctx, 2026)

	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "emp-1", balances[0].EmployeeID)
}

type requestFixture struct {
	svc         *RequestServiceImpl
	ledger      *LedgerService
	typeRepo    *fakeTypeRepo
	balanceRepo *fakeBalanceRepo
	requestRepo *fakeRequestRepo
}

func newRequestFixture() requestFixture {
	typeRepo := newFakeTypeRepo()
	balanceRepo := newFakeBalanceRepo(typeRepo)
	requestRepo := newFakeRequestRepo()
	cfg := testEngineConfig()
	ledger := NewLedgerService(fakeTxManager{}, typeRepo, balanceRepo, cfg)
	svc := NewRequestService(fakeTxManager{}, requestRepo, typeRepo, ledger, testEmitter(), cfg)
	return requestFixture{svc: svc, ledger: ledger, typeRepo: typeRepo, balanceRepo: balanceRepo, requestRepo: requestRepo}
}

func (f requestFixture) seedBalance(t *testing.T, leaveTypeID string, days float64) {
	t.Helper()
	_, err := f.balanceRepo.Create(context.Background(), leave.LeaveBalance{
		EmployeeID:  "emp-1",
		LeaveTypeID: leaveTypeID,
		Year:        2026,
		InitialDays: days,
		CurrentDays: days,
	})
	require.NoError(t, err)
}

func (f requestFixture) createPending(t *testing.T, leaveTypeID, start, end string) leave.LeaveRequestResponse {
	t.Helper()
	ctx := authContext(t, "emp-1", "company-1", user.RoleEmployee)
	created, err := f.svc.CreateRequest(ctx, leave.CreateLeaveRequestRequest{
		LeaveTypeID: leaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Reason:      "family trip",
	})
	require.NoError(t, err)
	return created
}

func TestRequestService_CreateRequest_CountsInclusiveDays(t *testing.T) {
	f := newRequestFixture()
	leaveType := seedLeaveType(f.typeRepo, "company-1", 12, 1)

	created := f.createPending(t, leaveType.ID, "2026-03-02", "2026-03-04")

	assert.Equal(t, 3.0, created.TotalDays)
	assert.Equal(t, string(leave.RequestStatusPending), created.Status)
}

func TestRequestService_CreateRequest_InvalidDateRange(t *testing.T) {
	f := newRequestFixture()
	leaveType := seedLeaveType(f.typeRepo, "company-1", 12, 1)
	ctx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	_, err := f.svc.CreateRequest(ctx, leave.CreateLeaveRequestRequest{
		LeaveTypeID: leaveType.ID,
		StartDate:   "2026-03-04",
		EndDate:     "2026-03-02",
		Reason:      "family trip",
	})

	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
}

func TestRequestService_CreateRequest_Overlapping(t *testing.T) {
	f := newRequestFixture()
	leaveType := seedLeaveType(f.typeRepo, "company-1", 12, 1)
	f.requestRepo.overlaps = true
	ctx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	_, err := f.svc.CreateRequest(ctx, leave.CreateLeaveRequestRequest{
		LeaveTypeID: leaveType.ID,
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-04",
		Reason:      "family trip",
	})

	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)
}

func TestRequestService_Approve_DebitsBalance(t *testing.T) {
	f := newRequestFixture()
	leaveType := seedLeaveType(f.typeRepo, "company-1", 12, 1)
	f.seedBalance(t, leaveType.ID, 12)
	created := f.createPending(t, leaveType.ID, "2026-03-02", "2026-03-04")

	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)
	approved, err := f.svc.Approve(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, string(leave.RequestStatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "manager-1", *approved.ApprovedBy)

	balance, err := f.balanceRepo.GetByEmployeeTypeYear(context.Background(), "emp-1", leaveType.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 9.0, balance.CurrentDays)
	assert.Equal(t, 3.0, balance.UsedDays)
}

func TestRequestService_Approve_InsufficientBalance(t *testing.T) {
	f := newRequestFixture()
	leaveType := seedLeaveType(f.typeRepo, "company-1", 12, 1)
	f.seedBalance(t, leaveType.ID, 2)
	created := f.createPending(t, leaveType.ID, "2026-03-02", "2026-03-04")

	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)
	_, err := f.svc.Approve(ctx, created.ID)

	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	// The request stays pending and the balance is untouched.
	request, err := f.requestRepo.GetByID(context.Background(), created.ID, "company-1")
	require.NoError(t, err)
	assert.Equal(t, leave.RequestStatusPending, request.Status)

	balance, err := f.balanceRepo.GetByEmployeeTypeYear(context.Background(), "emp-1", leaveType.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2.0, balance.CurrentDays)
	assert.Equal(t, 0.0, balance.UsedDays)
}

func TestRequestService_Approve_SecondApprovalRejected(t *testing.T) {
	f := newRequestFixture()
	leaveType := seedLeaveType(f.typeRepo, "company-1", 12, 1)
	f.seedBalance(t, leaveType.ID, 12)
	created := f.createPending(t, leaveType.ID, "2026-03-02", "2026-03-04")

	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)
	_, err := f.svc.Approve(ctx, created.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, created.ID)
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)

	// The balance was debited exactly once.
	balance, err := f.balanceRepo.GetByEmployeeTypeYear(context.Background(), "emp-1", leaveType.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 3.0, balance.UsedDays)
}

func TestRequestService_Approve_RequiresManager(t *testing.T) {
	f := newRequestFixture()
	leaveType := seedLeaveType(f.typeRepo, "company-1", 12, 1)
	created := f.createPending(t, leaveType.ID, "2026-03-02", "2026-03-04")

	ctx := authContext(t, "emp-2", "company-1", user.RoleEmployee)
	_, err := f.svc.Approve(ctx, created.ID)

	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)
}

func TestRequestService_Reject_NoLedgerEffect(t *testing.T) {
	f := newRequestFixture()
	leaveType := seedLeaveType(f.typeRepo, "company-1", 12, 1)
	f.seedBalance(t, leaveType.ID, 12)
	created := f.createPending(t, leaveType.ID, "2026-03-02", "2026-03-04")

	ctx := authContext(t, "manager-1", "company-1", user.RoleManager)
	rejected, err := f.svc.Reject(ctx, created.ID, "blackout period")

	require.NoError(t, err)
	assert.Equal(t, string(leave.RequestStatusRejected), rejected.Status)

	balance, err := f.balanceRepo.GetByEmployeeTypeYear(context.Background(), "emp-1", leaveType.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 12.0, balance.CurrentDays)
}

func TestRequestService_Cancel_OnlyRequester(t *testing.T) {
	f := newRequestFixture()
	leaveType := seedLeaveType(f.typeRepo, "company-1", 12, 1)
	created := f.createPending(t, leaveType.ID, "2026-03-02", "2026-03-04")

	otherCtx := authContext(t, "emp-2", "company-1", user.RoleEmployee)
	_, err := f.svc.Cancel(otherCtx, created.ID)
	assert.ErrorIs(t, err, leave.ErrRequestNotFound)

	ownerCtx := authContext(t, "emp-1", "company-1", user.RoleEmployee)
	cancelled, err := f.svc.Cancel(ownerCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(leave.RequestStatusCancelled), cancelled.Status)
}

func TestTypeService_CreateType_RequiresManager(t *testing.T) {
	typeRepo := newFakeTypeRepo()
	svc := NewTypeService(fakeTxManager{}, typeRepo, testEngineConfig())
	ctx := authContext(t, "emp-1", "company-1", user.RoleEmployee)

	_, err := svc.CreateType(ctx, leave.CreateLeaveTypeRequest{
		Name:                 "Annual Leave",
		DefaultAllotmentDays: 12,
	})

	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)
}

func TestTypeService_CreateAndList(t *testing.T) {
	typeRepo := newFakeTypeRepo()
	svc := NewTypeService(fakeTxManager{}, typeRepo, testEngineConfig())
	ctx := authContext(t, "owner-1", "company-1", user.RoleOwner)

	created, err := svc.CreateType(ctx, leave.CreateLeaveTypeRequest{
		Name:                 "Annual Leave",
		DefaultAllotmentDays: 12,
		MonthlyAccrualRate:   1,
		RequiresApproval:     true,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	types, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Annual Leave", types[0].Name)
}
