package leave

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/config"
	"github.com/chronohq/attendance-engine-go/internal/domain/leave"
	"github.com/chronohq/attendance-engine-go/internal/domain/user"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
)

// LedgerService is the only writer of LeaveBalance rows: the accrual job and
// leave request approval go through it, nothing mutates balances directly.
type LedgerService struct {
	tx database.TxManager
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
	cfg config.EngineConfig
}

func NewLedgerService(
	tx database.TxManager,
	typeRepo leave.LeaveTypeRepository,
	balanceRepo leave.LeaveBalanceRepository,
	cfg config.EngineConfig,
) *LedgerService {
	return &LedgerService{
		tx:                     tx,
		LeaveTypeRepository:    typeRepo,
		LeaveBalanceRepository: balanceRepo,
		cfg:                    cfg,
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

func (s *LedgerService) guard(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// InitializeBalance implements leave.LedgerService.
func (s *LedgerService) InitializeBalance(ctx context.Context, req leave.InitializeBalanceRequest) (leave.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	_, companyID, role, err := identityFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if !role.IsManager() {
		return leave.BalanceResponse{}, user.ErrManagerAccessRequired
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID, companyID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	initial := leaveType.DefaultAllotmentDays

	created, err := s.LeaveBalanceRepository.Create(ctx, leave.LeaveBalance{
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: leaveType.ID,
		Year:        req.Year,
		InitialDays: initial,
		CurrentDays: initial,
	})
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	return mapBalanceToResponse(created), nil
}

// Accrue implements leave.LedgerService. The period string is "YYYY-MM".
// Each call adds a full increment; exactly-one invocation per period is the
// scheduler's job, claimed through TryMarkPeriodAccrued in the same
// transaction as the accrual itself.
func (s *LedgerService) Accrue(ctx context.Context, period string) (int64, error) {
	year, err := yearOfPeriod(period)
	if err != nil {
		return 0, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	var count int64
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		claimed, err := s.LeaveBalanceRepository.TryMarkPeriodAccrued(ctx, period)
		if err != nil {
			return err
		}
		if !claimed {
			// Another run already accrued this period.
			return nil
		}

		count, err = s.LeaveBalanceRepository.AccrueAll(ctx, year)
		return err
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// DebitOnApproval implements leave.LedgerService. The conditional debit in
// the repository serializes racing approvals so the balance never goes
// negative.
func (s *LedgerService) DebitOnApproval(ctx context.Context, request leave.LeaveRequest) (leave.LeaveBalance, error) {
	balance, err := s.LeaveBalanceRepository.Debit(
		ctx,
		request.EmployeeID,
		request.LeaveTypeID,
		request.StartDate.Year(),
		request.TotalDays,
	)
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	return balance, nil
}

// GetMyBalances implements leave.LedgerService.
func (s *LedgerService) GetMyBalances(ctx context.Context, year int) ([]leave.BalanceResponse, error) {
	employeeID, _, _, err := identityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	if year == 0 {
		year = time.Now().UTC().Year()
	}

	balances, err := s.LeaveBalanceRepository.GetByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, mapBalanceToResponse(b))
	}

	return responses, nil
}

func yearOfPeriod(period string) (int, error) {
	parts := strings.SplitN(period, "-", 2)
	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts) != 2 {
		return 0, fmt.Errorf("invalid accrual period %q, want YYYY-MM", period)
	}
	return year, nil
}

func mapBalanceToResponse(b leave.LeaveBalance) leave.BalanceResponse {
	return leave.BalanceResponse{
		ID:            b.ID,
		EmployeeID:    b.EmployeeID,
		LeaveTypeID:   b.LeaveTypeID,
		LeaveTypeName: b.LeaveTypeName,
		Year:          b.Year,
		InitialDays:   b.InitialDays,
		AccruedDays:   b.AccruedDays,
		UsedDays:      b.UsedDays,
		CurrentDays:   b.CurrentDays,
	}
}
