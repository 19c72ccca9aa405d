package leave

import (
	"context"

	"github.com/chronohq/attendance-engine-go/internal/config"
	"github.com/chronohq/attendance-engine-go/internal/domain/leave"
	"github.com/chronohq/attendance-engine-go/internal/domain/user"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
)

type TypeServiceImpl struct {
	tx database.TxManager
	leave.LeaveTypeRepository
	cfg config.EngineConfig
}

func NewTypeService(tx database.TxManager, typeRepo leave.LeaveTypeRepository, cfg config.EngineConfig) *TypeServiceImpl {
	return &TypeServiceImpl{
		tx:                  tx,
		LeaveTypeRepository: typeRepo,
		cfg:                 cfg,
	}
}

func (s *TypeServiceImpl) guard(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// CreateType implements leave.TypeService.
func (s *TypeServiceImpl) CreateType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	_, companyID, role, err := identityFromContext(ctx)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if !role.IsManager() {
		return leave.LeaveTypeResponse{}, user.ErrManagerAccessRequired
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	created, err := s.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		CompanyID:            companyID,
		Name:                 req.Name,
		Code:                 req.Code,
		DefaultAllotmentDays: req.DefaultAllotmentDays,
		MonthlyAccrualRate:   req.MonthlyAccrualRate,
		CapDays:              req.CapDays,
		IsPaid:               req.IsPaid,
		RequiresApproval:     req.RequiresApproval,
		IsActive:             true,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	return mapTypeToResponse(created), nil
}

// ListTypes implements leave.TypeService.
func (s *TypeServiceImpl) ListTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	_, companyID, _, err := identityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	types, err := s.LeaveTypeRepository.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, mapTypeToResponse(t))
	}

	return responses, nil
}

func mapTypeToResponse(t leave.LeaveType) leave.LeaveTypeResponse {
	return leave.LeaveTypeResponse{
		ID:                   t.ID,
		Name:                 t.Name,
		Code:                 t.Code,
		DefaultAllotmentDays: t.DefaultAllotmentDays,
		MonthlyAccrualRate:   t.MonthlyAccrualRate,
		CapDays:              t.CapDays,
		IsPaid:               t.IsPaid,
		RequiresApproval:     t.RequiresApproval,
		IsActive:             t.IsActive,
	}
}
