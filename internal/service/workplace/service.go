package workplace

import (
	"context"
	"fmt"

	"github.com/chronohq/attendance-engine-go/internal/config"
	"github.com/chronohq/attendance-engine-go/internal/domain/user"
	"github.com/chronohq/attendance-engine-go/internal/domain/workplace"
	"github.com/go-chi/jwtauth/v5"
)

type ZoneServiceImpl struct {
	workplaceRepo workplace.WorkplaceRepository
	zoneRepo      workplace.GeofenceZoneRepository
	cfg           config.EngineConfig
}

func NewZoneService(
	workplaceRepo workplace.WorkplaceRepository,
	zoneRepo workplace.GeofenceZoneRepository,
	cfg config.EngineConfig,
) *ZoneServiceImpl {
	return &ZoneServiceImpl{
		workplaceRepo: workplaceRepo,
		zoneRepo:      zoneRepo,
		cfg:           cfg,
	}
}

func identityFromContext(ctx context.Context) (companyID string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return "", "", fmt.Errorf("role claim is missing or invalid")
	}

	return companyID, user.Role(roleStr), nil
}

func (s *ZoneServiceImpl) guard(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// CreateZone implements workplace.ZoneService. New zones start active.
func (s *ZoneServiceImpl) CreateZone(ctx context.Context, req workplace.CreateZoneRequest) (workplace.ZoneResponse, error) {
	if err := req.Validate(); err != nil {
		return workplace.ZoneResponse{}, err
	}

	companyID, role, err := identityFromContext(ctx)
	if err != nil {
		return workplace.ZoneResponse{}, err
	}
	if !role.IsManager() {
		return workplace.ZoneResponse{}, user.ErrManagerAccessRequired
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	wp, err := s.workplaceRepo.GetByID(ctx, req.WorkplaceID, companyID)
	if err != nil {
		return workplace.ZoneResponse{}, err
	}

	created, err := s.zoneRepo.Create(ctx, workplace.GeofenceZone{
		WorkplaceID:    wp.ID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		RadiusMeters:   req.RadiusMeters,
		IsActive:       true,
		AllowedMethods: req.AllowedMethods,
	})
	if err != nil {
		return workplace.ZoneResponse{}, err
	}

	return mapZoneToResponse(created), nil
}

// ListZones implements workplace.ZoneService.
func (s *ZoneServiceImpl) ListZones(ctx context.Context, workplaceID string) ([]workplace.ZoneResponse, error) {
	companyID, _, err := identityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.guard(ctx)
	defer cancel()

	if _, err := s.workplaceRepo.GetByID(ctx, workplaceID, companyID); err != nil {
		return nil, err
	}

	zones, err := s.zoneRepo.GetActiveByWorkplace(ctx, workplaceID)
	if err != nil {
		return nil, err
	}

	responses := make([]workplace.ZoneResponse, 0, len(zones))
	for _, z := range zones {
		responses = append(responses, mapZoneToResponse(z))
	}

	return responses, nil
}

func mapZoneToResponse(z workplace.GeofenceZone) workplace.ZoneResponse {
	return workplace.ZoneResponse{
		ID:             z.ID,
		WorkplaceID:    z.WorkplaceID,
		Latitude:       z.Latitude,
		Longitude:      z.Longitude,
		RadiusMeters:   z.RadiusMeters,
		IsActive:       z.IsActive,
		AllowedMethods: z.AllowedMethods,
	}
}
