package workplace

import "context"

// ZoneService manages the geofence zones registered on a workplace.
type ZoneService interface {
	CreateZone(ctx context.Context, req CreateZoneRequest) (ZoneResponse, error)
	ListZones(ctx context.Context, workplaceID string) ([]ZoneResponse, error)
}
