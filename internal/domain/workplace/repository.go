package workplace

import "context"

// WorkplaceRepository defines data access for workplaces.
type WorkplaceRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Workplace, error)
}

// GeofenceZoneRepository defines data access for geofence zones.
type GeofenceZoneRepository interface {
	Create(ctx context.Context, zone GeofenceZone) (GeofenceZone, error)

	// GetActiveByWorkplace returns the active zones registered for a
	// workplace; an empty slice means the workplace is unrestricted.
	GetActiveByWorkplace(ctx context.Context, workplaceID string) ([]GeofenceZone, error)
}
