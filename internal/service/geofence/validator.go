package geofence

import (
	"context"
	"fmt"

	"github.com/chronohq/attendance-engine-go/internal/domain/workplace"
	"github.com/chronohq/attendance-engine-go/internal/pkg/utils"
)

// Validator decides whether a punch location falls inside a workplace's
// registered zones. Containment is pure; zone lookup goes through the
// repository.
type Validator struct {
	zoneRepo workplace.GeofenceZoneRepository
}

func NewValidator(zoneRepo workplace.GeofenceZoneRepository) *Validator {
	return &Validator{zoneRepo: zoneRepo}
}

// IsWithinZone reports whether the point lies inside the zone. Containment
// is inclusive at the boundary: a point exactly radius meters from center is
// within the zone.
func (v *Validator) IsWithinZone(lat, lng float64, zone workplace.GeofenceZone) bool {
	distance := utils.HaversineDistance(lat, lng, zone.Latitude, zone.Longitude)
	return distance <= zone.RadiusMeters
}

// IsWithinAnyActiveZone reports whether the point lies inside any active
// zone of the workplace that accepts the punch method. A workplace with no
// active zone is unrestricted, so any location is valid.
func (v *Validator) IsWithinAnyActiveZone(ctx context.Context, lat, lng float64, workplaceID, method string) (bool, error) {
	zones, err := v.zoneRepo.GetActiveByWorkplace(ctx, workplaceID)
	if err != nil {
		return false, fmt.Errorf("failed to get active zones: %w", err)
	}

	if len(zones) == 0 {
		return true, nil
	}

	for _, zone := range zones {
		if !zone.AllowsMethod(method) {
			continue
		}
		if v.IsWithinZone(lat, lng, zone) {
			return true, nil
		}
	}

	return false, nil
}
