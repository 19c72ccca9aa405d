package workplace

import "time"

// Workplace is a physical site employees punch in against.
type Workplace struct {
	ID        string
	CompanyID string
	Name      string
	Timezone  string // IANA name, e.g. "Asia/Jakarta"
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GeofenceZone is a circular boundary around a workplace coordinate used to
// validate punch locations. A workplace with no active zone is treated as
// unrestricted.
type GeofenceZone struct {
	ID             string
	WorkplaceID    string
	Latitude       float64
	Longitude      float64
	RadiusMeters   float64
	IsActive       bool
	AllowedMethods []string // punch methods the zone accepts, e.g. gps, beacon
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AllowsMethod reports whether the zone accepts the given punch method. An
// empty list means every method is accepted.
func (z GeofenceZone) AllowsMethod(method string) bool {
	if len(z.AllowedMethods) == 0 {
		return true
	}
	for _, m := range z.AllowedMethods {
		if m == method {
			return true
		}
	}
	return false
}
