package workplace

import (
	"github.com/chronohq/attendance-engine-go/internal/pkg/validator"
)

type CreateZoneRequest struct {
	WorkplaceID    string   `json:"-"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	RadiusMeters   float64  `json:"radius_meters"`
	AllowedMethods []string `json:"allowed_methods,omitempty"`
}

func (r *CreateZoneRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkplaceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "workplace_id",
			Message: "workplace_id is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ZoneResponse struct {
	ID             string   `json:"id"`
	WorkplaceID    string   `json:"workplace_id"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	RadiusMeters   float64  `json:"radius_meters"`
	IsActive       bool     `json:"is_active"`
	AllowedMethods []string `json:"allowed_methods,omitempty"`
}
