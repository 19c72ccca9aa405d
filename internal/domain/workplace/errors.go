package workplace

import "errors"

var (
	ErrWorkplaceNotFound = errors.New("workplace not found")
	ErrZoneNotFound      = errors.New("geofence zone not found")
	ErrInvalidZoneRadius = errors.New("geofence zone radius must be positive")
)
