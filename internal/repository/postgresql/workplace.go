package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronohq/attendance-engine-go/internal/domain/workplace"
	"github.com/chronohq/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workplaceRepository struct {
	db *database.DB
}

func NewWorkplaceRepository(db *database.DB) workplace.WorkplaceRepository {
	return &workplaceRepository{db: db}
}

// GetByID implements workplace.WorkplaceRepository.
func (r *workplaceRepository) GetByID(ctx context.Context, id string, companyID string) (workplace.Workplace, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, timezone, created_at, updated_at
		FROM workplaces
		WHERE id = $1 AND company_id = $2
	`

	var wp workplace.Workplace
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&wp.ID, &wp.CompanyID, &wp.Name, &wp.Timezone, &wp.CreatedAt, &wp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workplace.Workplace{}, workplace.ErrWorkplaceNotFound
		}
		return workplace.Workplace{}, fmt.Errorf("failed to get workplace: %w", database.MapError(err))
	}

	return wp, nil
}

type geofenceZoneRepository struct {
	db *database.DB
}

func NewGeofenceZoneRepository(db *database.DB) workplace.GeofenceZoneRepository {
	return &geofenceZoneRepository{db: db}
}

// Create implements workplace.GeofenceZoneRepository.
func (r *geofenceZoneRepository) Create(ctx context.Context, zone workplace.GeofenceZone) (workplace.GeofenceZone, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO geofence_zones (workplace_id, latitude, longitude, radius_meters, is_active, allowed_methods)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		zone.WorkplaceID,
		zone.Latitude,
		zone.Longitude,
		zone.RadiusMeters,
		zone.IsActive,
		zone.AllowedMethods,
	).Scan(&zone.ID, &zone.CreatedAt, &zone.UpdatedAt)
	if err != nil {
		return workplace.GeofenceZone{}, fmt.Errorf("failed to create geofence zone: %w", database.MapError(err))
	}

	return zone, nil
}

// GetActiveByWorkplace implements workplace.GeofenceZoneRepository.
func (r *geofenceZoneRepository) GetActiveByWorkplace(ctx context.Context, workplaceID string) ([]workplace.GeofenceZone, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, workplace_id, latitude, longitude, radius_meters, is_active, allowed_methods, created_at, updated_at
		FROM geofence_zones
		WHERE workplace_id = $1 AND is_active = true
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, workplaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active zones: %w", database.MapError(err))
	}
	defer rows.Close()

	var zones []workplace.GeofenceZone
	for rows.Next() {
		var z workplace.GeofenceZone
		if err := rows.Scan(
			&z.ID, &z.WorkplaceID, &z.Latitude, &z.Longitude, &z.RadiusMeters,
			&z.IsActive, &z.AllowedMethods, &z.CreatedAt, &z.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read zones: %w", database.MapError(err))
	}

	return zones, nil
}
