package workplace

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/config"
	"github.com/chronohq/attendance-engine-go/internal/domain/user"
	"github.com/chronohq/attendance-engine-go/internal/domain/workplace"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokenAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func authContext(t *testing.T, companyID string, role user.Role) context.Context {
	t.Helper()

	token, _, err := testTokenAuth.Encode(map[string]interface{}{
		"employee_id": "emp-1",
		"company_id":  companyID,
		"role":        string(role),
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

type fakeWorkplaceRepo struct {
	workplaces map[string]workplace.Workplace
}

func (r *fakeWorkplaceRepo) GetByID(_ context.Context, id string, companyID string) (workplace.Workplace, error) {
	wp, ok := r.workplaces[id]
	if !ok || wp.CompanyID != companyID {
		return workplace.Workplace{}, workplace.ErrWorkplaceNotFound
	}
	return wp, nil
}

type fakeZoneRepo struct {
	zones map[string]workplace.GeofenceZone
	next  int
}

func (r *fakeZoneRepo) Create(_ context.Context, zone workplace.GeofenceZone) (workplace.GeofenceZone, error) {
	r.next++
	zone.ID = fmt.Sprintf("zone-%d", r.next)
	r.zones[zone.ID] = zone
	return zone, nil
}

func (r *fakeZoneRepo) GetActiveByWorkplace(_ context.Context, workplaceID string) ([]workplace.GeofenceZone, error) {
	var out []workplace.GeofenceZone
	for _, z := range r.zones {
		if z.WorkplaceID == workplaceID && z.IsActive {
			out = append(out, z)
		}
	}
	return out, nil
}

func newZoneFixture() (*ZoneServiceImpl, *fakeZoneRepo) {
	workplaceRepo := &fakeWorkplaceRepo{
		workplaces: map[string]workplace.Workplace{
			"wp-1": {ID: "wp-1", CompanyID: "company-1", Name: "HQ", Timezone: "Asia/Jakarta"},
		},
	}
	zoneRepo := &fakeZoneRepo{zones: map[string]workplace.GeofenceZone{}}

	svc := NewZoneService(workplaceRepo, zoneRepo, config.EngineConfig{
		StandardDayHours: 8,
		StoreTimeout:     5 * time.Second,
	})
	return svc, zoneRepo
}

func TestZoneService_CreateZone(t *testing.T) {
	svc, _ := newZoneFixture()
	ctx := authContext(t, "company-1", user.RoleManager)

	resp, err := svc.CreateZone(ctx, workplace.CreateZoneRequest{
		WorkplaceID:    "wp-1",
		Latitude:       -6.2,
		Longitude:      106.8,
		RadiusMeters:   100,
		AllowedMethods: []string{"gps"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "wp-1", resp.WorkplaceID)
	assert.True(t, resp.IsActive)
	assert.Equal(t, []string{"gps"}, resp.AllowedMethods)
}

func TestZoneService_CreateZone_EmployeeForbidden(t *testing.T) {
	svc, zoneRepo := newZoneFixture()
	ctx := authContext(t, "company-1", user.RoleEmployee)

	_, err := svc.CreateZone(ctx, workplace.CreateZoneRequest{
		WorkplaceID:  "wp-1",
		Latitude:     -6.2,
		Longitude:    106.8,
		RadiusMeters: 100,
	})
	require.ErrorIs(t, err, user.ErrManagerAccessRequired)
	assert.Empty(t, zoneRepo.zones)
}

func TestZoneService_CreateZone_RejectsNonPositiveRadius(t *testing.T) {
	svc, _ := newZoneFixture()
	ctx := authContext(t, "company-1", user.RoleManager)

	_, err := svc.CreateZone(ctx, workplace.CreateZoneRequest{
		WorkplaceID:  "wp-1",
		Latitude:     -6.2,
		Longitude:    106.8,
		RadiusMeters: 0,
	})
	require.Error(t, err)
}

func TestZoneService_CreateZone_UnknownWorkplace(t *testing.T) {
	svc, _ := newZoneFixture()
	ctx := authContext(t, "company-1", user.RoleManager)

	_, err := svc.CreateZone(ctx, workplace.CreateZoneRequest{
		WorkplaceID:  "wp-missing",
		Latitude:     -6.2,
		Longitude:    106.8,
		RadiusMeters: 100,
	})
	require.ErrorIs(t, err, workplace.ErrWorkplaceNotFound)
}

func TestZoneService_CreateZone_CrossCompanyHidden(t *testing.T) {
	svc, _ := newZoneFixture()
	ctx := authContext(t, "company-2", user.RoleManager)

	_, err := svc.CreateZone(ctx, workplace.CreateZoneRequest{
		WorkplaceID:  "wp-1",
		Latitude:     -6.2,
		Longitude:    106.8,
		RadiusMeters: 100,
	})
	require.ErrorIs(t, err, workplace.ErrWorkplaceNotFound)
}

func TestZoneService_ListZones_OnlyActive(t *testing.T) {
	svc, zoneRepo := newZoneFixture()
	ctx := authContext(t, "company-1", user.RoleManager)

	_, err := svc.CreateZone(ctx, workplace.CreateZoneRequest{
		WorkplaceID:  "wp-1",
		Latitude:     -6.2,
		Longitude:    106.8,
		RadiusMeters: 100,
	})
	require.NoError(t, err)

	zoneRepo.zones["zone-inactive"] = workplace.GeofenceZone{
		ID:          "zone-inactive",
		WorkplaceID: "wp-1",
		IsActive:    false,
	}

	zones, err := svc.ListZones(ctx, "wp-1")
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.True(t, zones[0].IsActive)
}
