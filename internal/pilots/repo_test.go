package pilots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

func setupPilotsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	pilots := `
CREATE TABLE IF NOT EXISTS pilots (
  id TEXT PRIMARY KEY,
  pilot_number INTEGER NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  email TEXT,
  vehicle_registration TEXT NOT NULL,
  vehicle_type TEXT NOT NULL,
  vehicle_capacity_kg INTEGER NOT NULL DEFAULT 0,
  insurance_valid INTEGER NOT NULL DEFAULT 0,
  rc_valid INTEGER NOT NULL DEFAULT 0,
  license_number TEXT NOT NULL,
  license_valid_till DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending_approval',
  rejection_reason TEXT,
  is_active INTEGER NOT NULL DEFAULT 0,
  is_available INTEGER NOT NULL DEFAULT 0,
  current_order_id TEXT,
  current_lat REAL,
  current_lng REAL,
  location_updated_at DATETIME,
  total_deliveries INTEGER NOT NULL DEFAULT 0,
  rating_avg REAL NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(pilots).Error)
	require.NoError(t, db.Exec("DELETE FROM pilots").Error)
	return db
}

func seedPilot(t *testing.T, db *gorm.DB, number int64, phone string, status enums.PilotStatus) *models.Pilot {
	t.Helper()

	pilot := &models.Pilot{
		ID:                  uuid.New(),
		PilotNumber:         number,
		Name:                "Test Pilot",
		Phone:               phone,
		VehicleRegistration: "KA01AB1234",
		VehicleType:         enums.VehicleTypeTruck,
		VehicleCapacityKg:   5000,
		LicenseNumber:       "DL-1420110012345",
		LicenseValidTill:    time.Now().Add(180 * 24 * time.Hour),
		Status:              status,
		IsActive:            status == enums.PilotStatusApproved,
	}
	require.NoError(t, db.Create(pilot).Error)
	return pilot
}

func TestRepoFindByPhone(t *testing.T) {
	db := setupPilotsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedPilot(t, db, 1, "9876543210", enums.PilotStatusApproved)

	found, err := repo.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, "PIL000001", found.PilotID())

	_, err = repo.FindByPhone(ctx, "9000000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoUpdateStatusFromGuards(t *testing.T) {
	db := setupPilotsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pilot := seedPilot(t, db, 2, "9876543211", enums.PilotStatusPendingApproval)

	moved, err := repo.UpdateStatusFrom(ctx, pilot.ID, enums.PilotStatusPendingApproval, enums.PilotStatusApproved, map[string]any{"is_active": true})
	require.NoError(t, err)
	assert.True(t, moved)

	// Second transition from the stale old status must lose.
	moved, err = repo.UpdateStatusFrom(ctx, pilot.ID, enums.PilotStatusPendingApproval, enums.PilotStatusRejected, nil)
	require.NoError(t, err)
	assert.False(t, moved)

	reloaded, err := repo.FindByID(ctx, pilot.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PilotStatusApproved, reloaded.Status)
	assert.True(t, reloaded.IsActive)
}

func TestRepoClaimOrderIsExclusive(t *testing.T) {
	db := setupPilotsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pilot := seedPilot(t, db, 3, "9876543212", enums.PilotStatusApproved)

	first := uuid.New()
	won, err := repo.ClaimOrder(ctx, pilot.ID, first)
	require.NoError(t, err)
	assert.True(t, won)

	// A second claim while the first order is active must lose.
	won, err = repo.ClaimOrder(ctx, pilot.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, won)

	reloaded, err := repo.FindByID(ctx, pilot.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.CurrentOrderID)
	assert.Equal(t, first, *reloaded.CurrentOrderID)
}

func TestRepoClaimOrderRequiresApprovedPilot(t *testing.T) {
	db := setupPilotsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pilot := seedPilot(t, db, 4, "9876543213", enums.PilotStatusPendingApproval)

	won, err := repo.ClaimOrder(ctx, pilot.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, won)
}

func TestRepoReleaseOrderFoldsRating(t *testing.T) {
	db := setupPilotsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pilot := seedPilot(t, db, 5, "9876543214", enums.PilotStatusApproved)
	orderID := uuid.New()

	won, err := repo.ClaimOrder(ctx, pilot.ID, orderID)
	require.NoError(t, err)
	require.True(t, won)

	rating := 4
	released, err := repo.ReleaseOrder(ctx, pilot.ID, orderID, &rating)
	require.NoError(t, err)
	assert.True(t, released)

	reloaded, err := repo.FindByID(ctx, pilot.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CurrentOrderID)
	assert.Equal(t, 1, reloaded.TotalDeliveries)
	assert.Equal(t, 1, reloaded.RatingCount)
	assert.InDelta(t, 4.0, reloaded.RatingAvg, 0.001)

	// Releasing again must be a no-op.
	released, err = repo.ReleaseOrder(ctx, pilot.ID, orderID, &rating)
	require.NoError(t, err)
	assert.False(t, released)
}

func TestRepoReleaseOrderRunningAverage(t *testing.T) {
	db := setupPilotsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pilot := seedPilot(t, db, 6, "9876543215", enums.PilotStatusApproved)

	ratings := []int{5, 3, 4}
	for _, r := range ratings {
		orderID := uuid.New()
		won, err := repo.ClaimOrder(ctx, pilot.ID, orderID)
		require.NoError(t, err)
		require.True(t, won)

		rating := r
		released, err := repo.ReleaseOrder(ctx, pilot.ID, orderID, &rating)
		require.NoError(t, err)
		require.True(t, released)
	}

	reloaded, err := repo.FindByID(ctx, pilot.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.RatingCount)
	assert.InDelta(t, 4.0, reloaded.RatingAvg, 0.001)
	assert.Equal(t, 3, reloaded.TotalDeliveries)
}

func TestRepoListFiltersAndPages(t *testing.T) {
	db := setupPilotsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedPilot(t, db, 10, "9876543220", enums.PilotStatusApproved)
	seedPilot(t, db, 11, "9876543221", enums.PilotStatusApproved)
	seedPilot(t, db, 12, "9876543222", enums.PilotStatusPendingApproval)

	status := enums.PilotStatusApproved
	list, err := repo.List(ctx, pagination.Params{Page: 1, Limit: 1}, ListFilters{Status: &status})
	require.NoError(t, err)

	assert.Len(t, list.Pilots, 1)
	assert.Equal(t, 2, list.Meta.TotalItems)
	assert.Equal(t, 2, list.Meta.TotalPages)
	assert.True(t, list.Meta.HasNext)
}

func TestRepoListSearchIsCaseInsensitive(t *testing.T) {
	db := setupPilotsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ramesh := seedPilot(t, db, 13, "9876543223", enums.PilotStatusApproved)
	require.NoError(t, db.Model(ramesh).Update("name", "Ramesh Kumar").Error)
	seedPilot(t, db, 14, "9876543224", enums.PilotStatusApproved)

	list, err := repo.List(ctx, pagination.Params{Page: 1, Limit: 10}, ListFilters{Query: "rAmEsH"})
	require.NoError(t, err)
	require.Len(t, list.Pilots, 1)
	assert.Equal(t, ramesh.ID, list.Pilots[0].ID)

	// Phone and registration match through the same filter.
	list, err = repo.List(ctx, pagination.Params{Page: 1, Limit: 10}, ListFilters{Query: "43224"})
	require.NoError(t, err)
	require.Len(t, list.Pilots, 1)
	assert.Equal(t, "9876543224", list.Pilots[0].Phone)

	list, err = repo.List(ctx, pagination.Params{Page: 1, Limit: 10}, ListFilters{Query: "ka01ab"})
	require.NoError(t, err)
	assert.Len(t, list.Pilots, 2)
}

func TestRepoCountByStatus(t *testing.T) {
	db := setupPilotsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedPilot(t, db, 20, "9876543230", enums.PilotStatusApproved)
	seedPilot(t, db, 21, "9876543231", enums.PilotStatusPendingApproval)
	seedPilot(t, db, 22, "9876543232", enums.PilotStatusPendingApproval)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[enums.PilotStatusApproved])
	assert.Equal(t, int64(2), counts[enums.PilotStatusPendingApproval])
}
