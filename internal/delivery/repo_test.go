package delivery

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

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_code TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'confirmed',
  priority TEXT NOT NULL DEFAULT 'normal',
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  supplier_name TEXT NOT NULL,
  supplier_phone TEXT NOT NULL,
  delivery_address TEXT NOT NULL,
  delivery_lat REAL NOT NULL,
  delivery_lng REAL NOT NULL,
  total_amount NUMERIC NOT NULL DEFAULT 0,
  assigned_pilot_id TEXT,
  delivery_otp TEXT,
  otp_generated_at DATETIME,
  confirmed_at DATETIME NOT NULL,
  dispatched_at DATETIME,
  journey_started_at DATETIME,
  journey_start_lat REAL,
  journey_start_lng REAL,
  delivered_at DATETIME,
  cancelled_at DATETIME,
  delivery_notes TEXT,
  delivery_rating INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  material_name TEXT NOT NULL,
  quantity NUMERIC NOT NULL,
  unit TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(items).Error)
	require.NoError(t, db.Exec("DELETE FROM order_line_items").Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, code string, status enums.OrderStatus) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:              uuid.New(),
		OrderCode:       code,
		Status:          status,
		Priority:        enums.OrderPriorityNormal,
		CustomerName:    "Asha Builders",
		CustomerPhone:   "9811111111",
		SupplierName:    "Sharma Cements",
		SupplierPhone:   "9822222222",
		DeliveryAddress: "Plot 14, Patia, Bhubaneswar",
		DeliveryLat:     20.35,
		DeliveryLng:     85.81,
		ConfirmedAt:     time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepoClaimHasExactlyOneWinner(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, "AGK9001", enums.OrderStatusDispatched)
	first, second := uuid.New(), uuid.New()
	now := time.Now()

	won, err := repo.Claim(ctx, order.ID, first, "123456", now)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.Claim(ctx, order.ID, second, "654321", now)
	require.NoError(t, err)
	assert.False(t, won)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.AssignedPilotID)
	assert.Equal(t, first, *reloaded.AssignedPilotID)
	require.NotNil(t, reloaded.DeliveryOTP)
	assert.Equal(t, "123456", *reloaded.DeliveryOTP)
}

func TestRepoClaimRequiresDispatchedStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, "AGK9002", enums.OrderStatusConfirmed)

	won, err := repo.Claim(ctx, order.ID, uuid.New(), "123456", time.Now())
	require.NoError(t, err)
	assert.False(t, won)
}

func TestRepoCompleteConsumesOTP(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, "AGK9003", enums.OrderStatusDispatched)
	pilotID := uuid.New()
	now := time.Now()

	won, err := repo.Claim(ctx, order.ID, pilotID, "123456", now)
	require.NoError(t, err)
	require.True(t, won)

	// Wrong code never matches the guard.
	done, err := repo.Complete(ctx, order.ID, pilotID, "000000", nil, nil, now)
	require.NoError(t, err)
	assert.False(t, done)

	rating := 4
	done, err = repo.Complete(ctx, order.ID, pilotID, "123456", nil, &rating, now)
	require.NoError(t, err)
	assert.True(t, done)

	// Replay finds no row: the otp is gone and the status is terminal.
	done, err = repo.Complete(ctx, order.ID, pilotID, "123456", nil, &rating, now)
	require.NoError(t, err)
	assert.False(t, done)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, reloaded.Status)
	assert.Nil(t, reloaded.DeliveryOTP)
	require.NotNil(t, reloaded.DeliveryRating)
	assert.Equal(t, 4, *reloaded.DeliveryRating)
}

func TestRepoStartJourneyGuards(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, "AGK9004", enums.OrderStatusDispatched)
	owner, intruder := uuid.New(), uuid.New()
	now := time.Now()

	won, err := repo.Claim(ctx, order.ID, owner, "123456", now)
	require.NoError(t, err)
	require.True(t, won)

	moved, err := repo.StartJourney(ctx, order.ID, intruder, 20.29, 85.82, now)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = repo.StartJourney(ctx, order.ID, owner, 20.29, 85.82, now)
	require.NoError(t, err)
	assert.True(t, moved)

	// Already in transit.
	moved, err = repo.StartJourney(ctx, order.ID, owner, 20.29, 85.82, now)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestRepoListDeliverableSkipsClaimedOrders(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	open := seedOrder(t, db, "AGK9005", enums.OrderStatusDispatched)
	claimed := seedOrder(t, db, "AGK9006", enums.OrderStatusDispatched)
	seedOrder(t, db, "AGK9007", enums.OrderStatusConfirmed)

	won, err := repo.Claim(ctx, claimed.ID, uuid.New(), "123456", time.Now())
	require.NoError(t, err)
	require.True(t, won)

	deliverable, err := repo.ListDeliverable(ctx, 100)
	require.NoError(t, err)
	require.Len(t, deliverable, 1)
	assert.Equal(t, open.ID, deliverable[0].ID)
}

func TestRepoHistoryForPilot(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pilotID := uuid.New()
	now := time.Now()

	for _, code := range []string{"AGK9008", "AGK9009"} {
		order := seedOrder(t, db, code, enums.OrderStatusDispatched)
		won, err := repo.Claim(ctx, order.ID, pilotID, "123456", now)
		require.NoError(t, err)
		require.True(t, won)
		done, err := repo.Complete(ctx, order.ID, pilotID, "123456", nil, nil, now)
		require.NoError(t, err)
		require.True(t, done)

		// Next claim needs a free pilot slot only in the service layer; the
		// repo itself is pilot-agnostic.
	}
	seedOrder(t, db, "AGK9010", enums.OrderStatusDispatched)

	orders, total, err := repo.HistoryForPilot(ctx, pilotID, pagination.Params{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 1)
	assert.Equal(t, enums.OrderStatusDelivered, orders[0].Status)
}
