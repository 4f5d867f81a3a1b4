package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// Repository is the persistence surface for orders. The guarded mutations
// (Claim, StartJourney, Complete, Cancel, MarkDispatched) return false when
// the conditional WHERE clause matched no row, which callers translate into
// the appropriate conflict.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByCode(ctx context.Context, code string) (*models.Order, error)
	FindActiveByPilot(ctx context.Context, pilotID uuid.UUID) (*models.Order, error)

	// Claim atomically assigns an unclaimed dispatched order and stamps the
	// delivery OTP onto it.
	Claim(ctx context.Context, orderID, pilotID uuid.UUID, otp string, at time.Time) (bool, error)
	StartJourney(ctx context.Context, orderID, pilotID uuid.UUID, lat, lng float64, at time.Time) (bool, error)
	Complete(ctx context.Context, orderID, pilotID uuid.UUID, otp string, notes *string, rating *int, at time.Time) (bool, error)
	Cancel(ctx context.Context, orderID uuid.UUID, at time.Time) (bool, error)
	MarkDispatched(ctx context.Context, orderID uuid.UUID, at time.Time) (bool, error)

	// ListDeliverable returns unassigned dispatched orders, oldest first,
	// capped at limit. Feeds the nearby search.
	ListDeliverable(ctx context.Context, limit int) ([]models.Order, error)
	// ListDispatchedBefore returns unassigned dispatched orders whose dispatch
	// happened before the cutoff. Feeds the stale-order sweep.
	ListDispatchedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
	HistoryForPilot(ctx context.Context, pilotID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
}
