package pilots

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// Repository defines persistence operations for the pilot directory.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, pilot *models.Pilot) (*models.Pilot, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pilot, error)
	FindByPhone(ctx context.Context, phone string) (*models.Pilot, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*PilotList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to enums.PilotStatus, updates map[string]any) (bool, error)

	// ClaimOrder sets current_order_id only when the pilot has no active
	// order; reports whether the claim won.
	ClaimOrder(ctx context.Context, pilotID, orderID uuid.UUID) (bool, error)
	// ReleaseOrder clears current_order_id when it matches orderID and folds
	// the delivery into the pilot's running totals.
	ReleaseOrder(ctx context.Context, pilotID, orderID uuid.UUID, rating *int) (bool, error)

	CountByStatus(ctx context.Context) (map[enums.PilotStatus]int64, error)
	CountAvailable(ctx context.Context) (int64, error)
}
