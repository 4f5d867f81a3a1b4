package pilots

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pilot repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, pilot *models.Pilot) (*models.Pilot, error) {
	if err := r.db.WithContext(ctx).Create(pilot).Error; err != nil {
		return nil, err
	}
	return pilot, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pilot, error) {
	var pilot models.Pilot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pilot).Error
	if err != nil {
		return nil, err
	}
	return &pilot, nil
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*models.Pilot, error) {
	var pilot models.Pilot
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&pilot).Error
	if err != nil {
		return nil, err
	}
	return &pilot, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*PilotList, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Pilot{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.VehicleType != nil {
		query = query.Where("vehicle_type = ?", *filters.VehicleType)
	}
	if filters.Available != nil {
		query = query.Where("is_available = ?", *filters.Available)
	}
	if filters.Query != "" {
		// LOWER + LIKE instead of ILIKE so the filter behaves the same on
		// the sqlite test driver.
		like := "%" + strings.ToLower(filters.Query) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(vehicle_registration) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Pilot
	err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, ProfileFromModel(&rows[i]))
	}

	return &PilotList{
		Pilots: profiles,
		Meta:   pagination.MetaFor(params, int(total)),
	}, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Pilot{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateStatusFrom performs a guarded status transition; the WHERE clause on
// the old status makes concurrent admin actions race-safe.
func (r *repository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to enums.PilotStatus, updates map[string]any) (bool, error) {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = to

	res := r.db.WithContext(ctx).
		Model(&models.Pilot{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ClaimOrder(ctx context.Context, pilotID, orderID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Pilot{}).
		Where("id = ? AND current_order_id IS NULL AND status = ? AND is_active", pilotID, enums.PilotStatusApproved).
		Updates(map[string]any{"current_order_id": orderID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ReleaseOrder(ctx context.Context, pilotID, orderID uuid.UUID, rating *int) (bool, error) {
	updates := map[string]any{
		"current_order_id": nil,
		"total_deliveries": gorm.Expr("total_deliveries + 1"),
		"updated_at":       time.Now(),
	}
	if rating != nil {
		// Running average without a ratings table: avg' = (avg*n + r) / (n+1).
		updates["rating_avg"] = gorm.Expr("(rating_avg * rating_count + ?) / (rating_count + 1)", *rating)
		updates["rating_count"] = gorm.Expr("rating_count + 1")
	}

	res := r.db.WithContext(ctx).
		Model(&models.Pilot{}).
		Where("id = ? AND current_order_id = ?", pilotID, orderID).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[enums.PilotStatus]int64, error) {
	type row struct {
		Status enums.PilotStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Pilot{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.PilotStatus]int64, len(rows))
	for _, item := range rows {
		counts[item.Status] = item.Count
	}
	return counts, nil
}

func (r *repository) CountAvailable(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pilot{}).
		Where("status = ? AND is_active AND is_available AND current_order_id IS NULL", enums.PilotStatusApproved).
		Count(&count).Error
	return count, err
}
