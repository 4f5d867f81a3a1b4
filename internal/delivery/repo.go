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

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_code = ?", code).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindActiveByPilot(ctx context.Context, pilotID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("assigned_pilot_id = ? AND status IN ?", pilotID,
			[]enums.OrderStatus{enums.OrderStatusDispatched, enums.OrderStatusInTransit}).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Claim is the one write in the system where true concurrency correctness
// matters: the assigned_pilot_id IS NULL guard makes concurrent accepts
// resolve to exactly one winner.
func (r *repository) Claim(ctx context.Context, orderID, pilotID uuid.UUID, otp string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ? AND assigned_pilot_id IS NULL", orderID, enums.OrderStatusDispatched).
		Updates(map[string]any{
			"assigned_pilot_id": pilotID,
			"delivery_otp":      otp,
			"otp_generated_at":  at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) StartJourney(ctx context.Context, orderID, pilotID uuid.UUID, lat, lng float64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND assigned_pilot_id = ? AND status = ?", orderID, pilotID, enums.OrderStatusDispatched).
		Updates(map[string]any{
			"status":             enums.OrderStatusInTransit,
			"journey_started_at": at,
			"journey_start_lat":  lat,
			"journey_start_lng":  lng,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Complete consumes the delivery OTP in the same guarded write that flips
// the order to delivered, so a duplicate submission finds no matching row.
func (r *repository) Complete(ctx context.Context, orderID, pilotID uuid.UUID, otp string, notes *string, rating *int, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND assigned_pilot_id = ? AND status IN ? AND delivery_otp = ?",
			orderID, pilotID,
			[]enums.OrderStatus{enums.OrderStatusDispatched, enums.OrderStatusInTransit}, otp).
		Updates(map[string]any{
			"status":          enums.OrderStatusDelivered,
			"delivered_at":    at,
			"delivery_notes":  notes,
			"delivery_rating": rating,
			"delivery_otp":    nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Cancel(ctx context.Context, orderID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status IN ?", orderID,
			[]enums.OrderStatus{enums.OrderStatusConfirmed, enums.OrderStatusDispatched}).
		Updates(map[string]any{
			"status":       enums.OrderStatusCancelled,
			"cancelled_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) MarkDispatched(ctx context.Context, orderID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusConfirmed).
		Updates(map[string]any{
			"status":        enums.OrderStatusDispatched,
			"dispatched_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListDeliverable(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND assigned_pilot_id IS NULL", enums.OrderStatusDispatched).
		Order("confirmed_at ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListDispatchedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND assigned_pilot_id IS NULL AND dispatched_at < ?", enums.OrderStatusDispatched, cutoff).
		Order("dispatched_at ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) HistoryForPilot(ctx context.Context, pilotID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("assigned_pilot_id = ? AND status = ?", pilotID, enums.OrderStatusDelivered)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Order("delivered_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	type row struct {
		Status enums.OrderStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, item := range rows {
		counts[item.Status] = item.Count
	}
	return counts, nil
}
