package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/internal/delivery"
	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/logger"
)

const (
	staleOrderDays  = 7
	staleOrderBatch = 100
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type staleOrderReader interface {
	ListDispatchedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
}

type orderCanceller interface {
	Cancel(ctx context.Context, orderID uuid.UUID) (*delivery.OrderDetail, error)
}

// StaleOrderJobParams configure the stale dispatched-order sweep.
type StaleOrderJobParams struct {
	Logger    *logger.Logger
	Orders    staleOrderReader
	Delivery  orderCanceller
	StaleDays int
	BatchSize int
}

// NewStaleOrderJob builds the job that cancels dispatched orders no pilot
// claimed within the staleness window. Cancelling through the delivery
// service keeps the usual order_cancelled event flowing.
func NewStaleOrderJob(params StaleOrderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders reader required")
	}
	if params.Delivery == nil {
		return nil, fmt.Errorf("delivery service required")
	}
	staleDays := params.StaleDays
	if staleDays <= 0 {
		staleDays = staleOrderDays
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = staleOrderBatch
	}
	return &staleOrderJob{
		logg:      params.Logger,
		orders:    params.Orders,
		delivery:  params.Delivery,
		staleDays: staleDays,
		batch:     batch,
		now:       time.Now,
	}, nil
}

type staleOrderJob struct {
	logg      *logger.Logger
	orders    staleOrderReader
	delivery  orderCanceller
	staleDays int
	batch     int
	now       func() time.Time
}

func (j *staleOrderJob) Name() string { return "stale-order-sweep" }

func (j *staleOrderJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.staleDays) * 24 * time.Hour)
	orders, err := j.orders.ListDispatchedBefore(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("query stale dispatched orders: %w", err)
	}

	var errs []error
	cancelled := 0
	for _, order := range orders {
		if _, err := j.delivery.Cancel(ctx, order.ID); err != nil {
			errCtx := j.logg.WithFields(ctx, map[string]any{
				"order_id":   order.ID.String(),
				"order_code": order.OrderCode,
			})
			j.logg.Error(errCtx, "stale order cancel failed", err)
			errs = append(errs, fmt.Errorf("cancel order %s: %w", order.OrderCode, err))
			continue
		}
		cancelled++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":     cutoff,
		"stale_days": j.staleDays,
		"examined":   len(orders),
		"cancelled":  cancelled,
	})
	j.logg.Info(logCtx, "stale order sweep complete")
	return multierr.Combine(errs...)
}
