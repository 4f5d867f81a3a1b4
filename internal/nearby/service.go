package nearby

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/pkg/config"
	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/geo"
	"github.com/agkmart/agkmart-backend/pkg/metrics"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// Finder answers "what can I deliver from here" for a pilot.
type Finder interface {
	FindNearby(ctx context.Context, input SearchInput) (*SearchResult, error)
}

type pilotLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pilot, error)
}

type deliverableSource interface {
	ListDeliverable(ctx context.Context, limit int) ([]models.Order, error)
}

type finder struct {
	pilots  pilotLoader
	orders  deliverableSource
	metrics *metrics.DeliveryMetrics
	cfg     config.NearbyConfig
	now     func() time.Time
}

// FinderParams bundles the dependencies required to build the nearby finder.
type FinderParams struct {
	Pilots  pilotLoader
	Orders  deliverableSource
	Metrics *metrics.DeliveryMetrics
	Config  config.NearbyConfig
}

// NewFinder constructs the nearby-order finder.
func NewFinder(params FinderParams) (Finder, error) {
	if params.Pilots == nil {
		return nil, fmt.Errorf("pilot loader is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("deliverable source is required")
	}
	return &finder{
		pilots:  params.Pilots,
		orders:  params.Orders,
		metrics: params.Metrics,
		cfg:     params.Config,
		now:     time.Now,
	}, nil
}

func (f *finder) FindNearby(ctx context.Context, input SearchInput) (*SearchResult, error) {
	radius := input.RadiusKm
	if radius == 0 {
		radius = f.cfg.DefaultRadiusKm
	}
	if radius < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "radius must be positive")
	}
	if radius > f.cfg.MaxRadiusKm {
		radius = f.cfg.MaxRadiusKm
	}
	if input.OrderType != nil && !input.OrderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order type").
			WithDetails(map[string]any{"orderType": *input.OrderType})
	}

	pilot, err := f.pilots.FindByID(ctx, input.PilotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pilot not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pilot")
	}
	if !pilot.HasLocation() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "update your location before searching for orders")
	}
	now := f.now()
	if f.cfg.LocationMaxAge > 0 && pilot.LocationUpdatedAt != nil &&
		now.Sub(*pilot.LocationUpdatedAt) > f.cfg.LocationMaxAge {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "your location is stale, update it and retry")
	}
	origin := geo.Point{Lat: *pilot.CurrentLat, Lng: *pilot.CurrentLng}

	candidates, err := f.orders.ListDeliverable(ctx, f.cfg.CandidateCeiling)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deliverable orders")
	}

	summary := Summary{}
	hits := make([]Order, 0, len(candidates))
	for i := range candidates {
		o := &candidates[i]
		dest := geo.Point{Lat: o.DeliveryLat, Lng: o.DeliveryLng}
		distance := geo.DistanceKm(origin, dest)
		if distance > radius {
			continue
		}

		priority := f.effectivePriority(o, now)
		if priority == enums.OrderPriorityUrgent {
			summary.Urgent++
		} else {
			summary.Normal++
		}
		summary.Total++

		if input.OrderType != nil && priority != *input.OrderType {
			continue
		}
		hits = append(hits, Order{
			ID:              o.ID,
			OrderCode:       o.OrderCode,
			Priority:        priority,
			DeliveryAddress: o.DeliveryAddress,
			DeliveryLat:     o.DeliveryLat,
			DeliveryLng:     o.DeliveryLng,
			TotalAmount:     o.TotalAmount,
			DistanceKm:      math.Round(distance*100) / 100,
			ConfirmedAt:     o.ConfirmedAt,
			AgeMinutes:      int(now.Sub(o.ConfirmedAt) / time.Minute),
		})
	}

	// Closest first; older orders win ties so the feed stays stable across
	// pages when nothing new arrives.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].DistanceKm != hits[j].DistanceKm {
			return hits[i].DistanceKm < hits[j].DistanceKm
		}
		if !hits[i].ConfirmedAt.Equal(hits[j].ConfirmedAt) {
			return hits[i].ConfirmedAt.Before(hits[j].ConfirmedAt)
		}
		return hits[i].ID.String() < hits[j].ID.String()
	})

	params := pagination.NormalizeWith(
		pagination.Params{Page: input.Page, Limit: input.Limit},
		f.cfg.DefaultLimit, f.cfg.MaxLimit,
	)

	if f.metrics != nil {
		f.metrics.IncNearbySearch()
	}

	orderType := "all"
	if input.OrderType != nil {
		orderType = input.OrderType.String()
	}
	return &SearchResult{
		Orders:  pagination.Slice(hits, params),
		Summary: summary,
		Filters: Filters{RadiusKm: radius, OrderType: orderType},
		Meta:    pagination.MetaFor(params, len(hits)),
	}, nil
}

// effectivePriority treats explicitly flagged orders as urgent, and promotes
// orders that have been waiting past the configured threshold.
func (f *finder) effectivePriority(o *models.Order, now time.Time) enums.OrderPriority {
	if o.Priority == enums.OrderPriorityUrgent {
		return enums.OrderPriorityUrgent
	}
	if f.cfg.UrgentAfter > 0 && now.Sub(o.ConfirmedAt) > f.cfg.UrgentAfter {
		return enums.OrderPriorityUrgent
	}
	return enums.OrderPriorityNormal
}
