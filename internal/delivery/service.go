package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/internal/pilots"
	"github.com/agkmart/agkmart-backend/pkg/config"
	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/maps"
	"github.com/agkmart/agkmart-backend/pkg/metrics"
	"github.com/agkmart/agkmart-backend/pkg/outbox"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
	"github.com/agkmart/agkmart-backend/pkg/security"
)

// Service defines the order assignment workflow.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDetail, error)
	Dispatch(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error)
	Cancel(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error)

	ScanOrder(ctx context.Context, pilotID uuid.UUID, ref string) (*OrderDetail, error)
	AcceptOrder(ctx context.Context, pilotID, orderID uuid.UUID) (*OrderDetail, error)
	StartJourney(ctx context.Context, input StartJourneyInput) (*OrderDetail, error)
	CompleteDelivery(ctx context.Context, input CompleteDeliveryInput) (*OrderDetail, error)

	ActiveOrder(ctx context.Context, pilotID uuid.UUID) (*OrderDetail, error)
	History(ctx context.Context, pilotID uuid.UUID, params pagination.Params) (*History, error)
	OrderStats(ctx context.Context) (map[enums.OrderStatus]int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type geocoder interface {
	Geocode(ctx context.Context, address string) (*maps.GeocodeResult, error)
}

type service struct {
	orders   Repository
	pilots   pilots.Repository
	tx       txRunner
	outbox   outboxPublisher
	geocoder geocoder
	metrics  *metrics.DeliveryMetrics
	logg     *logger.Logger
	otpCfg   config.OTPConfig
}

// ServiceParams bundles the dependencies required to build the delivery
// service. Metrics, Logger and Geocoder are optional; without a geocoder,
// incoming orders must carry delivery coordinates.
type ServiceParams struct {
	Orders    Repository
	Pilots    pilots.Repository
	TxRunner  txRunner
	Outbox    outboxPublisher
	Geocoder  geocoder
	Metrics   *metrics.DeliveryMetrics
	Logger    *logger.Logger
	OTPConfig config.OTPConfig
}

// NewService constructs the delivery workflow service.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Pilots == nil {
		return nil, fmt.Errorf("pilots repository is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	return &service{
		orders:   params.Orders,
		pilots:   params.Pilots,
		tx:       params.TxRunner,
		outbox:   params.Outbox,
		geocoder: params.Geocoder,
		metrics:  params.Metrics,
		logg:     params.Logger,
		otpCfg:   params.OTPConfig,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDetail, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.SupplierName = strings.TrimSpace(input.SupplierName)
	input.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)

	if input.CustomerName == "" || input.CustomerPhone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name and phone are required")
	}
	if input.SupplierName == "" || input.SupplierPhone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name and phone are required")
	}
	if input.DeliveryAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if input.DeliveryLat == 0 && input.DeliveryLng == 0 {
		if s.geocoder == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery coordinates are required")
		}
		located, err := s.geocoder.Geocode(ctx, input.DeliveryAddress)
		if err != nil {
			return nil, err
		}
		input.DeliveryLat = located.Location.Lat
		input.DeliveryLng = located.Location.Lng
	}
	if err := validCoordinates(input.DeliveryLat, input.DeliveryLng); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = enums.OrderPriorityNormal
	}
	if !priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order priority").
			WithDetails(map[string]any{"priority": input.Priority})
	}

	total := decimal.Zero
	items := make([]models.OrderLineItem, 0, len(input.Items))
	for _, line := range input.Items {
		name := strings.TrimSpace(line.MaterialName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item material name is required")
		}
		if line.Quantity.IsZero() || line.Quantity.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item unit price cannot be negative")
		}
		lineTotal := line.Quantity.Mul(line.UnitPrice).Round(2)
		total = total.Add(lineTotal)
		items = append(items, models.OrderLineItem{
			MaterialName: name,
			Quantity:     line.Quantity,
			Unit:         strings.TrimSpace(line.Unit),
			UnitPrice:    line.UnitPrice,
			LineTotal:    lineTotal,
		})
	}

	order := &models.Order{
		OrderCode:       security.GenerateReferenceCode("AGK"),
		Status:          enums.OrderStatusConfirmed,
		Priority:        priority,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		SupplierName:    input.SupplierName,
		SupplierPhone:   input.SupplierPhone,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryLat:     input.DeliveryLat,
		DeliveryLng:     input.DeliveryLng,
		TotalAmount:     total,
		Items:           items,
		ConfirmedAt:     time.Now(),
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderCode(ctx, created.OrderCode), "order created")
	}
	detail := DetailFromModel(created)
	return &detail, nil
}

func (s *service) Dispatch(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusDispatched {
		detail := DetailFromModel(order)
		return &detail, nil
	}

	now := time.Now()
	moved, err := s.orders.MarkDispatched(ctx, orderID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dispatch order")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be dispatched from its current status").
			WithDetails(map[string]any{"status": order.Status})
	}

	order.Status = enums.OrderStatusDispatched
	order.DispatchedAt = &now
	detail := DetailFromModel(order)
	return &detail, nil
}

func (s *service) Cancel(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	var cancelled *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		pilotsRepo := s.pilots.WithTx(tx)

		order, err := ordersRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == enums.OrderStatusCancelled {
			cancelled = order
			return nil
		}

		now := time.Now()
		moved, err := ordersRepo.Cancel(ctx, orderID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if !moved {
			// In-transit and delivered orders are past the point of no return.
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
				WithDetails(map[string]any{"status": order.Status})
		}

		if order.AssignedPilotID != nil {
			if err := pilotsRepo.Update(ctx, *order.AssignedPilotID, map[string]any{"current_order_id": nil}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release pilot")
			}
		}

		order.Status = enums.OrderStatusCancelled
		order.CancelledAt = &now
		cancelled = order

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: CancelledEvent{
				OrderID:       order.ID,
				OrderCode:     order.OrderCode,
				CustomerPhone: order.CustomerPhone,
				SupplierPhone: order.SupplierPhone,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	detail := DetailFromModel(cancelled)
	return &detail, nil
}

// ScanOrder is the pre-accept review step: read-only, repeatable, and only
// answers for orders that are actually up for grabs.
func (s *service) ScanOrder(ctx context.Context, pilotID uuid.UUID, ref string) (*OrderDetail, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required")
	}

	var (
		order *models.Order
		err   error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		order, err = s.orders.FindByID(ctx, id)
	} else {
		order, err = s.orders.FindByCode(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order is not available for pickup")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !order.PickupReady() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order is not available for pickup")
	}

	detail := DetailFromModel(order)
	return &detail, nil
}

func (s *service) AcceptOrder(ctx context.Context, pilotID, orderID uuid.UUID) (*OrderDetail, error) {
	otp, err := security.GenerateOTP(s.otpCfg.Digits)
	if err != nil {
		s.failOTP("delivery")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate delivery otp")
	}

	var accepted *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		pilotsRepo := s.pilots.WithTx(tx)

		order, err := ordersRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.AssignedPilotID != nil {
			if *order.AssignedPilotID == pilotID && !order.Status.IsTerminal() {
				// Duplicate accept from the winning pilot is a no-op.
				accepted = order
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "order is already assigned to another pilot")
		}
		if order.Status != enums.OrderStatusDispatched {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not ready for pickup").
				WithDetails(map[string]any{"status": order.Status})
		}

		pilot, err := pilotsRepo.FindByID(ctx, pilotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pilot not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pilot")
		}
		if pilot.Status != enums.PilotStatusApproved || !pilot.IsActive {
			return pkgerrors.New(pkgerrors.CodeForbidden, "pilot cannot accept orders")
		}
		if pilot.CurrentOrderID != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "pilot already has an active delivery").
				WithDetails(map[string]any{"currentOrderId": pilot.CurrentOrderID})
		}

		won, err := pilotsRepo.ClaimOrder(ctx, pilotID, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim pilot slot")
		}
		if !won {
			return pkgerrors.New(pkgerrors.CodeConflict, "pilot already has an active delivery")
		}

		now := time.Now()
		won, err = ordersRepo.Claim(ctx, orderID, pilotID, otp, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim order")
		}
		if !won {
			// Another pilot got there between our read and the write.
			return pkgerrors.New(pkgerrors.CodeConflict, "order is already assigned to another pilot")
		}

		order.AssignedPilotID = &pilotID
		order.DeliveryOTP = &otp
		order.OTPGeneratedAt = &now
		accepted = order

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderAccepted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{ActorID: pilotID, Role: string(enums.ActorRolePilot)},
			Data: AcceptedEvent{
				OrderID:       order.ID,
				OrderCode:     order.OrderCode,
				PilotID:       pilotID,
				PilotName:     pilot.Name,
				PilotPhone:    pilot.Phone,
				CustomerPhone: order.CustomerPhone,
				SupplierPhone: order.SupplierPhone,
				DeliveryOTP:   otp,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncOrderAccepted()
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderCode(ctx, accepted.OrderCode), "order accepted")
	}

	detail := DetailFromModel(accepted)
	return &detail, nil
}

func (s *service) StartJourney(ctx context.Context, input StartJourneyInput) (*OrderDetail, error) {
	if err := validCoordinates(input.Lat, input.Lng); err != nil {
		return nil, err
	}

	var started *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		pilotsRepo := s.pilots.WithTx(tx)

		order, err := ordersRepo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.AssignedPilotID == nil || *order.AssignedPilotID != input.PilotID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to this pilot")
		}
		if order.Status != enums.OrderStatusDispatched {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "journey already started").
				WithDetails(map[string]any{"status": order.Status})
		}

		now := time.Now()
		moved, err := ordersRepo.StartJourney(ctx, input.OrderID, input.PilotID, input.Lat, input.Lng, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start journey")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "journey already started")
		}

		// The start fix doubles as a location ping.
		if err := pilotsRepo.Update(ctx, input.PilotID, map[string]any{
			"current_lat":         input.Lat,
			"current_lng":         input.Lng,
			"location_updated_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pilot location")
		}

		order.Status = enums.OrderStatusInTransit
		order.JourneyStartedAt = &now
		order.JourneyStartLat = &input.Lat
		order.JourneyStartLng = &input.Lng
		started = order

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventJourneyStarted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{ActorID: input.PilotID, Role: string(enums.ActorRolePilot)},
			Data: JourneyStartedEvent{
				OrderID:   order.ID,
				OrderCode: order.OrderCode,
				PilotID:   input.PilotID,
				Lat:       input.Lat,
				Lng:       input.Lng,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncJourneyStarted()
	}

	detail := DetailFromModel(started)
	return &detail, nil
}

func (s *service) CompleteDelivery(ctx context.Context, input CompleteDeliveryInput) (*OrderDetail, error) {
	input.OTP = strings.TrimSpace(input.OTP)
	if input.OTP == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery otp is required")
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	var (
		completed *models.Order
		elapsed   time.Duration
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		pilotsRepo := s.pilots.WithTx(tx)

		order, err := ordersRepo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.AssignedPilotID == nil || *order.AssignedPilotID != input.PilotID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to this pilot")
		}
		if order.Status == enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already delivered")
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order was cancelled")
		}
		if order.DeliveryOTP == nil || *order.DeliveryOTP != input.OTP {
			s.failOTP("delivery")
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "incorrect delivery otp")
		}

		now := time.Now()
		moved, err := ordersRepo.Complete(ctx, input.OrderID, input.PilotID, input.OTP, input.Notes, input.Rating, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete delivery")
		}
		if !moved {
			// A concurrent completion consumed the OTP first.
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already delivered")
		}

		released, err := pilotsRepo.ReleaseOrder(ctx, input.PilotID, input.OrderID, input.Rating)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release pilot")
		}
		if !released {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "pilot no longer holds this order")
		}

		if order.OTPGeneratedAt != nil {
			elapsed = now.Sub(*order.OTPGeneratedAt)
		}
		order.Status = enums.OrderStatusDelivered
		order.DeliveredAt = &now
		order.DeliveryNotes = input.Notes
		order.DeliveryRating = input.Rating
		order.DeliveryOTP = nil
		completed = order

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderDelivered,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{ActorID: input.PilotID, Role: string(enums.ActorRolePilot)},
			Data: DeliveredEvent{
				OrderID:       order.ID,
				OrderCode:     order.OrderCode,
				PilotID:       input.PilotID,
				CustomerPhone: order.CustomerPhone,
				SupplierPhone: order.SupplierPhone,
				Rating:        input.Rating,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncOrderDelivered()
		if elapsed > 0 {
			s.metrics.ObserveDeliveryDuration(elapsed)
		}
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderCode(ctx, completed.OrderCode), "delivery completed")
	}

	detail := DetailFromModel(completed)
	return &detail, nil
}

func (s *service) ActiveOrder(ctx context.Context, pilotID uuid.UUID) (*OrderDetail, error) {
	order, err := s.orders.FindActiveByPilot(ctx, pilotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active delivery")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active order")
	}
	detail := DetailFromModel(order)
	return &detail, nil
}

func (s *service) History(ctx context.Context, pilotID uuid.UUID, params pagination.Params) (*History, error) {
	params = pagination.Normalize(params)
	orders, total, err := s.orders.HistoryForPilot(ctx, pilotID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery history")
	}

	deliveries := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		deliveries = append(deliveries, DetailFromModel(&orders[i]))
	}
	return &History{
		Deliveries: deliveries,
		Meta:       pagination.MetaFor(params, int(total)),
	}, nil
}

func (s *service) OrderStats(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	return counts, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) failOTP(purpose string) {
	if s.metrics != nil {
		s.metrics.IncOTPFailed(purpose)
	}
}

func validCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return pkgerrors.New(pkgerrors.CodeValidation, "latitude must be between -90 and 90").
			WithDetails(map[string]any{"lat": lat})
	}
	if lng < -180 || lng > 180 {
		return pkgerrors.New(pkgerrors.CodeValidation, "longitude must be between -180 and 180").
			WithDetails(map[string]any{"lng": lng})
	}
	return nil
}
