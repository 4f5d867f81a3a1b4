package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/agkmart/agkmart-backend/api/responses"
	"github.com/agkmart/agkmart-backend/api/validators"
	"github.com/agkmart/agkmart-backend/internal/delivery"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
)

type createOrderLineRequest struct {
	MaterialName string          `json:"materialName" validate:"required,min=2,max=120"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	UnitPrice    decimal.Decimal `json:"unitPrice" validate:"required"`
}

type createOrderRequest struct {
	CustomerName    string                   `json:"customerName" validate:"required,min=2,max=120"`
	CustomerPhone   string                   `json:"customerPhone" validate:"required,in_mobile"`
	SupplierName    string                   `json:"supplierName" validate:"required,min=2,max=120"`
	SupplierPhone   string                   `json:"supplierPhone" validate:"required,in_mobile"`
	DeliveryAddress string                   `json:"deliveryAddress" validate:"required,min=10,max=500"`
	DeliveryLat     float64                  `json:"deliveryLat" validate:"omitempty,min=-90,max=90"`
	DeliveryLng     float64                  `json:"deliveryLng" validate:"omitempty,min=-180,max=180"`
	Priority        string                   `json:"priority" validate:"omitempty,oneof=normal urgent"`
	Items           []createOrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// AdminCreateOrder ingests a confirmed order into the delivery pipeline.
// Orders land here already paid for upstream.
func AdminCreateOrder(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		priority := enums.OrderPriorityNormal
		if req.Priority != "" {
			parsed, err := enums.ParseOrderPriority(req.Priority)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority"))
				return
			}
			priority = parsed
		}

		items := make([]delivery.CreateLineItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, delivery.CreateLineItemInput{
				MaterialName: item.MaterialName,
				Quantity:     item.Quantity,
				Unit:         item.Unit,
				UnitPrice:    item.UnitPrice,
			})
		}

		detail, err := svc.CreateOrder(r.Context(), delivery.CreateOrderInput{
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			SupplierName:    req.SupplierName,
			SupplierPhone:   req.SupplierPhone,
			DeliveryAddress: req.DeliveryAddress,
			DeliveryLat:     req.DeliveryLat,
			DeliveryLng:     req.DeliveryLng,
			Priority:        priority,
			Items:           items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "order created", detail)
	}
}

// AdminDispatchOrder releases a confirmed order to the pilot pool.
func AdminDispatchOrder(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		orderID, err := pathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Dispatch(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "order dispatched", detail)
	}
}

// AdminCancelOrder cancels an order that has not yet left the supplier.
func AdminCancelOrder(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		orderID, err := pathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Cancel(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "order cancelled", detail)
	}
}

// AdminOrderStats returns order counts grouped by lifecycle status.
func AdminOrderStats(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		stats, err := svc.OrderStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "order stats", stats)
	}
}
