package controllers

import (
	"net/http"
	"strings"

	"github.com/agkmart/agkmart-backend/api/responses"
	"github.com/agkmart/agkmart-backend/api/validators"
	"github.com/agkmart/agkmart-backend/internal/delivery"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// PilotScanOrder resolves a scanned order code (or raw order id) into the
// full order detail the pilot reviews before accepting.
func PilotScanOrder(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		OrderRef string `json:"orderRef" validate:"required,min=4,max=64"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		pilotID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.ScanOrder(r.Context(), pilotID, strings.TrimSpace(req.OrderRef))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "order detail", detail)
	}
}

// PilotAcceptOrder claims an order for the pilot. At most one pilot wins a
// concurrent claim; losers get a Conflict.
func PilotAcceptOrder(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		OrderID string `json:"orderId" validate:"required,uuid4"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		pilotID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(req.OrderID, "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.AcceptOrder(r.Context(), pilotID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "order accepted", detail)
	}
}

// PilotStartJourney marks the pilot leaving the supplier with the goods.
func PilotStartJourney(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		OrderID string  `json:"orderId" validate:"required,uuid4"`
		Lat     float64 `json:"lat" validate:"required,min=-90,max=90"`
		Lng     float64 `json:"lng" validate:"required,min=-180,max=180"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		pilotID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(req.OrderID, "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.StartJourney(r.Context(), delivery.StartJourneyInput{
			PilotID: pilotID,
			OrderID: orderID,
			Lat:     req.Lat,
			Lng:     req.Lng,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "journey started", detail)
	}
}

// PilotCompleteDelivery closes out a delivery against the customer's OTP.
func PilotCompleteDelivery(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		OrderID string  `json:"orderId" validate:"required,uuid4"`
		OTP     string  `json:"otp" validate:"required,len=6,numeric"`
		Notes   *string `json:"notes" validate:"omitempty,max=500"`
		Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		pilotID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(req.OrderID, "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.CompleteDelivery(r.Context(), delivery.CompleteDeliveryInput{
			PilotID: pilotID,
			OrderID: orderID,
			OTP:     req.OTP,
			Notes:   req.Notes,
			Rating:  req.Rating,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "delivery completed", detail)
	}
}

// PilotActiveOrder returns the order the pilot is currently working, if any.
func PilotActiveOrder(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		pilotID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.ActiveOrder(r.Context(), pilotID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "active order", detail)
	}
}

// PilotDeliveryHistory pages through the pilot's completed deliveries.
func PilotDeliveryHistory(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		pilotID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), pilotID, pagination.Params{Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "delivery history", history)
	}
}
