package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agkmart/agkmart-backend/api/responses"
	"github.com/agkmart/agkmart-backend/api/validators"
	"github.com/agkmart/agkmart-backend/internal/delivery"
	"github.com/agkmart/agkmart-backend/internal/pilots"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

const recentDeliveriesCount = 5

// PilotProfile returns a pilot's profile with their most recent deliveries.
// Pilots can only read their own profile.
func PilotProfile(pilotSvc pilots.Service, deliverySvc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	type profileResponse struct {
		Pilot            *pilots.Profile        `json:"pilot"`
		RecentDeliveries []delivery.OrderDetail `json:"recentDeliveries"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if pilotSvc == nil || deliverySvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pilots service unavailable"))
			return
		}

		subject, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pilotID, err := pathUUID(chi.URLParam(r, "pilotId"), "pilot id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if pilotID != subject {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot read another pilot's profile"))
			return
		}

		profile, err := pilotSvc.GetProfile(r.Context(), pilotID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := deliverySvc.History(r.Context(), pilotID, pagination.Params{Page: 1, Limit: recentDeliveriesCount})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "pilot profile", profileResponse{
			Pilot:            profile,
			RecentDeliveries: history.Deliveries,
		})
	}
}

// PilotUpdateLocation records a location ping from the pilot app.
func PilotUpdateLocation(svc pilots.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		Lat float64 `json:"lat" validate:"required,min=-90,max=90"`
		Lng float64 `json:"lng" validate:"required,min=-180,max=180"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pilots service unavailable"))
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

		profile, err := svc.UpdateLocation(r.Context(), pilots.UpdateLocationInput{
			PilotID: pilotID,
			Lat:     req.Lat,
			Lng:     req.Lng,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "location updated", profile)
	}
}

// PilotSetAvailability toggles whether the pilot appears in dispatch pools.
func PilotSetAvailability(svc pilots.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		Available *bool `json:"available" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pilots service unavailable"))
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

		profile, err := svc.SetAvailability(r.Context(), pilotID, *req.Available)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "availability updated", profile)
	}
}

// PilotDashboardStats aggregates the numbers the pilot home screen shows:
// lifetime delivery counters plus whatever order is currently in hand.
func PilotDashboardStats(pilotSvc pilots.Service, deliverySvc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	type dashboard struct {
		TotalDeliveries int                   `json:"totalDeliveries"`
		RatingAvg       float64               `json:"ratingAvg"`
		RatingCount     int                   `json:"ratingCount"`
		IsAvailable     bool                  `json:"isAvailable"`
		ActiveOrder     *delivery.OrderDetail `json:"activeOrder,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if pilotSvc == nil || deliverySvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pilots service unavailable"))
			return
		}

		pilotID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := pilotSvc.GetProfile(r.Context(), pilotID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats := dashboard{
			TotalDeliveries: profile.TotalDeliveries,
			RatingAvg:       profile.RatingAvg,
			RatingCount:     profile.RatingCount,
			IsAvailable:     profile.IsAvailable,
		}

		active, err := deliverySvc.ActiveOrder(r.Context(), pilotID)
		switch {
		case err == nil:
			stats.ActiveOrder = active
		case pkgerrors.CodeOf(err) == pkgerrors.CodeNotFound:
			// no order in hand
		default:
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "pilot stats", stats)
	}
}
