package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/agkmart/agkmart-backend/api/responses"
	"github.com/agkmart/agkmart-backend/api/validators"
	"github.com/agkmart/agkmart-backend/internal/pilots"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// AdminPilotList pages the directory with optional status, vehicle type,
// availability and free-text filters.
func AdminPilotList(svc pilots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pilots service unavailable"))
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

		filters := pilots.ListFilters{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParsePilotStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("vehicleType")); raw != "" {
			vehicleType, err := enums.ParseVehicleType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle type filter"))
				return
			}
			filters.VehicleType = &vehicleType
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("available")); raw != "" {
			available, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid available filter"))
				return
			}
			filters.Available = &available
		}

		list, err := svc.List(r.Context(), pagination.Params{Page: page, Limit: limit}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "pilots", list)
	}
}

// AdminPilotStats summarizes the directory for the dashboard.
func AdminPilotStats(svc pilots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pilots service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "pilot stats", stats)
	}
}

// AdminApprovePilot moves a pending application to approved, which unlocks
// OTP login for that phone.
func AdminApprovePilot(svc pilots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pilots service unavailable"))
			return
		}

		adminID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pilotID, err := pathUUID(chi.URLParam(r, "pilotId"), "pilot id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Approve(r.Context(), adminID, pilotID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "pilot approved", profile)
	}
}

// AdminRejectPilot declines a pending application with a reason the pilot
// can read.
func AdminRejectPilot(svc pilots.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		Reason string `json:"reason" validate:"required,min=4,max=500"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pilots service unavailable"))
			return
		}

		adminID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pilotID, err := pathUUID(chi.URLParam(r, "pilotId"), "pilot id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Reject(r.Context(), adminID, pilotID, strings.TrimSpace(req.Reason))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "pilot rejected", profile)
	}
}

// AdminDeactivatePilot soft-deletes a pilot. Historical deliveries keep
// their references.
func AdminDeactivatePilot(svc pilots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pilots service unavailable"))
			return
		}

		adminID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pilotID, err := pathUUID(chi.URLParam(r, "pilotId"), "pilot id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), adminID, pilotID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "pilot deactivated", nil)
	}
}
