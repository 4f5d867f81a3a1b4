package controllers

import (
	"net/http"
	"strings"

	"github.com/agkmart/agkmart-backend/api/responses"
	"github.com/agkmart/agkmart-backend/api/validators"
	"github.com/agkmart/agkmart-backend/internal/nearby"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// PilotNearbyOrders runs the radius search around the pilot's last reported
// location. Query params: radius (km), orderType (normal|urgent), page, limit.
func PilotNearbyOrders(finder nearby.Finder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if finder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nearby finder unavailable"))
			return
		}

		pilotID, err := subjectUUID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		radius, err := validators.ParseQueryFloat(r, "radius", 0)
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

		input := nearby.SearchInput{
			PilotID:  pilotID,
			RadiusKm: radius,
			Page:     page,
			Limit:    limit,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("orderType")); raw != "" {
			orderType := enums.OrderPriority(raw)
			input.OrderType = &orderType
		}

		result, err := finder.FindNearby(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "nearby orders", result)
	}
}
