package controllers

import (
	"net/http"
	"time"

	"github.com/agkmart/agkmart-backend/api/responses"
	"github.com/agkmart/agkmart-backend/api/validators"
	"github.com/agkmart/agkmart-backend/internal/pilots"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
)

type registerRequest struct {
	Name                string    `json:"name" validate:"required,min=2,max=120"`
	Phone               string    `json:"phone" validate:"required,in_mobile"`
	Email               *string   `json:"email" validate:"omitempty,email"`
	VehicleRegistration string    `json:"vehicleRegistration" validate:"required,min=4,max=20"`
	VehicleType         string    `json:"vehicleType" validate:"required"`
	VehicleCapacityKg   int       `json:"vehicleCapacityKg" validate:"required,min=1"`
	InsuranceValid      bool      `json:"insuranceValid"`
	RCValid             bool      `json:"rcValid"`
	LicenseNumber       string    `json:"licenseNumber" validate:"required,min=4,max=30"`
	LicenseValidTill    time.Time `json:"licenseValidTill" validate:"required"`
}

// PilotRegister creates a pending application. Approval happens on the admin
// side before the pilot can log in.
func PilotRegister(svc pilots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pilots service unavailable"))
			return
		}

		var req registerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicleType, err := enums.ParseVehicleType(req.VehicleType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle type"))
			return
		}

		profile, err := svc.Register(r.Context(), pilots.RegisterInput{
			Name:                req.Name,
			Phone:               req.Phone,
			Email:               req.Email,
			VehicleRegistration: req.VehicleRegistration,
			VehicleType:         vehicleType,
			VehicleCapacityKg:   req.VehicleCapacityKg,
			InsuranceValid:      req.InsuranceValid,
			RCValid:             req.RCValid,
			LicenseNumber:       req.LicenseNumber,
			LicenseValidTill:    req.LicenseValidTill,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "registration submitted for approval", profile)
	}
}
