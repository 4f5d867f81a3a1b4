package controllers

import (
	"net/http"

	"github.com/agkmart/agkmart-backend/api/responses"
	"github.com/agkmart/agkmart-backend/api/validators"
	"github.com/agkmart/agkmart-backend/internal/identity"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
)

type loginRequest struct {
	Phone string `json:"phone" validate:"required,in_mobile"`
	OTP   string `json:"otp" validate:"omitempty,len=6,numeric"`
}

// PilotLogin is the legacy dual-mode endpoint the mobile app still calls: a
// body without an otp field requests a code, a body with one verifies it.
func PilotLogin(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if req.OTP == "" {
			challenge, err := svc.RequestOTP(r.Context(), identity.RequestOTPInput{Phone: req.Phone})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, "otp sent", challenge)
			return
		}

		result, err := svc.VerifyOTP(r.Context(), identity.VerifyOTPInput{Phone: req.Phone, OTP: req.OTP})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "login successful", result)
	}
}

// PilotRequestOTP is the explicit variant of the login flow.
func PilotRequestOTP(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		Phone string `json:"phone" validate:"required,in_mobile"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var req request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		challenge, err := svc.RequestOTP(r.Context(), identity.RequestOTPInput{Phone: req.Phone})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "otp sent", challenge)
	}
}

// PilotVerifyOTP exchanges a pending challenge for a session token.
func PilotVerifyOTP(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		Phone string `json:"phone" validate:"required,in_mobile"`
		OTP   string `json:"otp" validate:"required,len=6,numeric"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var req request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.VerifyOTP(r.Context(), identity.VerifyOTPInput{Phone: req.Phone, OTP: req.OTP})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "login successful", result)
	}
}
