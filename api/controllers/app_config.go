package controllers

import (
	"net/http"

	"github.com/agkmart/agkmart-backend/api/responses"
	"github.com/agkmart/agkmart-backend/pkg/config"
)

// PilotAppConfig is the public payload the pilot app fetches at startup. It
// carries only tunables a client needs before login; nothing here is secret.
func PilotAppConfig(cfg *config.Config) http.HandlerFunc {
	type appConfig struct {
		Env                  string   `json:"env"`
		OTPExpirySeconds     int      `json:"otpExpirySeconds"`
		NearbyDefaultRadius  float64  `json:"nearbyDefaultRadiusKm"`
		NearbyMaxRadius      float64  `json:"nearbyMaxRadiusKm"`
		LocationPingInterval int      `json:"locationPingIntervalSeconds"`
		SupportCategories    []string `json:"supportCategories"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		payload := appConfig{
			Env:                  cfg.App.Env,
			OTPExpirySeconds:     int(cfg.OTP.TTL.Seconds()),
			NearbyDefaultRadius:  cfg.Nearby.DefaultRadiusKm,
			NearbyMaxRadius:      cfg.Nearby.MaxRadiusKm,
			LocationPingInterval: 60,
			SupportCategories: []string{
				"order_issue", "delivery_delay", "damaged_goods", "wrong_item",
				"payment_issue", "refund_request", "account_issue",
				"supplier_dispute", "app_problem", "other",
			},
		}
		responses.WriteSuccess(w, "app config", payload)
	}
}
