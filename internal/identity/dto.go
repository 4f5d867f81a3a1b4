package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/internal/pilots"
)

// RequestOTPInput asks for a login code on a registered pilot phone.
type RequestOTPInput struct {
	Phone string
}

// OTPChallenge is returned after a code is issued. OTP is only populated in
// development deployments where the echo flag is on.
type OTPChallenge struct {
	Phone            string `json:"phone"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
	OTP              string `json:"otp,omitempty"`
}

// VerifyOTPInput exchanges a pending challenge for a session.
type VerifyOTPInput struct {
	Phone string
	OTP   string
}

// LoginResult carries the session token plus the pilot's public profile.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Pilot     pilots.Profile `json:"pilot"`
}

// OTPRequestedEvent is the audit record queued when a code is issued. The
// code itself never enters the payload.
type OTPRequestedEvent struct {
	PilotID   uuid.UUID `json:"pilot_id"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}
