package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/pkg/enums"
)

// SessionTokenPayload captures the data available when minting a JWT.
type SessionTokenPayload struct {
	SubjectID uuid.UUID
	Role      enums.ActorRole
	Phone     string
	JTI       string
}

// SessionTokenClaims represents the typed JWT issued to clients.
type SessionTokenClaims struct {
	SubjectID uuid.UUID       `json:"subject_id"`
	Role      enums.ActorRole `json:"role"`
	Phone     string          `json:"phone,omitempty"`
	jwt.RegisteredClaims
}
