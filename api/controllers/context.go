package controllers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/api/middleware"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
)

// subjectUUID extracts the authenticated subject id seeded by the Auth
// middleware. Missing or malformed ids surface as Unauthorized so a broken
// token never reaches a service layer.
func subjectUUID(ctx context.Context) (uuid.UUID, error) {
	raw := strings.TrimSpace(middleware.SubjectIDFromContext(ctx))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "subject context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid subject id")
	}
	return id, nil
}

// pathUUID parses a uuid path segment into a typed id.
func pathUUID(raw, field string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return id, nil
}
