package pilots

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/agkmart/agkmart-backend/pkg/db"
	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/outbox"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

// phoneRe matches Indian mobile numbers: ten digits starting 6-9.
var phoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)

// ValidPhone reports whether the value is an acceptable mobile number.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines directory operations beyond repository reads.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Profile, error)
	GetProfile(ctx context.Context, pilotID uuid.UUID) (*Profile, error)
	GetByPhone(ctx context.Context, phone string) (*models.Pilot, error)
	UpdateLocation(ctx context.Context, input UpdateLocationInput) (*Profile, error)
	SetAvailability(ctx context.Context, pilotID uuid.UUID, available bool) (*Profile, error)
	Approve(ctx context.Context, adminID, pilotID uuid.UUID) (*Profile, error)
	Reject(ctx context.Context, adminID, pilotID uuid.UUID, reason string) (*Profile, error)
	Deactivate(ctx context.Context, actorID, pilotID uuid.UUID) error
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*PilotList, error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds a pilot directory service with the required dependencies.
func NewService(repo Repository, tx txRunner, ob outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pilots repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: ob}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Profile, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.VehicleRegistration = strings.ToUpper(strings.TrimSpace(input.VehicleRegistration))
	input.LicenseNumber = strings.ToUpper(strings.TrimSpace(input.LicenseNumber))

	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !ValidPhone(input.Phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone must be a valid 10-digit mobile number")
	}
	if !input.VehicleType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown vehicle type").
			WithDetails(map[string]any{"vehicleType": input.VehicleType})
	}
	if input.VehicleRegistration == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle registration is required")
	}
	if input.VehicleCapacityKg < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle capacity cannot be negative")
	}
	if input.LicenseNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "license number is required")
	}
	if !input.LicenseValidTill.After(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "license has expired")
	}

	var created *models.Pilot
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pilot := &models.Pilot{
			Name:                input.Name,
			Phone:               input.Phone,
			Email:               input.Email,
			VehicleRegistration: input.VehicleRegistration,
			VehicleType:         input.VehicleType,
			VehicleCapacityKg:   input.VehicleCapacityKg,
			InsuranceValid:      input.InsuranceValid,
			RCValid:             input.RCValid,
			LicenseNumber:       input.LicenseNumber,
			LicenseValidTill:    input.LicenseValidTill,
			Status:              enums.PilotStatusPendingApproval,
			IsActive:            false,
			IsAvailable:         false,
		}

		saved, err := repo.Create(ctx, pilot)
		if err != nil {
			if dbpkg.IsUniqueViolation(err, "ux_pilots_phone") {
				return pkgerrors.New(pkgerrors.CodeConflict, "phone number already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pilot")
		}
		created = saved

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPilotRegistered,
			AggregateType: enums.AggregatePilot,
			AggregateID:   saved.ID,
			Data: RegisteredEvent{
				PilotID:     saved.ID,
				PilotNumber: saved.PilotID(),
				Phone:       saved.Phone,
				VehicleType: saved.VehicleType,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	profile := ProfileFromModel(created)
	return &profile, nil
}

func (s *service) GetProfile(ctx context.Context, pilotID uuid.UUID) (*Profile, error) {
	if pilotID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pilot id required")
	}
	pilot, err := s.repo.FindByID(ctx, pilotID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pilot not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pilot")
	}
	profile := ProfileFromModel(pilot)
	return &profile, nil
}

func (s *service) GetByPhone(ctx context.Context, phone string) (*models.Pilot, error) {
	if !ValidPhone(phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone must be a valid 10-digit mobile number")
	}
	pilot, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pilot not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pilot by phone")
	}
	return pilot, nil
}

func (s *service) UpdateLocation(ctx context.Context, input UpdateLocationInput) (*Profile, error) {
	if input.PilotID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "pilot identity missing")
	}
	if input.Lat < -90 || input.Lat > 90 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "latitude out of range").
			WithDetails(map[string]any{"lat": input.Lat})
	}
	if input.Lng < -180 || input.Lng > 180 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "longitude out of range").
			WithDetails(map[string]any{"lng": input.Lng})
	}

	pilot, err := s.repo.FindByID(ctx, input.PilotID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pilot not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pilot")
	}
	if pilot.Status != enums.PilotStatusApproved || !pilot.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "pilot account is not active")
	}

	now := time.Now()
	updates := map[string]any{
		"current_lat":         input.Lat,
		"current_lng":         input.Lng,
		"location_updated_at": now,
	}
	if err := s.repo.Update(ctx, pilot.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update location")
	}

	pilot.CurrentLat = &input.Lat
	pilot.CurrentLng = &input.Lng
	pilot.LocationUpdatedAt = &now
	profile := ProfileFromModel(pilot)
	return &profile, nil
}

func (s *service) SetAvailability(ctx context.Context, pilotID uuid.UUID, available bool) (*Profile, error) {
	if pilotID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "pilot identity missing")
	}

	pilot, err := s.repo.FindByID(ctx, pilotID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pilot not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pilot")
	}
	if pilot.Status != enums.PilotStatusApproved || !pilot.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "pilot account is not active")
	}
	if available && pilot.CurrentOrderID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot go available while a delivery is in progress")
	}

	if err := s.repo.Update(ctx, pilot.ID, map[string]any{"is_available": available}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update availability")
	}

	pilot.IsAvailable = available
	profile := ProfileFromModel(pilot)
	return &profile, nil
}

func (s *service) Approve(ctx context.Context, adminID, pilotID uuid.UUID) (*Profile, error) {
	return s.decide(ctx, adminID, pilotID, enums.PilotStatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, adminID, pilotID uuid.UUID, reason string) (*Profile, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required")
	}
	return s.decide(ctx, adminID, pilotID, enums.PilotStatusRejected, &reason)
}

func (s *service) decide(ctx context.Context, adminID, pilotID uuid.UUID, target enums.PilotStatus, reason *string) (*Profile, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	if pilotID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pilot id required")
	}

	var decided *models.Pilot
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pilot, err := repo.FindByID(ctx, pilotID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pilot not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pilot")
		}
		if pilot.Status == target {
			decided = pilot
			return nil
		}
		if pilot.Status != enums.PilotStatusPendingApproval {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "pilot application is already decided").
				WithDetails(map[string]any{"status": pilot.Status})
		}

		updates := map[string]any{"rejection_reason": reason}
		if target == enums.PilotStatusApproved {
			// Approved pilots come online immediately; they can opt out
			// with the availability toggle afterwards.
			updates["is_active"] = true
			updates["is_available"] = true
		}
		moved, err := repo.UpdateStatusFrom(ctx, pilot.ID, enums.PilotStatusPendingApproval, target, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pilot status")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "pilot application is already decided")
		}

		oldStatus := pilot.Status
		pilot.Status = target
		pilot.RejectionReason = reason
		if target == enums.PilotStatusApproved {
			pilot.IsActive = true
			pilot.IsAvailable = true
		}
		decided = pilot

		eventType := enums.EventPilotApproved
		if target == enums.PilotStatusRejected {
			eventType = enums.EventPilotRejected
		}
		return s.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregatePilot,
			AggregateID:   pilot.ID,
			Actor:         &outbox.ActorRef{ActorID: adminID, Role: string(enums.ActorRoleAdmin)},
			Data: StatusChangedEvent{
				PilotID:     pilot.ID,
				PilotNumber: pilot.PilotID(),
				Phone:       pilot.Phone,
				OldStatus:   oldStatus,
				NewStatus:   target,
				Reason:      reason,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	profile := ProfileFromModel(decided)
	return &profile, nil
}

func (s *service) Deactivate(ctx context.Context, actorID, pilotID uuid.UUID) error {
	if actorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if pilotID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "pilot id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pilot, err := repo.FindByID(ctx, pilotID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pilot not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pilot")
		}
		if pilot.Status == enums.PilotStatusDeactivated {
			return nil
		}
		if pilot.CurrentOrderID != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot deactivate while a delivery is in progress")
		}

		moved, err := repo.UpdateStatusFrom(ctx, pilot.ID, pilot.Status, enums.PilotStatusDeactivated, map[string]any{
			"is_active":    false,
			"is_available": false,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate pilot")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "pilot state changed concurrently")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPilotDeactivated,
			AggregateType: enums.AggregatePilot,
			AggregateID:   pilot.ID,
			Actor:         &outbox.ActorRef{ActorID: actorID},
			Data: StatusChangedEvent{
				PilotID:     pilot.ID,
				PilotNumber: pilot.PilotID(),
				Phone:       pilot.Phone,
				OldStatus:   pilot.Status,
				NewStatus:   enums.PilotStatusDeactivated,
			},
		})
	})
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*PilotList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pilots")
	}
	return list, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pilots by status")
	}
	available, err := s.repo.CountAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count available pilots")
	}

	return &Stats{
		PendingApproval: counts[enums.PilotStatusPendingApproval],
		Approved:        counts[enums.PilotStatusApproved],
		Rejected:        counts[enums.PilotStatusRejected],
		Deactivated:     counts[enums.PilotStatusDeactivated],
		AvailableNow:    available,
	}, nil
}
