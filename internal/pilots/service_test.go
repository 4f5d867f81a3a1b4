package pilots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/outbox"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

type stubPilotsRepo struct {
	byID         map[uuid.UUID]*models.Pilot
	byPhone      map[string]*models.Pilot
	createErr    error
	updates      map[string]any
	statusMoved  bool
	claimWins    bool
	releaseWins  bool
	claimedOrder *uuid.UUID
}

func newStubPilotsRepo() *stubPilotsRepo {
	return &stubPilotsRepo{
		byID:        map[uuid.UUID]*models.Pilot{},
		byPhone:     map[string]*models.Pilot{},
		statusMoved: true,
		claimWins:   true,
		releaseWins: true,
	}
}

func (s *stubPilotsRepo) add(p *models.Pilot) *models.Pilot {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.byID[p.ID] = p
	s.byPhone[p.Phone] = p
	return p
}

func (s *stubPilotsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPilotsRepo) Create(ctx context.Context, pilot *models.Pilot) (*models.Pilot, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, exists := s.byPhone[pilot.Phone]; exists {
		return nil, gorm.ErrDuplicatedKey
	}
	pilot.PilotNumber = int64(len(s.byID) + 1)
	return s.add(pilot), nil
}

func (s *stubPilotsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Pilot, error) {
	if p, ok := s.byID[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPilotsRepo) FindByPhone(ctx context.Context, phone string) (*models.Pilot, error) {
	if p, ok := s.byPhone[phone]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPilotsRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) (*PilotList, error) {
	return &PilotList{}, nil
}

func (s *stubPilotsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubPilotsRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to enums.PilotStatus, updates map[string]any) (bool, error) {
	if !s.statusMoved {
		return false, nil
	}
	if p, ok := s.byID[id]; ok && p.Status == from {
		p.Status = to
		return true, nil
	}
	return false, nil
}

func (s *stubPilotsRepo) ClaimOrder(ctx context.Context, pilotID, orderID uuid.UUID) (bool, error) {
	if s.claimWins {
		s.claimedOrder = &orderID
	}
	return s.claimWins, nil
}

func (s *stubPilotsRepo) ReleaseOrder(ctx context.Context, pilotID, orderID uuid.UUID, rating *int) (bool, error) {
	return s.releaseWins, nil
}

func (s *stubPilotsRepo) CountByStatus(ctx context.Context) (map[enums.PilotStatus]int64, error) {
	counts := map[enums.PilotStatus]int64{}
	for _, p := range s.byID {
		counts[p.Status]++
	}
	return counts, nil
}

func (s *stubPilotsRepo) CountAvailable(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *stubOutbox) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	for _, existing := range s.events {
		if existing.EventType == event.EventType && existing.AggregateID == event.AggregateID {
			return nil
		}
	}
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, repo Repository, ob *stubOutbox) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, ob)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:                "Ravi Kumar",
		Phone:               "9876543210",
		VehicleRegistration: "ka01ab1234",
		VehicleType:         enums.VehicleTypeMiniTruck,
		VehicleCapacityKg:   1200,
		InsuranceValid:      true,
		RCValid:             true,
		LicenseNumber:       "dl-1420110012345",
		LicenseValidTill:    time.Now().Add(365 * 24 * time.Hour),
	}
}

func TestRegisterCreatesPendingPilot(t *testing.T) {
	repo := newStubPilotsRepo()
	ob := &stubOutbox{}
	svc := newTestService(t, repo, ob)

	profile, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if profile.Status != enums.PilotStatusPendingApproval {
		t.Fatalf("expected pending_approval, got %s", profile.Status)
	}
	if profile.IsActive || profile.IsAvailable {
		t.Fatal("new applications must start inactive and unavailable")
	}
	if profile.PilotID != "PIL000001" {
		t.Fatalf("unexpected pilot id %q", profile.PilotID)
	}
	if profile.VehicleRegistration != "KA01AB1234" {
		t.Fatalf("registration not normalized: %q", profile.VehicleRegistration)
	}

	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventPilotRegistered {
		t.Fatalf("expected pilot_registered event, got %+v", ob.events)
	}
}

func TestRegisterValidation(t *testing.T) {
	repo := newStubPilotsRepo()
	svc := newTestService(t, repo, &stubOutbox{})

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"bad phone prefix", func(in *RegisterInput) { in.Phone = "5876543210" }},
		{"short phone", func(in *RegisterInput) { in.Phone = "98765" }},
		{"empty name", func(in *RegisterInput) { in.Name = "  " }},
		{"bad vehicle type", func(in *RegisterInput) { in.VehicleType = "bicycle" }},
		{"expired license", func(in *RegisterInput) { in.LicenseValidTill = time.Now().Add(-time.Hour) }},
		{"negative capacity", func(in *RegisterInput) { in.VehicleCapacityKg = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validRegisterInput()
			tc.mutate(&input)
			_, err := svc.Register(context.Background(), input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestApproveActivatesPilot(t *testing.T) {
	repo := newStubPilotsRepo()
	pilot := repo.add(&models.Pilot{
		Phone:       "9876543210",
		Status:      enums.PilotStatusPendingApproval,
		PilotNumber: 7,
	})
	ob := &stubOutbox{}
	svc := newTestService(t, repo, ob)

	profile, err := svc.Approve(context.Background(), uuid.New(), pilot.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if profile.Status != enums.PilotStatusApproved {
		t.Fatalf("expected approved, got %s", profile.Status)
	}
	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventPilotApproved {
		t.Fatalf("expected pilot_approved event, got %+v", ob.events)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	repo := newStubPilotsRepo()
	pilot := repo.add(&models.Pilot{
		Phone:  "9876543210",
		Status: enums.PilotStatusApproved,
	})
	ob := &stubOutbox{}
	svc := newTestService(t, repo, ob)

	profile, err := svc.Approve(context.Background(), uuid.New(), pilot.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if profile.Status != enums.PilotStatusApproved {
		t.Fatalf("expected approved, got %s", profile.Status)
	}
	if len(ob.events) != 0 {
		t.Fatalf("re-approving must not emit events, got %+v", ob.events)
	}
}

func TestRejectRequiresReasonAndPendingState(t *testing.T) {
	repo := newStubPilotsRepo()
	pilot := repo.add(&models.Pilot{
		Phone:  "9876543210",
		Status: enums.PilotStatusApproved,
	})
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.Reject(context.Background(), uuid.New(), pilot.ID, "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty reason, got %v", err)
	}

	_, err = svc.Reject(context.Background(), uuid.New(), pilot.ID, "documents unreadable")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict rejecting an approved pilot, got %v", err)
	}
}

func TestUpdateLocationBounds(t *testing.T) {
	repo := newStubPilotsRepo()
	pilot := repo.add(&models.Pilot{
		Phone:    "9876543210",
		Status:   enums.PilotStatusApproved,
		IsActive: true,
	})
	svc := newTestService(t, repo, &stubOutbox{})

	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"lat high", 90.5, 77.0},
		{"lat low", -91, 77.0},
		{"lng high", 12.9, 180.5},
		{"lng low", 12.9, -181},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpdateLocation(context.Background(), UpdateLocationInput{
				PilotID: pilot.ID, Lat: tc.lat, Lng: tc.lng,
			})
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	profile, err := svc.UpdateLocation(context.Background(), UpdateLocationInput{
		PilotID: pilot.ID, Lat: 12.9716, Lng: 77.5946,
	})
	if err != nil {
		t.Fatalf("update location: %v", err)
	}
	if profile.CurrentLat == nil || *profile.CurrentLat != 12.9716 {
		t.Fatalf("latitude not stored: %+v", profile.CurrentLat)
	}
	if profile.LocationUpdatedAt == nil {
		t.Fatal("location timestamp missing")
	}
}

func TestUpdateLocationRequiresActivePilot(t *testing.T) {
	repo := newStubPilotsRepo()
	pilot := repo.add(&models.Pilot{
		Phone:  "9876543210",
		Status: enums.PilotStatusPendingApproval,
	})
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.UpdateLocation(context.Background(), UpdateLocationInput{
		PilotID: pilot.ID, Lat: 12.9, Lng: 77.5,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for pending pilot, got %v", err)
	}
}

func TestSetAvailabilityBlockedDuringDelivery(t *testing.T) {
	repo := newStubPilotsRepo()
	orderID := uuid.New()
	pilot := repo.add(&models.Pilot{
		Phone:          "9876543210",
		Status:         enums.PilotStatusApproved,
		IsActive:       true,
		CurrentOrderID: &orderID,
	})
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.SetAvailability(context.Background(), pilot.ID, true)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	// Going unavailable is always allowed.
	profile, err := svc.SetAvailability(context.Background(), pilot.ID, false)
	if err != nil {
		t.Fatalf("set unavailable: %v", err)
	}
	if profile.IsAvailable {
		t.Fatal("expected availability off")
	}
}

func TestDeactivateBlockedDuringDelivery(t *testing.T) {
	repo := newStubPilotsRepo()
	orderID := uuid.New()
	pilot := repo.add(&models.Pilot{
		Phone:          "9876543210",
		Status:         enums.PilotStatusApproved,
		IsActive:       true,
		CurrentOrderID: &orderID,
	})
	svc := newTestService(t, repo, &stubOutbox{})

	err := svc.Deactivate(context.Background(), uuid.New(), pilot.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	svc := newTestService(t, newStubPilotsRepo(), &stubOutbox{})

	_, err := svc.GetProfile(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"6000000000", "7123456789", "8999999999", "9876543210"}
	for _, phone := range valid {
		if !ValidPhone(phone) {
			t.Errorf("expected %q to be valid", phone)
		}
	}

	invalid := []string{"", "12345", "5876543210", "98765432101", "987654321", "98765abcde", "+919876543210"}
	for _, phone := range invalid {
		if ValidPhone(phone) {
			t.Errorf("expected %q to be invalid", phone)
		}
	}
}
