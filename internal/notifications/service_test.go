package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/pagination"
)

type fakeRepository struct {
	created       []*models.Notification
	listFn        func(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, params pagination.Params) ([]models.Notification, int64, error)
	markReadFn    func(ctx context.Context, recipientID, notificationID uuid.UUID, now time.Time) (MarkResult, error)
	markAllReadFn func(ctx context.Context, recipientID uuid.UUID, now time.Time) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeRepository) ListForRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, params pagination.Params) ([]models.Notification, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, recipientID, unreadOnly, params)
	}
	return nil, 0, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID, now time.Time) (MarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, recipientID, notificationID, now)
	}
	return MarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, recipientID, now)
	}
	return 0, nil
}

func (f *fakeRepository) DeleteOlderThan(context.Context, *gorm.DB, time.Time) (int64, error) {
	return 0, nil
}

func newServiceWithRepo(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestService_ListNotifications(t *testing.T) {
	recipient := uuid.New()
	repo := &fakeRepository{
		listFn: func(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, params pagination.Params) ([]models.Notification, int64, error) {
			if recipientID != recipient {
				t.Fatalf("unexpected recipient %s", recipientID)
			}
			if params.Limit != 1 || params.Page != 2 {
				t.Fatalf("unexpected params %+v", params)
			}
			return []models.Notification{{ID: uuid.New()}}, 5, nil
		},
	}

	svc := newServiceWithRepo(t, repo)
	result, err := svc.List(context.Background(), ListParams{RecipientID: recipient, Page: 2, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(result.Items))
	}
	if result.Meta.TotalItems != 5 || !result.Meta.HasNext {
		t.Fatalf("unexpected meta %+v", result.Meta)
	}
}

func TestService_ListRequiresRecipient(t *testing.T) {
	svc := newServiceWithRepo(t, &fakeRepository{})
	_, err := svc.List(context.Background(), ListParams{})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_MarkRead(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, recipientID, notificationID uuid.UUID, now time.Time) (MarkResult, error) {
			return MarkResult{Found: true, Updated: true}, nil
		},
	}
	svc := newServiceWithRepo(t, repo)
	if err := svc.MarkRead(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected mark read error: %v", err)
	}
}

func TestService_MarkReadNotFound(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, recipientID, notificationID uuid.UUID, now time.Time) (MarkResult, error) {
			return MarkResult{Found: false}, nil
		},
	}
	svc := newServiceWithRepo(t, repo)
	err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_MarkAllRead(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, recipientID uuid.UUID, now time.Time) (int64, error) {
			return 3, nil
		},
	}
	svc := newServiceWithRepo(t, repo)
	count, err := svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected mark all read error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 updated rows, got %d", count)
	}
}

func TestService_MarkAllReadError(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, recipientID uuid.UUID, now time.Time) (int64, error) {
			return 0, errors.New("boom")
		},
	}
	svc := newServiceWithRepo(t, repo)
	if _, err := svc.MarkAllRead(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error")
	}
}

type recordingSender struct {
	sent []sentSMS
	fail bool
}

type sentSMS struct {
	phone string
	body  string
}

func (s *recordingSender) Send(ctx context.Context, phone, body string) error {
	if s.fail {
		return errors.New("carrier unavailable")
	}
	s.sent = append(s.sent, sentSMS{phone: phone, body: body})
	return nil
}

func newTestConsumer(repo *fakeRepository, sender *recordingSender) *Consumer {
	return &Consumer{
		repo:   repo,
		sender: sender,
		logg:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}
}

func TestConsumerOrderAcceptedSendsHandoverOTP(t *testing.T) {
	repo := &fakeRepository{}
	sender := &recordingSender{}
	consumer := newTestConsumer(repo, sender)

	payload, _ := json.Marshal(orderAcceptedPayload{
		OrderID:       uuid.New(),
		OrderCode:     "AGK1719302400000042",
		PilotID:       uuid.New(),
		PilotName:     "Sanjay Behera",
		PilotPhone:    "9876543210",
		CustomerPhone: "9123456780",
		SupplierPhone: "9988776655",
		DeliveryOTP:   "482913",
	})

	if err := consumer.handle(context.Background(), enums.EventOrderAccepted, payload, context.Background()); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("sms sent = %d, want customer and supplier", len(sender.sent))
	}
	if sender.sent[0].phone != "9123456780" || !strings.Contains(sender.sent[0].body, "482913") {
		t.Fatalf("customer sms = %+v, want handover otp", sender.sent[0])
	}
	if strings.Contains(sender.sent[1].body, "482913") {
		t.Fatal("handover otp leaked to supplier")
	}
	if len(repo.created) != 2 {
		t.Fatalf("notification rows = %d, want 2", len(repo.created))
	}
	if !repo.created[0].Sent || repo.created[0].Channel != enums.NotificationChannelSMS {
		t.Fatalf("row = %+v, want sent sms row", repo.created[0])
	}
}

func TestConsumerRecordsFailedSends(t *testing.T) {
	repo := &fakeRepository{}
	sender := &recordingSender{fail: true}
	consumer := newTestConsumer(repo, sender)

	payload, _ := json.Marshal(orderDeliveredPayload{
		OrderID:       uuid.New(),
		OrderCode:     "AGK1719302400000042",
		PilotID:       uuid.New(),
		CustomerPhone: "9123456780",
	})

	if err := consumer.handle(context.Background(), enums.EventOrderDelivered, payload, context.Background()); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("rows = %d, want 1", len(repo.created))
	}
	row := repo.created[0]
	if row.Sent || row.SendErr == nil {
		t.Fatalf("row = %+v, want unsent with error", row)
	}
}

func TestConsumerPilotRejectionCarriesReason(t *testing.T) {
	repo := &fakeRepository{}
	sender := &recordingSender{}
	consumer := newTestConsumer(repo, sender)

	reason := "vehicle registration expired"
	payload, _ := json.Marshal(pilotDecisionPayload{
		PilotID:     uuid.New(),
		PilotNumber: "PIL000042",
		Phone:       "9876543210",
		Reason:      &reason,
	})

	if err := consumer.handle(context.Background(), enums.EventPilotRejected, payload, context.Background()); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].body, reason) {
		t.Fatalf("sms = %+v, want rejection reason", sender.sent)
	}
}

func TestConsumerStoresInAppRows(t *testing.T) {
	repo := &fakeRepository{}
	sender := &recordingSender{}
	consumer := newTestConsumer(repo, sender)

	payload, _ := json.Marshal(ticketStatusChangedPayload{
		TicketID:     uuid.New(),
		TicketNumber: "TKT1719302400000007",
		NewStatus:    enums.TicketStatusResolved,
	})

	if err := consumer.handle(context.Background(), enums.EventTicketStatusChanged, payload, context.Background()); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("ticket updates should stay in-app")
	}
	if len(repo.created) != 1 || repo.created[0].Channel != enums.NotificationChannelInApp {
		t.Fatalf("rows = %+v, want single in-app row", repo.created)
	}
}
