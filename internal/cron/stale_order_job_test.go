package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/agkmart/agkmart-backend/internal/delivery"
	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/logger"
)

type fakeStaleOrderReader struct {
	orders     []models.Order
	lastCutoff time.Time
	lastLimit  int
	err        error
}

func (f *fakeStaleOrderReader) ListDispatchedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	f.lastCutoff = cutoff
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

type fakeCanceller struct {
	cancelled []uuid.UUID
	failFor   map[uuid.UUID]error
}

func (f *fakeCanceller) Cancel(ctx context.Context, orderID uuid.UUID) (*delivery.OrderDetail, error) {
	if err, ok := f.failFor[orderID]; ok {
		return nil, err
	}
	f.cancelled = append(f.cancelled, orderID)
	return &delivery.OrderDetail{ID: orderID}, nil
}

func newStaleOrderJob(t *testing.T, reader *fakeStaleOrderReader, canceller *fakeCanceller) *staleOrderJob {
	t.Helper()
	jobIface, err := NewStaleOrderJob(StaleOrderJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Orders:   reader,
		Delivery: canceller,
	})
	if err != nil {
		t.Fatalf("NewStaleOrderJob: %v", err)
	}
	job, ok := jobIface.(*staleOrderJob)
	if !ok {
		t.Fatalf("expected staleOrderJob, got %T", jobIface)
	}
	return job
}

func TestStaleOrderJobCancelsEverythingPastCutoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: uuid.New(), OrderCode: "AGK-000101"},
		{ID: uuid.New(), OrderCode: "AGK-000102"},
	}
	reader := &fakeStaleOrderReader{orders: orders}
	canceller := &fakeCanceller{}
	job := newStaleOrderJob(t, reader, canceller)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.UTC().Add(-staleOrderDays * 24 * time.Hour)
	if !reader.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, reader.lastCutoff)
	}
	if reader.lastLimit != staleOrderBatch {
		t.Fatalf("expected batch %d, got %d", staleOrderBatch, reader.lastLimit)
	}
	if len(canceller.cancelled) != 2 {
		t.Fatalf("expected 2 cancellations, got %d", len(canceller.cancelled))
	}
}

func TestStaleOrderJobKeepsGoingPastCancelFailures(t *testing.T) {
	bad := uuid.New()
	good := uuid.New()
	reader := &fakeStaleOrderReader{orders: []models.Order{
		{ID: bad, OrderCode: "AGK-000201"},
		{ID: good, OrderCode: "AGK-000202"},
	}}
	canceller := &fakeCanceller{failFor: map[uuid.UUID]error{bad: errors.New("already claimed")}}
	job := newStaleOrderJob(t, reader, canceller)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if len(canceller.cancelled) != 1 || canceller.cancelled[0] != good {
		t.Fatalf("expected remaining order cancelled, got %v", canceller.cancelled)
	}
}

func TestStaleOrderJobPropagatesReadError(t *testing.T) {
	reader := &fakeStaleOrderReader{err: errors.New("db down")}
	job := newStaleOrderJob(t, reader, &fakeCanceller{})

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
