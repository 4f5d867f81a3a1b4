package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeLockStore struct {
	values map[string]string
	ttl    time.Duration
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{values: map[string]string{}}
}

func (f *fakeLockStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, held := f.values[key]; held {
		return false, nil
	}
	f.values[key] = value.(string)
	f.ttl = ttl
	return true, nil
}

func (f *fakeLockStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeLockStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockSingleHolder(t *testing.T) {
	store := newFakeLockStore()
	ctx := context.Background()

	first, err := NewRedisLock(store, "agk:cron:lock", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	second, err := NewRedisLock(store, "agk:cron:lock", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	won, err := first.Acquire(ctx)
	if err != nil || !won {
		t.Fatalf("first acquire = %v, %v; want win", won, err)
	}
	won, err = second.Acquire(ctx)
	if err != nil || won {
		t.Fatalf("second acquire = %v, %v; want loss", won, err)
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	won, err = second.Acquire(ctx)
	if err != nil || !won {
		t.Fatalf("acquire after release = %v, %v; want win", won, err)
	}
}

func TestRedisLockReleaseLeavesForeignLease(t *testing.T) {
	store := newFakeLockStore()
	ctx := context.Background()

	lock, err := NewRedisLock(store, "agk:cron:lock", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if won, err := lock.Acquire(ctx); err != nil || !won {
		t.Fatalf("acquire = %v, %v; want win", won, err)
	}

	// Simulate TTL expiry followed by another runner claiming the key.
	store.values["agk:cron:lock"] = "someone-else"

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["agk:cron:lock"] != "someone-else" {
		t.Fatal("release deleted a lease it does not own")
	}
}

func TestRedisLockReleaseAfterExpiryIsNoop(t *testing.T) {
	store := newFakeLockStore()
	ctx := context.Background()

	lock, err := NewRedisLock(store, "agk:cron:lock", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if won, err := lock.Acquire(ctx); err != nil || !won {
		t.Fatalf("acquire = %v, %v; want win", won, err)
	}

	delete(store.values, "agk:cron:lock")

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release after expiry: %v", err)
	}
}

func TestNewRedisLockDefaultsTTL(t *testing.T) {
	store := newFakeLockStore()
	lock, err := NewRedisLock(store, "agk:cron:lock", 0)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if _, err := lock.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if store.ttl != lockHoldTTL {
		t.Fatalf("ttl = %v, want %v", store.ttl, lockHoldTTL)
	}
}
