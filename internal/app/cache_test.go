package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ferreteria-bi/internal/app"
)

func TestSnapshotCache_TTLExpiry(t *testing.T) {
	cache := app.NewSnapshotCache(20 * time.Millisecond)
	ctx := context.Background()
	calls := 0
	load := func(ctx context.Context) (*app.Snapshot, error) {
		calls++
		return &app.Snapshot{}, nil
	}

	if _, err := cache.Get(ctx, load); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := cache.Get(ctx, load); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 within TTL", calls)
	}

	time.Sleep(30 * time.Millisecond)
	if _, err := cache.Get(ctx, load); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 after TTL expiry", calls)
	}
}

func TestSnapshotCache_Invalidate(t *testing.T) {
	cache := app.NewSnapshotCache(time.Hour)
	ctx := context.Background()
	calls := 0
	load := func(ctx context.Context) (*app.Snapshot, error) {
		calls++
		return &app.Snapshot{}, nil
	}

	if _, err := cache.Get(ctx, load); err != nil {
		t.Fatalf("Get: %v", err)
	}
	cache.Invalidate()
	if _, err := cache.Get(ctx, load); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 after Invalidate", calls)
	}
}

func TestSnapshotCache_FailedLoadNotCached(t *testing.T) {
	cache := app.NewSnapshotCache(time.Hour)
	ctx := context.Background()
	boom := errors.New("boom")
	calls := 0
	load := func(ctx context.Context) (*app.Snapshot, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return &app.Snapshot{}, nil
	}

	if _, err := cache.Get(ctx, load); !errors.Is(err, boom) {
		t.Fatalf("first Get err = %v, want boom", err)
	}
	if _, err := cache.Get(ctx, load); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (failure must not be cached)", calls)
	}
}
