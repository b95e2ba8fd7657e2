package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestControlRepo(t *testing.T) *ControlRepo {
	t.Helper()

	mr := miniredis.RunT(t)
	return NewControlRepo(NewClient(mr.Addr(), "", 0))
}

func TestControlRepoRoundTrip(t *testing.T) {
	repo := newTestControlRepo(t)
	ctx := context.Background()

	record, err := repo.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.Exists {
		t.Error("fresh creator should have no control hash")
	}

	if err := repo.SetCreationBlocked(ctx, "c1", true); err != nil {
		t.Fatalf("SetCreationBlocked: %v", err)
	}
	until := time.Now().UTC().Add(72 * time.Hour)
	if err := repo.SetCooldown(ctx, "c1", until); err != nil {
		t.Fatalf("SetCooldown: %v", err)
	}

	record, err = repo.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !record.Exists {
		t.Error("Exists should be true after writes")
	}
	if !record.CreationBlocked {
		t.Error("CreationBlocked should be set")
	}
	if record.PublishingBlocked {
		t.Error("PublishingBlocked should stay unset")
	}
	if record.CooldownUntil != until.Unix() {
		t.Errorf("CooldownUntil = %d, want %d", record.CooldownUntil, until.Unix())
	}

	if err := repo.SetCreationBlocked(ctx, "c1", false); err != nil {
		t.Fatalf("clear SetCreationBlocked: %v", err)
	}
	if err := repo.SetCooldown(ctx, "c1", time.Time{}); err != nil {
		t.Fatalf("clear SetCooldown: %v", err)
	}

	record, err = repo.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.CreationBlocked || record.CooldownUntil != 0 {
		t.Errorf("cleared record = %+v", record)
	}
}

func TestControlRepoRequiresCreatorID(t *testing.T) {
	repo := newTestControlRepo(t)

	if _, err := repo.Get(context.Background(), " "); err == nil {
		t.Error("expected error for blank creator id")
	}
	if err := repo.SetPublishingBlocked(context.Background(), "", true); err == nil {
		t.Error("expected error for blank creator id")
	}
}
