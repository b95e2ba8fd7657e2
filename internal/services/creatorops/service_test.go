package creatorops

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/postgres"
	redrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/redis"
)

type fakeControlStore struct {
	record redrepo.ControlRecord
}

func (f *fakeControlStore) Get(_ context.Context, _ string) (redrepo.ControlRecord, error) {
	return f.record, nil
}

func (f *fakeControlStore) SetCreationBlocked(_ context.Context, _ string, blocked bool) error {
	f.record.CreationBlocked = blocked
	return nil
}

func (f *fakeControlStore) SetPublishingBlocked(_ context.Context, _ string, blocked bool) error {
	f.record.PublishingBlocked = blocked
	return nil
}

func (f *fakeControlStore) SetCooldown(_ context.Context, _ string, until time.Time) error {
	if until.IsZero() {
		f.record.CooldownUntil = 0
	} else {
		f.record.CooldownUntil = until.Unix()
	}
	return nil
}

type fakeHistory struct {
	events []pgrepo.ControlEventRecord
}

func (f *fakeHistory) Append(_ context.Context, rec pgrepo.ControlEventRecord) error {
	f.events = append(f.events, rec)
	return nil
}

type fakeCreators struct {
	known map[string]struct{}
}

func (f *fakeCreators) FilterCreatorIDs(_ context.Context, ids []string) (map[string]struct{}, error) {
	result := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := f.known[id]; ok {
			result[id] = struct{}{}
		}
	}
	return result, nil
}

func newOpsService() (*Service, *fakeControlStore, *fakeHistory) {
	controls := &fakeControlStore{}
	history := &fakeHistory{}
	svc := NewService(controls, history, &fakeCreators{known: map[string]struct{}{"c1": {}}})
	return svc, controls, history
}

func TestApplyControlFlipsFlagAndRecordsHistory(t *testing.T) {
	svc, controls, history := newOpsService()

	state, err := svc.ApplyControl(context.Background(), "admin-1", "c1", ControlPublishingBlocked, true)
	if err != nil {
		t.Fatalf("ApplyControl: %v", err)
	}
	if !state.PublishingBlocked {
		t.Error("PublishingBlocked should be true")
	}
	if !controls.record.PublishingBlocked {
		t.Error("store flag should be set")
	}

	if len(history.events) != 1 {
		t.Fatalf("got %d history events, want 1", len(history.events))
	}
	event := history.events[0]
	if event.CreatorID != "c1" || event.ActorID != "admin-1" || event.Control != ControlPublishingBlocked || !event.Enabled {
		t.Errorf("history event = %+v", event)
	}
}

func TestApplyControlCooldown(t *testing.T) {
	svc, controls, _ := newOpsService()

	state, err := svc.ApplyControl(context.Background(), "admin-1", "c1", ControlCooldown, true)
	if err != nil {
		t.Fatalf("ApplyControl: %v", err)
	}
	if state.CooldownUntil == nil {
		t.Fatal("CooldownUntil should be set")
	}
	wantMin := time.Now().UTC().Add(defaultCooldown - time.Minute)
	if state.CooldownUntil.Before(wantMin) {
		t.Errorf("CooldownUntil = %v, want ~%v ahead", state.CooldownUntil, defaultCooldown)
	}

	state, err = svc.ApplyControl(context.Background(), "admin-1", "c1", ControlCooldown, false)
	if err != nil {
		t.Fatalf("disable cooldown: %v", err)
	}
	if state.CooldownUntil != nil {
		t.Error("disabling the cooldown should clear the window")
	}
	if controls.record.CooldownUntil != 0 {
		t.Errorf("stored cooldown = %d, want 0", controls.record.CooldownUntil)
	}
}

func TestApplyControlValidation(t *testing.T) {
	svc, _, history := newOpsService()

	if _, err := svc.ApplyControl(context.Background(), "", "c1", ControlCreationBlocked, true); !errors.Is(err, ErrValidation) {
		t.Errorf("missing actor: err = %v, want ErrValidation", err)
	}
	if _, err := svc.ApplyControl(context.Background(), "admin-1", "c1", "freeze", true); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown control: err = %v, want ErrValidation", err)
	}
	if _, err := svc.ApplyControl(context.Background(), "admin-1", "ghost", ControlCreationBlocked, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown creator: err = %v, want ErrNotFound", err)
	}
	if len(history.events) != 0 {
		t.Error("failed applications must not append history")
	}
}

func TestGetStateExpiredCooldownHidden(t *testing.T) {
	svc, controls, _ := newOpsService()
	controls.record = redrepo.ControlRecord{CooldownUntil: time.Now().UTC().Add(-time.Hour).Unix(), Exists: true}

	state, err := svc.GetState(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state.CooldownUntil != nil {
		t.Error("expired cooldown should not surface")
	}
}
