package modqueue

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
)

func TestBulkModerateDedupes(t *testing.T) {
	f := newQueueFixture()
	a := f.addContent(enums.ContentKindArticle, model.Content{Title: "a"})
	b := f.addContent(enums.ContentKindVideo, model.Content{Title: "b"})

	result, err := f.service.BulkModerate(context.Background(), "mod-1", enums.ModerationActionHide, "spam", nil, false, []model.Target{a, b, a})
	if err != nil {
		t.Fatalf("BulkModerate: %v", err)
	}

	if result.Summary.Requested != 3 || result.Summary.Processed != 2 {
		t.Errorf("summary = %+v, want requested 3 processed 2", result.Summary)
	}
	if result.Guardrails.DuplicatesSkipped != 1 {
		t.Errorf("DuplicatesSkipped = %d, want 1", result.Guardrails.DuplicatesSkipped)
	}
	if result.Summary.Succeeded != 2 || result.Summary.Changed != 2 {
		t.Errorf("summary = %+v, want 2 succeeded and changed", result.Summary)
	}
	if len(f.events.events) != 2 {
		t.Errorf("got %d ledger events, want one per deduped item", len(f.events.events))
	}
}

func TestBulkModerateRejectsOversizedBatch(t *testing.T) {
	f := newQueueFixture()

	items := make([]model.Target, 51)
	for i := range items {
		items[i] = model.Target{Kind: enums.ContentKindArticle, ID: uuid.NewString()}
	}

	_, err := f.service.BulkModerate(context.Background(), "mod-1", enums.ModerationActionHide, "spam", nil, true, items)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation for >50 items", err)
	}
	if len(f.events.events) != 0 {
		t.Error("rejected batch must not mutate anything")
	}
}

func TestBulkModerateConfirmThreshold(t *testing.T) {
	f := newQueueFixture()

	items := make([]model.Target, 10)
	for i := range items {
		items[i] = f.addContent(enums.ContentKindArticle, model.Content{Title: "x"})
	}

	_, err := f.service.BulkModerate(context.Background(), "mod-1", enums.ModerationActionHide, "spam", nil, false, items)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation without confirm", err)
	}

	result, err := f.service.BulkModerate(context.Background(), "mod-1", enums.ModerationActionHide, "spam", nil, true, items)
	if err != nil {
		t.Fatalf("BulkModerate with confirm: %v", err)
	}
	if result.Summary.Succeeded != 10 {
		t.Errorf("Succeeded = %d, want 10", result.Summary.Succeeded)
	}
	if !result.Guardrails.ConfirmApplied {
		t.Error("ConfirmApplied should be true")
	}
}

// Nine duplicated targets dedupe to a batch below the confirm threshold,
// so no confirmation is required.
func TestBulkModerateConfirmCountsDeduped(t *testing.T) {
	f := newQueueFixture()

	a := f.addContent(enums.ContentKindArticle, model.Content{Title: "a"})
	items := []model.Target{a, a, a, a, a, a, a, a, a, a}

	result, err := f.service.BulkModerate(context.Background(), "mod-1", enums.ModerationActionHide, "spam", nil, false, items)
	if err != nil {
		t.Fatalf("BulkModerate: %v", err)
	}
	if result.Summary.Processed != 1 {
		t.Errorf("Processed = %d, want 1", result.Summary.Processed)
	}
}

func TestBulkModeratePartialFailure(t *testing.T) {
	f := newQueueFixture()
	a := f.addContent(enums.ContentKindArticle, model.Content{Title: "a"})
	missing := model.Target{Kind: enums.ContentKindVideo, ID: uuid.NewString()}
	b := f.addContent(enums.ContentKindBook, model.Content{Title: "b"})

	result, err := f.service.BulkModerate(context.Background(), "mod-1", enums.ModerationActionHide, "spam", nil, false, []model.Target{a, missing, b})
	if err != nil {
		t.Fatalf("BulkModerate: %v", err)
	}

	if result.Summary.Succeeded != 2 || result.Summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 2 succeeded 1 failed", result.Summary)
	}

	var failed *BulkItemOutcome
	for i := range result.Items {
		if !result.Items[i].Success {
			failed = &result.Items[i]
		}
	}
	if failed == nil {
		t.Fatal("expected one failed outcome")
	}
	if failed.ID != missing.ID {
		t.Errorf("failed item = %s, want the missing target", failed.ID)
	}
	if failed.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", failed.StatusCode)
	}
	if failed.Error == "" {
		t.Error("failed outcome should carry the error message")
	}
}

// A malformed item rejects the whole batch before anything is applied.
func TestBulkModerateValidationGate(t *testing.T) {
	f := newQueueFixture()
	a := f.addContent(enums.ContentKindArticle, model.Content{Title: "a"})
	bad := model.Target{Kind: enums.ContentKindArticle, ID: "not-a-uuid"}

	_, err := f.service.BulkModerate(context.Background(), "mod-1", enums.ModerationActionHide, "spam", nil, false, []model.Target{a, bad})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(f.events.events) != 0 {
		t.Error("gated batch must not write ledger events")
	}

	stored, _ := f.stores[enums.ContentKindArticle].FindByID(context.Background(), a.ID)
	if stored.ModerationStatus != enums.ModerationStatusVisible {
		t.Errorf("valid sibling was mutated to %s", stored.ModerationStatus)
	}
}

func TestBulkModerateEmptyItems(t *testing.T) {
	f := newQueueFixture()
	_, err := f.service.BulkModerate(context.Background(), "mod-1", enums.ModerationActionHide, "spam", nil, false, nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation for empty batch", err)
	}
}
