package reports

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
	pgrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/postgres"
)

type fakeContentStore struct {
	content model.Content
	err     error
}

func (f *fakeContentStore) FindByID(_ context.Context, _ string) (model.Content, error) {
	return f.content, f.err
}

type fakeReportStore struct {
	upserts int
	lastTgt model.Target
}

func (f *fakeReportStore) Upsert(_ context.Context, _ string, target model.Target, _ enums.ReportReason, _ *string) error {
	f.upserts++
	f.lastTgt = target
	return nil
}

func (f *fakeReportStore) ListByReporter(_ context.Context, _ string, _, _ int) ([]model.Report, error) {
	return nil, nil
}

func newReportsService(owner string, findErr error) (*Service, *fakeReportStore) {
	store := &fakeReportStore{}
	stores := map[enums.ContentKind]ContentStore{
		enums.ContentKindArticle: &fakeContentStore{
			content: model.Content{ID: "a1", Kind: enums.ContentKindArticle, OwnerID: owner},
			err:     findErr,
		},
	}
	return NewService(stores, store), store
}

func TestSubmit(t *testing.T) {
	svc, store := newReportsService("creator-1", nil)
	target := model.Target{Kind: enums.ContentKindArticle, ID: uuid.NewString()}

	if err := svc.Submit(context.Background(), "user-1", target, enums.ReportReasonSpam, nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if store.upserts != 1 {
		t.Errorf("upserts = %d, want 1", store.upserts)
	}
	if store.lastTgt != target {
		t.Errorf("upserted target = %+v, want %+v", store.lastTgt, target)
	}
}

func TestSubmitRejectsOwnContent(t *testing.T) {
	svc, store := newReportsService("user-1", nil)
	target := model.Target{Kind: enums.ContentKindArticle, ID: uuid.NewString()}

	err := svc.Submit(context.Background(), "user-1", target, enums.ReportReasonSpam, nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if store.upserts != 0 {
		t.Error("self-report must not be stored")
	}
}

func TestSubmitMissingContent(t *testing.T) {
	svc, _ := newReportsService("", pgrepo.ErrContentNotFound)
	target := model.Target{Kind: enums.ContentKindArticle, ID: uuid.NewString()}

	err := svc.Submit(context.Background(), "user-1", target, enums.ReportReasonSpam, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := newReportsService("creator-1", nil)
	validID := uuid.NewString()
	longNote := strings.Repeat("a", maxNoteLength+1)

	cases := []struct {
		name     string
		reporter string
		target   model.Target
		reason   enums.ReportReason
		note     *string
	}{
		{"empty reporter", "", model.Target{Kind: enums.ContentKindArticle, ID: validID}, enums.ReportReasonSpam, nil},
		{"bad kind", "u1", model.Target{Kind: "photo", ID: validID}, enums.ReportReasonSpam, nil},
		{"bad id", "u1", model.Target{Kind: enums.ContentKindArticle, ID: "nope"}, enums.ReportReasonSpam, nil},
		{"bad reason", "u1", model.Target{Kind: enums.ContentKindArticle, ID: validID}, "meh", nil},
		{"long note", "u1", model.Target{Kind: enums.ContentKindArticle, ID: validID}, enums.ReportReasonSpam, &longNote},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Submit(context.Background(), tc.reporter, tc.target, tc.reason, tc.note)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}
