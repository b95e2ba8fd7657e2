package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
	pgrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	// ErrConflict covers invariant violations such as reporting your own content.
	ErrConflict = errors.New("conflict")
)

const maxNoteLength = 500

type ContentStore interface {
	FindByID(ctx context.Context, id string) (model.Content, error)
}

type ReportStore interface {
	Upsert(ctx context.Context, reporterID string, target model.Target, reason enums.ReportReason, note *string) error
	ListByReporter(ctx context.Context, reporterID string, limit, offset int) ([]model.Report, error)
}

type Service struct {
	stores  map[enums.ContentKind]ContentStore
	reports ReportStore
}

func NewService(stores map[enums.ContentKind]ContentStore, reports ReportStore) *Service {
	return &Service{stores: stores, reports: reports}
}

// Submit files the reporter's report against the target. Re-reporting the
// same target updates the existing report and reopens it.
func (s *Service) Submit(ctx context.Context, reporterID string, target model.Target, reason enums.ReportReason, note *string) error {
	if strings.TrimSpace(reporterID) == "" {
		return fmt.Errorf("%w: reporter id is required", ErrValidation)
	}
	if _, err := enums.ParseContentKind(string(target.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if uuid.Validate(target.ID) != nil {
		return fmt.Errorf("%w: invalid content id %q", ErrValidation, target.ID)
	}
	if _, err := enums.ParseReportReason(string(reason)); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if note != nil && len(*note) > maxNoteLength {
		return fmt.Errorf("%w: note exceeds %d characters", ErrValidation, maxNoteLength)
	}
	if s.reports == nil {
		return fmt.Errorf("report service dependencies are not configured")
	}

	store, ok := s.stores[target.Kind]
	if !ok {
		return fmt.Errorf("%w: unknown content kind %q", ErrValidation, target.Kind)
	}

	content, err := store.FindByID(ctx, target.ID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrContentNotFound) {
			return fmt.Errorf("%w: %s %s", ErrNotFound, target.Kind, target.ID)
		}
		return err
	}
	if content.OwnerID == reporterID {
		return fmt.Errorf("%w: cannot report own content", ErrConflict)
	}

	if err := s.reports.Upsert(ctx, reporterID, target, reason, note); err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}

	return nil
}

func (s *Service) ListMine(ctx context.Context, reporterID string, limit, offset int) ([]model.Report, error) {
	if strings.TrimSpace(reporterID) == "" {
		return nil, fmt.Errorf("%w: reporter id is required", ErrValidation)
	}
	if s.reports == nil {
		return nil, fmt.Errorf("report service dependencies are not configured")
	}

	return s.reports.ListByReporter(ctx, reporterID, limit, offset)
}
