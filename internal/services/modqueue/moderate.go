package modqueue

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

type ModerationOutcome struct {
	Changed         bool                   `json:"changed"`
	FromStatus      enums.ModerationStatus `json:"from_status"`
	ToStatus        enums.ModerationStatus `json:"to_status"`
	ResolvedReports int64                  `json:"resolved_reports"`
	Item            QueueItem              `json:"content"`
}

// Moderate applies one action to one target: mutates the content, resolves
// its open reports and appends exactly one ledger event. A redundant call
// with identical values reports changed=false but is still recorded.
func (s *Service) Moderate(ctx context.Context, actorID string, target model.Target, action enums.ModerationAction, reasonText string, note *string) (ModerationOutcome, error) {
	if err := s.validateModeration(actorID, target, action, reasonText); err != nil {
		return ModerationOutcome{}, err
	}
	if s.reports == nil || s.events == nil || s.signals == nil {
		return ModerationOutcome{}, fmt.Errorf("moderation queue dependencies are not configured")
	}

	store := s.stores[target.Kind]
	content, err := store.FindByID(ctx, target.ID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrContentNotFound) {
			return ModerationOutcome{}, fmt.Errorf("%w: %s %s", ErrNotFound, target.Kind, target.ID)
		}
		return ModerationOutcome{}, err
	}

	fromStatus := content.ModerationStatus
	if fromStatus == "" {
		fromStatus = enums.ModerationStatusVisible
	}
	toStatus := action.TargetStatus()

	reasonText = strings.TrimSpace(reasonText)
	changed := fromStatus != toStatus ||
		!stringPtrEqual(content.ModerationReason, optionalString(reasonText)) ||
		!stringPtrEqual(content.ModerationNote, note)

	now := s.now().UTC()
	content.ModerationStatus = toStatus
	content.ModerationReason = optionalString(reasonText)
	content.ModerationNote = note
	content.ModeratedBy = &actorID
	content.ModeratedAt = &now

	if err := store.SaveModeration(ctx, content); err != nil {
		if errors.Is(err, pgrepo.ErrContentNotFound) {
			return ModerationOutcome{}, fmt.Errorf("%w: %s %s", ErrNotFound, target.Kind, target.ID)
		}
		return ModerationOutcome{}, err
	}

	resolved, err := s.reports.MarkOpenReviewed(ctx, target, actorID, action)
	if err != nil {
		return ModerationOutcome{}, fmt.Errorf("resolve open reports: %w", err)
	}

	event := model.ModerationEvent{
		ID:         uuid.NewString(),
		TargetKind: target.Kind,
		TargetID:   target.ID,
		ActorID:    actorID,
		Action:     action,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		ReasonText: reasonText,
		Note:       note,
		Metadata: map[string]any{
			"changed":          changed,
			"resolved_reports": resolved,
		},
		CreatedAt: now,
	}
	if err := s.events.Append(ctx, event); err != nil {
		return ModerationOutcome{}, fmt.Errorf("append moderation event: %w", err)
	}

	summaries, err := s.signals.Summaries(ctx, []model.Target{target})
	if err != nil {
		return ModerationOutcome{}, err
	}

	return ModerationOutcome{
		Changed:         changed,
		FromStatus:      fromStatus,
		ToStatus:        toStatus,
		ResolvedReports: resolved,
		Item:            buildQueueItem(content, summaries[target.Key()]),
	}, nil
}

// FastHide is a time-pressured preventive hide with a stock reason when
// the operator supplies none.
func (s *Service) FastHide(ctx context.Context, actorID string, target model.Target, note *string, reasonText string) (ModerationOutcome, error) {
	if strings.TrimSpace(reasonText) == "" {
		reasonText = fastHideReason
	}
	return s.Moderate(ctx, actorID, target, enums.ModerationActionHide, reasonText, note)
}

type HistoryResult struct {
	Items []model.ModerationEvent `json:"items"`
	Page  Page                    `json:"pagination"`
}

func (s *Service) History(ctx context.Context, target model.Target, limit, offset int) (HistoryResult, error) {
	if err := validateTarget(target); err != nil {
		return HistoryResult{}, err
	}
	if _, ok := s.stores[target.Kind]; !ok {
		return HistoryResult{}, fmt.Errorf("%w: unknown content kind %q", ErrValidation, target.Kind)
	}
	if s.events == nil {
		return HistoryResult{}, fmt.Errorf("moderation queue dependencies are not configured")
	}

	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.events.ListByTarget(ctx, target, limit, offset)
	if err != nil {
		return HistoryResult{}, err
	}
	total, err := s.events.CountByTarget(ctx, target)
	if err != nil {
		return HistoryResult{}, err
	}

	return HistoryResult{
		Items: items,
		Page:  Page{Limit: limit, Offset: offset, Total: total},
	}, nil
}

func (s *Service) validateModeration(actorID string, target model.Target, action enums.ModerationAction, reasonText string) error {
	if strings.TrimSpace(actorID) == "" {
		return fmt.Errorf("%w: actor id is required", ErrValidation)
	}
	if err := validateTarget(target); err != nil {
		return err
	}
	if _, ok := s.stores[target.Kind]; !ok {
		return fmt.Errorf("%w: unknown content kind %q", ErrValidation, target.Kind)
	}
	switch action {
	case enums.ModerationActionHide, enums.ModerationActionRestrict:
		if strings.TrimSpace(reasonText) == "" {
			return fmt.Errorf("%w: reason text is required", ErrValidation)
		}
	case enums.ModerationActionUnhide:
	default:
		return fmt.Errorf("%w: unknown moderation action %q", ErrValidation, action)
	}
	return nil
}

func validateTarget(target model.Target) error {
	if _, err := enums.ParseContentKind(string(target.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if uuid.Validate(target.ID) != nil {
		return fmt.Errorf("%w: invalid content id %q", ErrValidation, target.ID)
	}
	return nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
