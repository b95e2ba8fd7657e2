package modqueue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
)

type BulkItemOutcome struct {
	Kind       enums.ContentKind      `json:"kind"`
	ID         string                 `json:"id"`
	Success    bool                   `json:"success"`
	Changed    bool                   `json:"changed,omitempty"`
	FromStatus enums.ModerationStatus `json:"from_status,omitempty"`
	ToStatus   enums.ModerationStatus `json:"to_status,omitempty"`
	Error      string                 `json:"error,omitempty"`
	StatusCode int                    `json:"status_code,omitempty"`
}

type BulkSummary struct {
	Requested int `json:"requested"`
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Changed   int `json:"changed"`
}

type BulkGuardrails struct {
	MaxItems          int  `json:"max_items"`
	ConfirmThreshold  int  `json:"confirm_threshold"`
	ConfirmApplied    bool `json:"confirm_applied"`
	DuplicatesSkipped int  `json:"duplicates_skipped"`
}

type BulkResult struct {
	Items      []BulkItemOutcome `json:"items"`
	Summary    BulkSummary       `json:"summary"`
	Guardrails BulkGuardrails    `json:"guardrails"`
}

// BulkModerate applies one action to many targets, best effort. Guardrail
// violations (malformed item, size cap, missing confirmation) reject the
// whole batch before any mutation; after that gate a single item's failure
// never aborts its siblings. Items run sequentially so the audit ledger
// stays strictly ordered.
func (s *Service) BulkModerate(ctx context.Context, actorID string, action enums.ModerationAction, reasonText string, note *string, confirm bool, items []model.Target) (BulkResult, error) {
	if strings.TrimSpace(actorID) == "" {
		return BulkResult{}, fmt.Errorf("%w: actor id is required", ErrValidation)
	}
	if len(items) == 0 {
		return BulkResult{}, fmt.Errorf("%w: items are required", ErrValidation)
	}
	if len(items) > s.cfg.MaxBulkItems {
		return BulkResult{}, fmt.Errorf("%w: bulk moderation accepts at most %d items", ErrValidation, s.cfg.MaxBulkItems)
	}
	for _, item := range items {
		if err := s.validateModeration(actorID, item, action, reasonText); err != nil {
			return BulkResult{}, err
		}
	}

	deduped := dedupeBulkItems(items)
	duplicatesSkipped := len(items) - len(deduped)

	if len(deduped) >= s.cfg.BulkConfirmThreshold && !confirm {
		return BulkResult{}, fmt.Errorf("%w: batches of %d or more items require confirm=true", ErrValidation, s.cfg.BulkConfirmThreshold)
	}

	result := BulkResult{
		Items: make([]BulkItemOutcome, 0, len(deduped)),
		Summary: BulkSummary{
			Requested: len(items),
			Processed: len(deduped),
		},
		Guardrails: BulkGuardrails{
			MaxItems:          s.cfg.MaxBulkItems,
			ConfirmThreshold:  s.cfg.BulkConfirmThreshold,
			ConfirmApplied:    confirm,
			DuplicatesSkipped: duplicatesSkipped,
		},
	}

	for _, target := range deduped {
		outcome := BulkItemOutcome{Kind: target.Kind, ID: target.ID}

		applied, err := s.Moderate(ctx, actorID, target, action, reasonText, note)
		if err != nil {
			outcome.Error = err.Error()
			outcome.StatusCode = statusCodeFor(err)
			result.Summary.Failed++
		} else {
			outcome.Success = true
			outcome.Changed = applied.Changed
			outcome.FromStatus = applied.FromStatus
			outcome.ToStatus = applied.ToStatus
			result.Summary.Succeeded++
			if applied.Changed {
				result.Summary.Changed++
			}
		}

		result.Items = append(result.Items, outcome)
	}

	return result, nil
}

func dedupeBulkItems(items []model.Target) []model.Target {
	seen := make(map[string]struct{}, len(items))
	deduped := make([]model.Target, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, item)
	}
	return deduped
}

func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrValidation):
		return 400
	default:
		return 500
	}
}
