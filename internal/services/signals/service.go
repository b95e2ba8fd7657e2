package signals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
	pgrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type ReportStore interface {
	ListOpenByTargets(ctx context.Context, targets []model.Target) ([]pgrepo.OpenReportRecord, error)
}

// Summary aggregates the open reports on one target. It is recomputed
// from live rows on every call and never cached.
type Summary struct {
	OpenReports     int                `json:"open_reports"`
	UniqueReporters int                `json:"unique_reporters"`
	LatestReportAt  *time.Time         `json:"latest_report_at,omitempty"`
	TopReasons      []ReasonCount      `json:"top_reasons,omitempty"`
	PriorityScore   int                `json:"priority_score"`
	PriorityTier    enums.PriorityTier `json:"priority_tier"`
}

func EmptySummary() Summary {
	return Summary{PriorityTier: enums.PriorityTierNone}
}

type Service struct {
	reports ReportStore
}

func NewService(reports ReportStore) *Service {
	return &Service{reports: reports}
}

// Summaries computes one Summary per requested target. Duplicate targets
// are collapsed before querying, and targets with no open reports still
// get an explicit zero summary so callers treat absence and zero alike.
func (s *Service) Summaries(ctx context.Context, targets []model.Target) (map[string]Summary, error) {
	if s.reports == nil {
		return nil, fmt.Errorf("report store is nil")
	}

	deduped := dedupeTargets(targets)
	result := make(map[string]Summary, len(deduped))
	for _, target := range deduped {
		result[target.Key()] = EmptySummary()
	}
	if len(deduped) == 0 {
		return result, nil
	}

	rows, err := s.reports.ListOpenByTargets(ctx, deduped)
	if err != nil {
		return nil, fmt.Errorf("list open reports: %w", err)
	}

	for key, acc := range fold(rows) {
		result[key] = acc.summary()
	}

	return result, nil
}

// Summary computes the signal summary for a single target.
func (s *Service) Summary(ctx context.Context, target model.Target) (Summary, error) {
	if target.ID == "" {
		return Summary{}, ErrValidation
	}

	summaries, err := s.Summaries(ctx, []model.Target{target})
	if err != nil {
		return Summary{}, err
	}
	return summaries[target.Key()], nil
}

type accumulator struct {
	openReports  int
	reporters    map[string]struct{}
	latestReport time.Time
	reasonCounts map[enums.ReportReason]int
}

func fold(rows []pgrepo.OpenReportRecord) map[string]*accumulator {
	accs := make(map[string]*accumulator)
	for _, row := range rows {
		key := row.Target.Key()
		acc, ok := accs[key]
		if !ok {
			acc = &accumulator{
				reporters:    make(map[string]struct{}),
				reasonCounts: make(map[enums.ReportReason]int),
			}
			accs[key] = acc
		}

		acc.openReports++
		acc.reporters[row.ReporterID] = struct{}{}
		acc.reasonCounts[row.Reason]++
		if row.CreatedAt.After(acc.latestReport) {
			acc.latestReport = row.CreatedAt
		}
	}
	return accs
}

func (a *accumulator) summary() Summary {
	topReasons := TopReasons(a.reasonCounts)
	score := Score(a.openReports, len(a.reporters), HighestWeight(topReasons))

	summary := Summary{
		OpenReports:     a.openReports,
		UniqueReporters: len(a.reporters),
		TopReasons:      topReasons,
		PriorityScore:   score,
		PriorityTier:    TierForScore(score),
	}
	if !a.latestReport.IsZero() {
		latest := a.latestReport
		summary.LatestReportAt = &latest
	}
	return summary
}

func dedupeTargets(targets []model.Target) []model.Target {
	seen := make(map[string]struct{}, len(targets))
	deduped := make([]model.Target, 0, len(targets))
	for _, target := range targets {
		if target.ID == "" {
			continue
		}
		key := target.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, target)
	}
	return deduped
}
