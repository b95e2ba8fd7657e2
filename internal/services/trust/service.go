package trust

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
	pgrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/postgres"
	redrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/redis"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/signals"
)

var ErrValidation = errors.New("validation error")

const (
	defaultLookbackDays = 30
	maxReasons          = 4
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type Action string

const (
	ActionNone            Action = "none"
	ActionReview          Action = "review"
	ActionSetCooldown     Action = "set_cooldown"
	ActionBlockPublishing Action = "block_publishing"
	ActionSuspendOps      Action = "suspend_creator_ops"
)

const (
	FlagCreationBlocked   = "creation_blocked"
	FlagPublishingBlocked = "publishing_blocked"
	FlagCooldownActive    = "cooldown_active"
)

type ContentStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Content, error)
}

type SignalSource interface {
	Summaries(ctx context.Context, targets []model.Target) (map[string]signals.Summary, error)
}

type EventStore interface {
	ListByTargetsSince(ctx context.Context, targets []model.Target, since time.Time) ([]pgrepo.EventActionRecord, error)
}

type ControlStore interface {
	Get(ctx context.Context, creatorID string) (redrepo.ControlRecord, error)
}

type ControlHistory interface {
	CountForCreatorSince(ctx context.Context, creatorID string, since time.Time) (int, error)
}

type CreatorStore interface {
	FilterCreatorIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
}

type Config struct {
	LookbackDays int
}

type SummaryCounts struct {
	TotalItems              int `json:"total_items"`
	VisibleItems            int `json:"visible_items"`
	HiddenItems             int `json:"hidden_items"`
	RestrictedItems         int `json:"restricted_items"`
	OpenReports             int `json:"open_reports"`
	HighPriorityTargets     int `json:"high_priority_targets"`
	CriticalTargets         int `json:"critical_targets"`
	RecentModerationActions int `json:"recent_moderation_actions"`
	RepeatModerationTargets int `json:"repeat_moderation_targets"`
	RecentControlActions    int `json:"recent_control_actions"`
}

// Signals is the derived trust profile for one creator. It is computed
// fresh per request and never persisted.
type Signals struct {
	TrustScore        int           `json:"trust_score"`
	RiskLevel         RiskLevel     `json:"risk_level"`
	RecommendedAction Action        `json:"recommended_action"`
	Summary           SummaryCounts `json:"summary"`
	Flags             []string      `json:"flags,omitempty"`
	Reasons           []string      `json:"reasons,omitempty"`
}

type Service struct {
	stores         map[enums.ContentKind]ContentStore
	signals        SignalSource
	events         EventStore
	controls       ControlStore
	controlHistory ControlHistory
	creators       CreatorStore
	cfg            Config
	now            func() time.Time
}

func NewService(
	stores map[enums.ContentKind]ContentStore,
	signalSource SignalSource,
	events EventStore,
	controls ControlStore,
	controlHistory ControlHistory,
	creators CreatorStore,
	cfg Config,
) *Service {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = defaultLookbackDays
	}

	return &Service{
		stores:         stores,
		signals:        signalSource,
		events:         events,
		controls:       controls,
		controlHistory: controlHistory,
		creators:       creators,
		cfg:            cfg,
		now:            time.Now,
	}
}

// ScoreCreators computes trust signals for every known creator among the
// requested ids. Unknown and non-creator identities are omitted silently.
func (s *Service) ScoreCreators(ctx context.Context, creatorIDs []string) (map[string]Signals, error) {
	if s.signals == nil || s.events == nil || s.creators == nil {
		return nil, fmt.Errorf("trust scorer dependencies are not configured")
	}

	deduped := dedupeIDs(creatorIDs)
	if len(deduped) == 0 {
		return map[string]Signals{}, nil
	}

	known, err := s.creators.FilterCreatorIDs(ctx, deduped)
	if err != nil {
		return nil, fmt.Errorf("filter creators: %w", err)
	}

	result := make(map[string]Signals, len(known))
	for _, creatorID := range deduped {
		if _, ok := known[creatorID]; !ok {
			continue
		}
		sig, err := s.scoreOne(ctx, creatorID)
		if err != nil {
			return nil, fmt.Errorf("score creator %s: %w", creatorID, err)
		}
		result[creatorID] = sig
	}

	return result, nil
}

func (s *Service) scoreOne(ctx context.Context, creatorID string) (Signals, error) {
	owned, err := s.gatherOwned(ctx, creatorID)
	if err != nil {
		return Signals{}, err
	}

	counts := SummaryCounts{TotalItems: len(owned)}
	targets := make([]model.Target, 0, len(owned))
	for _, content := range owned {
		targets = append(targets, content.Target())
		switch content.ModerationStatus {
		case enums.ModerationStatusHidden:
			counts.HiddenItems++
		case enums.ModerationStatusRestricted:
			counts.RestrictedItems++
		default:
			counts.VisibleItems++
		}
	}

	summaries, err := s.signals.Summaries(ctx, targets)
	if err != nil {
		return Signals{}, err
	}

	reasonCounts := make(map[enums.ReportReason]int)
	for _, summary := range summaries {
		counts.OpenReports += summary.OpenReports
		if summary.PriorityTier == enums.PriorityTierCritical {
			counts.CriticalTargets++
		}
		if summary.PriorityTier.AtLeast(enums.PriorityTierHigh) {
			counts.HighPriorityTargets++
		}
		for _, rc := range summary.TopReasons {
			reasonCounts[rc.Reason] += rc.Count
		}
	}

	since := s.now().UTC().AddDate(0, 0, -s.cfg.LookbackDays)
	events, err := s.events.ListByTargetsSince(ctx, targets, since)
	if err != nil {
		return Signals{}, err
	}
	counts.RecentModerationActions = len(events)
	perTarget := make(map[string]int)
	for _, event := range events {
		perTarget[event.Target.Key()]++
	}
	for _, n := range perTarget {
		if n > 1 {
			counts.RepeatModerationTargets++
		}
	}

	var flags []string
	var record redrepo.ControlRecord
	if s.controls != nil {
		record, err = s.controls.Get(ctx, creatorID)
		if err != nil {
			return Signals{}, err
		}
		if record.CreationBlocked {
			flags = append(flags, FlagCreationBlocked)
		}
		if record.PublishingBlocked {
			flags = append(flags, FlagPublishingBlocked)
		}
		if record.CooldownUntil > s.now().UTC().Unix() {
			flags = append(flags, FlagCooldownActive)
		}
	}

	if s.controlHistory != nil {
		counts.RecentControlActions, err = s.controlHistory.CountForCreatorSince(ctx, creatorID, since)
		if err != nil {
			return Signals{}, err
		}
	}

	score := trustScore(counts, flags)
	risk := riskLevel(score, counts, flags)

	return Signals{
		TrustScore:        score,
		RiskLevel:         risk,
		RecommendedAction: recommendedAction(risk, counts, flags),
		Summary:           counts,
		Flags:             flags,
		Reasons:           buildReasons(counts, flags, reasonCounts),
	}, nil
}

func (s *Service) gatherOwned(ctx context.Context, creatorID string) ([]model.Content, error) {
	kinds := make([]enums.ContentKind, 0, len(s.stores))
	for _, kind := range enums.AllContentKinds {
		if _, ok := s.stores[kind]; ok {
			kinds = append(kinds, kind)
		}
	}

	results := make([][]model.Content, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			items, err := s.stores[kind].ListByOwner(gctx, creatorID)
			if err != nil {
				return fmt.Errorf("list %s by owner: %w", kind, err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var owned []model.Content
	for _, items := range results {
		owned = append(owned, items...)
	}
	return owned, nil
}

func trustScore(counts SummaryCounts, flags []string) int {
	penalty := 2*counts.OpenReports +
		8*counts.HighPriorityTargets +
		14*counts.CriticalTargets +
		5*counts.HiddenItems +
		3*counts.RestrictedItems +
		2*counts.RecentModerationActions +
		8*counts.RepeatModerationTargets +
		4*counts.RecentControlActions
	if hasFlag(flags, FlagCreationBlocked) {
		penalty += 8
	}
	if hasFlag(flags, FlagPublishingBlocked) {
		penalty += 12
	}
	if hasFlag(flags, FlagCooldownActive) {
		penalty += 6
	}

	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// riskLevel evaluates the mapping rules top to bottom; the first match wins.
func riskLevel(score int, counts SummaryCounts, flags []string) RiskLevel {
	switch {
	case score <= 25 || counts.CriticalTargets >= 2:
		return RiskCritical
	case score <= 50 || counts.CriticalTargets >= 1 || counts.HiddenItems >= 2:
		return RiskHigh
	case score <= 75 || counts.HighPriorityTargets >= 1 || counts.RecentModerationActions >= 2 || len(flags) > 0:
		return RiskMedium
	default:
		return RiskLow
	}
}

func recommendedAction(risk RiskLevel, counts SummaryCounts, flags []string) Action {
	publishingBlocked := hasFlag(flags, FlagPublishingBlocked)

	switch {
	case risk == RiskCritical || (publishingBlocked && counts.CriticalTargets >= 1):
		return ActionSuspendOps
	case risk == RiskHigh || counts.HiddenItems >= 1 || publishingBlocked:
		return ActionBlockPublishing
	case risk == RiskMedium || hasFlag(flags, FlagCooldownActive) || hasFlag(flags, FlagCreationBlocked):
		return ActionSetCooldown
	case counts.OpenReports > 0 || counts.RestrictedItems > 0:
		return ActionReview
	default:
		return ActionNone
	}
}

// buildReasons assembles up to four operator-facing strings in a fixed
// priority order: critical targets, hidden items, repeat moderation,
// active flags, dominant reason codes.
func buildReasons(counts SummaryCounts, flags []string, reasonCounts map[enums.ReportReason]int) []string {
	var reasons []string

	if counts.CriticalTargets > 0 {
		reasons = append(reasons, fmt.Sprintf("%d item(s) with critical report priority", counts.CriticalTargets))
	}
	if counts.HiddenItems > 0 {
		reasons = append(reasons, fmt.Sprintf("%d item(s) hidden by moderation", counts.HiddenItems))
	}
	if counts.RepeatModerationTargets > 0 {
		reasons = append(reasons, fmt.Sprintf("%d item(s) moderated more than once recently", counts.RepeatModerationTargets))
	}
	if len(flags) > 0 {
		reasons = append(reasons, "active account controls: "+strings.Join(flags, ", "))
	}
	if dominant, ok := dominantReason(reasonCounts); ok {
		reasons = append(reasons, "open reports dominated by "+string(dominant))
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return reasons
}

func dominantReason(reasonCounts map[enums.ReportReason]int) (enums.ReportReason, bool) {
	if len(reasonCounts) == 0 {
		return "", false
	}

	reasons := make([]enums.ReportReason, 0, len(reasonCounts))
	for reason := range reasonCounts {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if reasonCounts[reasons[i]] != reasonCounts[reasons[j]] {
			return reasonCounts[reasons[i]] > reasonCounts[reasons[j]]
		}
		return reasons[i] < reasons[j]
	})

	return reasons[0], true
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	deduped := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}
	return deduped
}
