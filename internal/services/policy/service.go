package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
	pgrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/postgres"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/signals"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type RecommendedAction string

const (
	ActionNone     RecommendedAction = "none"
	ActionReview   RecommendedAction = "review"
	ActionRestrict RecommendedAction = "restrict"
	ActionHide     RecommendedAction = "hide"
)

type Escalation string

const (
	EscalationNone     Escalation = "none"
	EscalationWatch    Escalation = "watch"
	EscalationUrgent   Escalation = "urgent"
	EscalationCritical Escalation = "critical"
)

// Blocked-reason codes, ordered by check precedence. The feature flag is
// the outermost gate and wins over every other code.
const (
	BlockedAutoHideDisabled       = "auto_hide_disabled"
	BlockedActionNotHide          = "recommended_action_not_hide"
	BlockedAlreadyModerated       = "already_moderated"
	BlockedPriorityBelowThreshold = "priority_below_threshold"
	BlockedNotEnoughUniqueReports = "not_enough_unique_reporters"
	BlockedReasonNotAllowed       = "reason_not_allowed"
	BlockedAutoHideActorMissing   = "auto_hide_actor_missing"
)

var highRiskReasons = map[enums.ReportReason]struct{}{
	enums.ReportReasonScam:     {},
	enums.ReportReasonHate:     {},
	enums.ReportReasonSexual:   {},
	enums.ReportReasonViolence: {},
}

type Config struct {
	AutoHideEnabled    bool
	AutoHideActorID    string
	MinPriorityTier    enums.PriorityTier
	MinUniqueReporters int
	AllowedReasons     []enums.ReportReason
}

func DefaultConfig() Config {
	return Config{
		AutoHideEnabled:    false,
		MinPriorityTier:    enums.PriorityTierCritical,
		MinUniqueReporters: 3,
		AllowedReasons: []enums.ReportReason{
			enums.ReportReasonScam,
			enums.ReportReasonHate,
			enums.ReportReasonSexual,
			enums.ReportReasonViolence,
		},
	}
}

type Thresholds struct {
	MinPriorityTier    enums.PriorityTier   `json:"min_priority_tier"`
	MinUniqueReporters int                  `json:"min_unique_reporters"`
	AllowedReasons     []enums.ReportReason `json:"allowed_reasons"`
}

type Signals struct {
	RecommendedAction       RecommendedAction    `json:"recommended_action"`
	Escalation              Escalation           `json:"escalation"`
	AutomationEligible      bool                 `json:"automation_eligible"`
	AutomationBlockedReason string               `json:"automation_blocked_reason,omitempty"`
	MatchedReasons          []enums.ReportReason `json:"matched_reasons,omitempty"`
	Thresholds              Thresholds           `json:"thresholds"`
}

type Evaluation struct {
	ModerationStatus enums.ModerationStatus `json:"moderation_status"`
	ReportSignals    signals.Summary        `json:"report_signals"`
	PolicySignals    Signals                `json:"policy_signals"`
}

type ContentStore interface {
	FindByID(ctx context.Context, id string) (model.Content, error)
}

type SignalSource interface {
	Summary(ctx context.Context, target model.Target) (signals.Summary, error)
}

type Service struct {
	stores  map[enums.ContentKind]ContentStore
	signals SignalSource
	cfg     Config
}

// NewService builds an engine bound to one configuration snapshot. The
// config is plain data injected at wiring time, never read from the
// environment inside an evaluation.
func NewService(stores map[enums.ContentKind]ContentStore, signalSource SignalSource, cfg Config) *Service {
	if cfg.MinPriorityTier == "" {
		cfg.MinPriorityTier = enums.PriorityTierCritical
	}
	if cfg.MinUniqueReporters <= 0 {
		cfg.MinUniqueReporters = 3
	}
	if len(cfg.AllowedReasons) == 0 {
		cfg.AllowedReasons = DefaultConfig().AllowedReasons
	}

	return &Service{
		stores:  stores,
		signals: signalSource,
		cfg:     cfg,
	}
}

func (s *Service) Evaluate(ctx context.Context, target model.Target) (Evaluation, error) {
	if strings.TrimSpace(target.ID) == "" {
		return Evaluation{}, ErrValidation
	}
	if s.signals == nil {
		return Evaluation{}, fmt.Errorf("policy engine dependencies are not configured")
	}

	store, ok := s.stores[target.Kind]
	if !ok {
		return Evaluation{}, fmt.Errorf("%w: unknown content kind %q", ErrValidation, target.Kind)
	}

	content, err := store.FindByID(ctx, target.ID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrContentNotFound) {
			return Evaluation{}, ErrNotFound
		}
		return Evaluation{}, err
	}

	summary, err := s.signals.Summary(ctx, target)
	if err != nil {
		return Evaluation{}, err
	}

	action, escalation := recommend(summary)
	matched := matchedReasons(summary)

	sig := Signals{
		RecommendedAction: action,
		Escalation:        escalation,
		MatchedReasons:    matched,
		Thresholds: Thresholds{
			MinPriorityTier:    s.cfg.MinPriorityTier,
			MinUniqueReporters: s.cfg.MinUniqueReporters,
			AllowedReasons:     s.cfg.AllowedReasons,
		},
	}
	sig.AutomationEligible, sig.AutomationBlockedReason = s.eligibility(content.ModerationStatus, summary, action, matched)

	return Evaluation{
		ModerationStatus: content.ModerationStatus,
		ReportSignals:    summary,
		PolicySignals:    sig,
	}, nil
}

func recommend(summary signals.Summary) (RecommendedAction, Escalation) {
	if summary.OpenReports == 0 {
		return ActionNone, EscalationNone
	}

	if summary.PriorityTier == enums.PriorityTierCritical ||
		(hasHighRiskReason(summary) && summary.UniqueReporters >= 2) {
		return ActionHide, EscalationCritical
	}

	switch summary.PriorityTier {
	case enums.PriorityTierHigh:
		return ActionHide, EscalationUrgent
	case enums.PriorityTierMedium:
		return ActionRestrict, EscalationUrgent
	default:
		return ActionReview, EscalationWatch
	}
}

// eligibility applies the gate chain in precedence order; the first
// failing check supplies the blocked reason.
func (s *Service) eligibility(status enums.ModerationStatus, summary signals.Summary, action RecommendedAction, matched []enums.ReportReason) (bool, string) {
	if !s.cfg.AutoHideEnabled {
		return false, BlockedAutoHideDisabled
	}
	if action != ActionHide {
		return false, BlockedActionNotHide
	}
	if status != enums.ModerationStatusVisible {
		return false, BlockedAlreadyModerated
	}
	if !summary.PriorityTier.AtLeast(s.cfg.MinPriorityTier) {
		return false, BlockedPriorityBelowThreshold
	}
	if summary.UniqueReporters < s.cfg.MinUniqueReporters {
		return false, BlockedNotEnoughUniqueReports
	}
	if !anyReasonAllowed(matched, s.cfg.AllowedReasons) {
		return false, BlockedReasonNotAllowed
	}
	if strings.TrimSpace(s.cfg.AutoHideActorID) == "" {
		return false, BlockedAutoHideActorMissing
	}
	return true, ""
}

func matchedReasons(summary signals.Summary) []enums.ReportReason {
	if len(summary.TopReasons) == 0 {
		return nil
	}
	reasons := make([]enums.ReportReason, 0, len(summary.TopReasons))
	for _, rc := range summary.TopReasons {
		reasons = append(reasons, rc.Reason)
	}
	return reasons
}

func hasHighRiskReason(summary signals.Summary) bool {
	for _, rc := range summary.TopReasons {
		if _, ok := highRiskReasons[rc.Reason]; ok {
			return true
		}
	}
	return false
}

func anyReasonAllowed(matched, allowed []enums.ReportReason) bool {
	for _, reason := range matched {
		for _, candidate := range allowed {
			if reason == candidate {
				return true
			}
		}
	}
	return false
}
