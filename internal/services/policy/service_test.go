package policy

import (
	"context"
	"testing"
	"time"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
	pgrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/postgres"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/signals"
)

type fakeContentStore struct {
	content model.Content
	err     error
}

func (f *fakeContentStore) FindByID(_ context.Context, _ string) (model.Content, error) {
	return f.content, f.err
}

type fakeSignalSource struct {
	summary signals.Summary
}

func (f *fakeSignalSource) Summary(_ context.Context, _ model.Target) (signals.Summary, error) {
	return f.summary, nil
}

func summaryWith(open, reporters int, reasons ...enums.ReportReason) signals.Summary {
	counts := make(map[enums.ReportReason]int, len(reasons))
	for _, reason := range reasons {
		counts[reason]++
	}
	top := signals.TopReasons(counts)
	score := signals.Score(open, reporters, signals.HighestWeight(top))
	latest := time.Now().UTC()
	return signals.Summary{
		OpenReports:     open,
		UniqueReporters: reporters,
		LatestReportAt:  &latest,
		TopReasons:      top,
		PriorityScore:   score,
		PriorityTier:    signals.TierForScore(score),
	}
}

func newTestService(summary signals.Summary, status enums.ModerationStatus, cfg Config) *Service {
	stores := map[enums.ContentKind]ContentStore{
		enums.ContentKindArticle: &fakeContentStore{content: model.Content{
			ID:               "a1",
			Kind:             enums.ContentKindArticle,
			ModerationStatus: status,
		}},
	}
	return NewService(stores, &fakeSignalSource{summary: summary}, cfg)
}

func enabledConfig() Config {
	cfg := DefaultConfig()
	cfg.AutoHideEnabled = true
	cfg.AutoHideActorID = "system-moderator"
	return cfg
}

func TestRecommendations(t *testing.T) {
	cases := []struct {
		name           string
		summary        signals.Summary
		wantAction     RecommendedAction
		wantEscalation Escalation
	}{
		{"no reports", signals.Summary{PriorityTier: enums.PriorityTierNone}, ActionNone, EscalationNone},
		{"low tier single report", summaryWith(1, 1, enums.ReportReasonOther), ActionReview, EscalationWatch},
		{"medium tier", summaryWith(2, 2, enums.ReportReasonOther, enums.ReportReasonOther), ActionRestrict, EscalationUrgent},
		{"high tier", summaryWith(3, 3, enums.ReportReasonAbuse, enums.ReportReasonAbuse, enums.ReportReasonAbuse), ActionHide, EscalationUrgent},
		{"critical tier", summaryWith(4, 4, enums.ReportReasonScam, enums.ReportReasonScam, enums.ReportReasonScam, enums.ReportReasonScam), ActionHide, EscalationCritical},
		{"high risk reason with two reporters", summaryWith(2, 2, enums.ReportReasonScam, enums.ReportReasonScam), ActionHide, EscalationCritical},
		{"high risk reason single reporter", summaryWith(1, 1, enums.ReportReasonHate), ActionRestrict, EscalationUrgent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			action, escalation := recommend(tc.summary)
			if action != tc.wantAction {
				t.Errorf("action = %s, want %s", action, tc.wantAction)
			}
			if escalation != tc.wantEscalation {
				t.Errorf("escalation = %s, want %s", escalation, tc.wantEscalation)
			}
		})
	}
}

// Three scam reports from three reporters score 3+3+5=11 (high): hide is
// recommended, but the critical threshold blocks automation.
func TestEvaluateScamTripleReport(t *testing.T) {
	summary := summaryWith(3, 3, enums.ReportReasonScam, enums.ReportReasonScam, enums.ReportReasonScam)
	svc := newTestService(summary, enums.ModerationStatusVisible, enabledConfig())

	eval, err := svc.Evaluate(context.Background(), model.Target{Kind: enums.ContentKindArticle, ID: "a1"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if eval.ReportSignals.PriorityScore != 11 {
		t.Errorf("PriorityScore = %d, want 11", eval.ReportSignals.PriorityScore)
	}
	if eval.PolicySignals.RecommendedAction != ActionHide {
		t.Errorf("RecommendedAction = %s, want hide", eval.PolicySignals.RecommendedAction)
	}
	if eval.PolicySignals.AutomationEligible {
		t.Error("automation should be blocked below critical tier")
	}
	if eval.PolicySignals.AutomationBlockedReason != BlockedPriorityBelowThreshold {
		t.Errorf("blocked reason = %s, want %s", eval.PolicySignals.AutomationBlockedReason, BlockedPriorityBelowThreshold)
	}
}

func TestEligibilityChain(t *testing.T) {
	critical := summaryWith(4, 4, enums.ReportReasonScam, enums.ReportReasonScam, enums.ReportReasonScam, enums.ReportReasonScam)

	cases := []struct {
		name          string
		summary       signals.Summary
		status        enums.ModerationStatus
		mutate        func(*Config)
		wantEligible  bool
		wantBlockedBy string
	}{
		{
			name:          "disabled flag wins over everything",
			summary:       signals.Summary{PriorityTier: enums.PriorityTierNone},
			status:        enums.ModerationStatusHidden,
			mutate:        func(c *Config) { c.AutoHideEnabled = false },
			wantBlockedBy: BlockedAutoHideDisabled,
		},
		{
			name:          "action not hide",
			summary:       summaryWith(1, 1, enums.ReportReasonOther),
			status:        enums.ModerationStatusVisible,
			wantBlockedBy: BlockedActionNotHide,
		},
		{
			name:          "already moderated",
			summary:       critical,
			status:        enums.ModerationStatusHidden,
			wantBlockedBy: BlockedAlreadyModerated,
		},
		{
			name:          "not enough unique reporters",
			summary:       summaryWith(10, 2, enums.ReportReasonScam, enums.ReportReasonScam),
			status:        enums.ModerationStatusVisible,
			wantBlockedBy: BlockedNotEnoughUniqueReports,
		},
		{
			name:          "reason not allowed",
			summary:       summaryWith(6, 5, enums.ReportReasonSpam, enums.ReportReasonSpam, enums.ReportReasonSpam),
			status:        enums.ModerationStatusVisible,
			mutate:        func(c *Config) { c.MinPriorityTier = enums.PriorityTierHigh },
			wantBlockedBy: BlockedReasonNotAllowed,
		},
		{
			name:          "actor missing",
			summary:       critical,
			status:        enums.ModerationStatusVisible,
			mutate:        func(c *Config) { c.AutoHideActorID = "" },
			wantBlockedBy: BlockedAutoHideActorMissing,
		},
		{
			name:         "fully eligible",
			summary:      critical,
			status:       enums.ModerationStatusVisible,
			wantEligible: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := enabledConfig()
			if tc.mutate != nil {
				tc.mutate(&cfg)
			}
			svc := newTestService(tc.summary, tc.status, cfg)

			eval, err := svc.Evaluate(context.Background(), model.Target{Kind: enums.ContentKindArticle, ID: "a1"})
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}

			got := eval.PolicySignals
			if got.AutomationEligible != tc.wantEligible {
				t.Errorf("eligible = %v, want %v (blocked: %s)", got.AutomationEligible, tc.wantEligible, got.AutomationBlockedReason)
			}
			if !tc.wantEligible && got.AutomationBlockedReason != tc.wantBlockedBy {
				t.Errorf("blocked reason = %s, want %s", got.AutomationBlockedReason, tc.wantBlockedBy)
			}
			if tc.wantEligible && got.AutomationBlockedReason != "" {
				t.Errorf("eligible evaluation should carry no blocked reason, got %s", got.AutomationBlockedReason)
			}
		})
	}
}

func TestEvaluateUnknownKindAndMissingContent(t *testing.T) {
	svc := newTestService(signals.Summary{}, enums.ModerationStatusVisible, enabledConfig())

	if _, err := svc.Evaluate(context.Background(), model.Target{Kind: "photo", ID: "x"}); err == nil {
		t.Error("expected error for unknown kind")
	}

	missing := NewService(map[enums.ContentKind]ContentStore{
		enums.ContentKindArticle: &fakeContentStore{err: pgrepo.ErrContentNotFound},
	}, &fakeSignalSource{}, enabledConfig())
	if _, err := missing.Evaluate(context.Background(), model.Target{Kind: enums.ContentKindArticle, ID: "a1"}); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
