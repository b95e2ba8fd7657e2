package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
)

type ReportRepo struct {
	pool *pgxpool.Pool
}

// OpenReportRecord is the raw shape the signal aggregator folds over.
type OpenReportRecord struct {
	ReporterID string
	Target     model.Target
	Reason     enums.ReportReason
	CreatedAt  time.Time
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// Upsert creates the reporter's report for the target, or reopens the
// existing one: status returns to open and prior review fields are cleared.
func (r *ReportRepo) Upsert(ctx context.Context, reporterID string, target model.Target, reason enums.ReportReason, note *string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(reporterID) == "" || strings.TrimSpace(target.ID) == "" {
		return fmt.Errorf("invalid report payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO reports (
	id,
	reporter_id,
	target_kind,
	target_id,
	reason,
	note,
	status,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, 'open', NOW(), NOW())
ON CONFLICT (reporter_id, target_kind, target_id) DO UPDATE SET
	reason = EXCLUDED.reason,
	note = EXCLUDED.note,
	status = 'open',
	reviewed_by = NULL,
	reviewed_at = NULL,
	resolution_action = NULL,
	updated_at = NOW()
`, uuid.NewString(), reporterID, string(target.Kind), target.ID, string(reason), note); err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}

	return nil
}

// ListOpenByTargets fetches every open report row for the given targets.
// Grouping and scoring happen in memory, not in the database.
func (r *ReportRepo) ListOpenByTargets(ctx context.Context, targets []model.Target) ([]OpenReportRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if len(targets) == 0 {
		return nil, nil
	}

	kinds := make([]string, 0, len(targets))
	ids := make([]string, 0, len(targets))
	for _, target := range targets {
		kinds = append(kinds, string(target.Kind))
		ids = append(ids, target.ID)
	}

	rows, err := r.pool.Query(ctx, `
SELECT reporter_id, target_kind, target_id, reason, created_at
FROM reports
WHERE status = 'open'
  AND (target_kind, target_id) IN (
	SELECT unnest($1::text[]), unnest($2::text[])
  )
`, kinds, ids)
	if err != nil {
		return nil, fmt.Errorf("list open reports: %w", err)
	}
	defer rows.Close()

	var records []OpenReportRecord
	for rows.Next() {
		var (
			rec        OpenReportRecord
			targetKind string
			reason     string
		)
		if err := rows.Scan(&rec.ReporterID, &targetKind, &rec.Target.ID, &reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan open report row: %w", err)
		}
		rec.Target.Kind = enums.ContentKind(targetKind)
		rec.Reason = enums.ReportReason(reason)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate open report rows: %w", err)
	}

	return records, nil
}

// MarkOpenReviewed resolves every open report on the target as a side
// effect of a moderation decision and returns how many rows transitioned.
func (r *ReportRepo) MarkOpenReviewed(ctx context.Context, target model.Target, reviewerID string, action enums.ModerationAction) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(target.ID) == "" || strings.TrimSpace(reviewerID) == "" {
		return 0, fmt.Errorf("invalid resolve payload")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE reports SET
	status = 'reviewed',
	reviewed_by = $3,
	reviewed_at = NOW(),
	resolution_action = $4,
	updated_at = NOW()
WHERE target_kind = $1 AND target_id = $2 AND status = 'open'
`, string(target.Kind), target.ID, reviewerID, string(action))
	if err != nil {
		return 0, fmt.Errorf("resolve open reports: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *ReportRepo) ListByReporter(ctx context.Context, reporterID string, limit, offset int) ([]model.Report, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(reporterID) == "" {
		return nil, fmt.Errorf("reporter id is required")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, reporter_id, target_kind, target_id, reason, note, status,
	reviewed_by, reviewed_at, resolution_action, created_at, updated_at
FROM reports
WHERE reporter_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`, reporterID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reports by reporter: %w", err)
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var (
			report model.Report
			kind   string
			reason string
			status string
		)
		if err := rows.Scan(
			&report.ID,
			&report.ReporterID,
			&kind,
			&report.TargetID,
			&reason,
			&report.Note,
			&status,
			&report.ReviewedBy,
			&report.ReviewedAt,
			&report.ResolutionAction,
			&report.CreatedAt,
			&report.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		report.TargetKind = enums.ContentKind(kind)
		report.Reason = enums.ReportReason(reason)
		report.Status = enums.ReportStatus(status)
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}

	return reports, nil
}
