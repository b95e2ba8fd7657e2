package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
)

// ModerationEventRepo is append-only: rows are never updated or deleted.
type ModerationEventRepo struct {
	pool *pgxpool.Pool
}

// EventActionRecord is the compact shape the trust scorer aggregates over.
type EventActionRecord struct {
	Target    model.Target
	Action    enums.ModerationAction
	CreatedAt time.Time
}

func NewModerationEventRepo(pool *pgxpool.Pool) *ModerationEventRepo {
	return &ModerationEventRepo{pool: pool}
}

func (r *ModerationEventRepo) Append(ctx context.Context, event model.ModerationEvent) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(event.TargetID) == "" || strings.TrimSpace(event.ActorID) == "" {
		return fmt.Errorf("invalid moderation event payload")
	}

	id := event.ID
	if id == "" {
		id = uuid.NewString()
	}

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("marshal event metadata: %w", err)
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO moderation_events (
	id,
	target_kind,
	target_id,
	actor_id,
	action,
	from_status,
	to_status,
	reason_text,
	note,
	metadata,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, NOW())
`,
		id,
		string(event.TargetKind),
		event.TargetID,
		event.ActorID,
		string(event.Action),
		string(event.FromStatus),
		string(event.ToStatus),
		event.ReasonText,
		event.Note,
		string(metadata),
	); err != nil {
		return fmt.Errorf("append moderation event: %w", err)
	}

	return nil
}

func (r *ModerationEventRepo) ListByTarget(ctx context.Context, target model.Target, limit, offset int) ([]model.ModerationEvent, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(target.ID) == "" {
		return nil, fmt.Errorf("target id is required")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, target_kind, target_id, actor_id, action, from_status, to_status,
	reason_text, note, metadata, created_at
FROM moderation_events
WHERE target_kind = $1 AND target_id = $2
ORDER BY created_at DESC, id DESC
LIMIT $3 OFFSET $4
`, string(target.Kind), target.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list moderation events: %w", err)
	}
	defer rows.Close()

	var events []model.ModerationEvent
	for rows.Next() {
		var (
			event      model.ModerationEvent
			kind       string
			action     string
			fromStatus string
			toStatus   string
			metadata   []byte
		)
		if err := rows.Scan(
			&event.ID,
			&kind,
			&event.TargetID,
			&event.ActorID,
			&action,
			&fromStatus,
			&toStatus,
			&event.ReasonText,
			&event.Note,
			&metadata,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan moderation event row: %w", err)
		}
		event.TargetKind = enums.ContentKind(kind)
		event.Action = enums.ModerationAction(action)
		event.FromStatus = enums.ModerationStatus(fromStatus)
		event.ToStatus = enums.ModerationStatus(toStatus)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal event metadata: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderation event rows: %w", err)
	}

	return events, nil
}

func (r *ModerationEventRepo) CountByTarget(ctx context.Context, target model.Target) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM moderation_events
WHERE target_kind = $1 AND target_id = $2
`, string(target.Kind), target.ID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count moderation events: %w", err)
	}

	return count, nil
}

// ListByTargetsSince returns the action rows applied to any of the targets
// after the cutoff, oldest first.
func (r *ModerationEventRepo) ListByTargetsSince(ctx context.Context, targets []model.Target, since time.Time) ([]EventActionRecord, error) {
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
SELECT target_kind, target_id, action, created_at
FROM moderation_events
WHERE created_at >= $3
  AND (target_kind, target_id) IN (
	SELECT unnest($1::text[]), unnest($2::text[])
  )
ORDER BY created_at ASC
`, kinds, ids, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("list moderation events since: %w", err)
	}
	defer rows.Close()

	var records []EventActionRecord
	for rows.Next() {
		var (
			rec    EventActionRecord
			kind   string
			action string
		)
		if err := rows.Scan(&kind, &rec.Target.ID, &action, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan moderation event row: %w", err)
		}
		rec.Target.Kind = enums.ContentKind(kind)
		rec.Action = enums.ModerationAction(action)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderation event rows: %w", err)
	}

	return records, nil
}
