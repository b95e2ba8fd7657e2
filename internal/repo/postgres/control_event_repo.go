package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ControlEventRepo records account-level control changes (creation block,
// publishing block, cooldown) so the trust scorer can weigh their recency.
type ControlEventRepo struct {
	pool *pgxpool.Pool
}

type ControlEventRecord struct {
	CreatorID string
	ActorID   string
	Control   string
	Enabled   bool
	CreatedAt time.Time
}

func NewControlEventRepo(pool *pgxpool.Pool) *ControlEventRepo {
	return &ControlEventRepo{pool: pool}
}

func (r *ControlEventRepo) Append(ctx context.Context, rec ControlEventRecord) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(rec.CreatorID) == "" || strings.TrimSpace(rec.Control) == "" {
		return fmt.Errorf("invalid control event payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO creator_control_events (
	id,
	creator_id,
	actor_id,
	control,
	enabled,
	created_at
) VALUES ($1, $2, $3, $4, $5, NOW())
`, uuid.NewString(), rec.CreatorID, rec.ActorID, rec.Control, rec.Enabled); err != nil {
		return fmt.Errorf("append control event: %w", err)
	}

	return nil
}

func (r *ControlEventRepo) CountForCreatorSince(ctx context.Context, creatorID string, since time.Time) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(creatorID) == "" {
		return 0, fmt.Errorf("creator id is required")
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM creator_control_events
WHERE creator_id = $1 AND created_at >= $2
`, creatorID, since.UTC()).Scan(&count); err != nil {
		return 0, fmt.Errorf("count control events: %w", err)
	}

	return count, nil
}
