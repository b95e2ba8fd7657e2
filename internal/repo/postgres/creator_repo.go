package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CreatorRepo struct {
	pool *pgxpool.Pool
}

func NewCreatorRepo(pool *pgxpool.Pool) *CreatorRepo {
	return &CreatorRepo{pool: pool}
}

// FilterCreatorIDs returns the subset of ids that belong to creator
// accounts. Unknown or non-creator identities are simply absent.
func (r *CreatorRepo) FilterCreatorIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if len(ids) == 0 {
		return map[string]struct{}{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id
FROM users
WHERE id = ANY($1) AND role = 'creator'
`, ids)
	if err != nil {
		return nil, fmt.Errorf("filter creator ids: %w", err)
	}
	defer rows.Close()

	creators := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan creator id: %w", err)
		}
		creators[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate creator ids: %w", err)
	}

	return creators, nil
}
