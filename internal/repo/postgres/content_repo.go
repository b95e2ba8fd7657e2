package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
)

var ErrContentNotFound = errors.New("content not found")

const excerptLength = 160

// kindSpec pins each content kind to its table, its ownership column and
// the columns its display fields come from. The mapping is intentionally
// explicit: ownership is named differently across the legacy tables.
type kindSpec struct {
	table       string
	ownerColumn string
	titleColumn string
	slugColumn  string
	bodyColumn  string
	assetColumn string
	hasPublish  bool
}

var kindSpecs = map[enums.ContentKind]kindSpec{
	enums.ContentKindArticle: {table: "articles", ownerColumn: "author_id", titleColumn: "title", slugColumn: "slug", hasPublish: true},
	enums.ContentKindVideo:   {table: "videos", ownerColumn: "creator_id", titleColumn: "title", slugColumn: "slug", assetColumn: "cover_key", hasPublish: true},
	enums.ContentKindCourse:  {table: "courses", ownerColumn: "instructor_id", titleColumn: "title", slugColumn: "slug", hasPublish: true},
	enums.ContentKindLive:    {table: "lives", ownerColumn: "host_id", titleColumn: "title", slugColumn: "slug", assetColumn: "cover_key", hasPublish: true},
	enums.ContentKindPodcast: {table: "podcasts", ownerColumn: "creator_id", titleColumn: "title", slugColumn: "slug", assetColumn: "cover_key", hasPublish: true},
	enums.ContentKindBook:    {table: "books", ownerColumn: "author_id", titleColumn: "title", slugColumn: "slug", hasPublish: true},
	enums.ContentKindComment: {table: "comments", ownerColumn: "user_id", bodyColumn: "body"},
	enums.ContentKindReview:  {table: "reviews", ownerColumn: "user_id", bodyColumn: "body"},
}

type ContentRepo struct {
	pool *pgxpool.Pool
	kind enums.ContentKind
	spec kindSpec
}

type ContentQuery struct {
	PublishStatus    enums.PublishStatus
	ModerationStatus enums.ModerationStatus
	OwnerID          string
	Search           string
	Limit            int
}

func NewContentRepo(pool *pgxpool.Pool, kind enums.ContentKind) (*ContentRepo, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return nil, fmt.Errorf("no content table registered for kind %q", kind)
	}
	return &ContentRepo{pool: pool, kind: kind, spec: spec}, nil
}

// NewContentRepos builds the full kind registry once at startup.
func NewContentRepos(pool *pgxpool.Pool) (map[enums.ContentKind]*ContentRepo, error) {
	repos := make(map[enums.ContentKind]*ContentRepo, len(enums.AllContentKinds))
	for _, kind := range enums.AllContentKinds {
		repo, err := NewContentRepo(pool, kind)
		if err != nil {
			return nil, err
		}
		repos[kind] = repo
	}
	return repos, nil
}

func (r *ContentRepo) Kind() enums.ContentKind {
	return r.kind
}

func (r *ContentRepo) selectColumns() string {
	title := "''"
	if r.spec.titleColumn != "" {
		title = fmt.Sprintf("COALESCE(%s, '')", r.spec.titleColumn)
	}
	slug := "''"
	if r.spec.slugColumn != "" {
		slug = fmt.Sprintf("COALESCE(%s, '')", r.spec.slugColumn)
	}
	excerpt := "''"
	if r.spec.bodyColumn != "" {
		excerpt = fmt.Sprintf("LEFT(COALESCE(%s, ''), %d)", r.spec.bodyColumn, excerptLength)
	}
	asset := "''"
	if r.spec.assetColumn != "" {
		asset = fmt.Sprintf("COALESCE(%s, '')", r.spec.assetColumn)
	}
	publish := "''"
	if r.spec.hasPublish {
		publish = "COALESCE(publish_status, 'published')"
	}

	return fmt.Sprintf(`id, %s, %s, %s, %s, %s, %s,
	moderation_status, moderation_reason, moderation_note, moderated_by, moderated_at,
	created_at, updated_at`, r.spec.ownerColumn, title, slug, excerpt, asset, publish)
}

func (r *ContentRepo) scanContent(row pgx.Row) (model.Content, error) {
	var (
		c             model.Content
		publishStatus string
	)
	if err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Title,
		&c.Slug,
		&c.Excerpt,
		&c.AssetKey,
		&publishStatus,
		&c.ModerationStatus,
		&c.ModerationReason,
		&c.ModerationNote,
		&c.ModeratedBy,
		&c.ModeratedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return model.Content{}, err
	}
	c.Kind = r.kind
	c.PublishStatus = enums.PublishStatus(publishStatus)
	return c, nil
}

func (r *ContentRepo) FindByID(ctx context.Context, id string) (model.Content, error) {
	if r.pool == nil {
		return model.Content{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(id) == "" {
		return model.Content{}, fmt.Errorf("content id is required")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, r.selectColumns(), r.spec.table)
	content, err := r.scanContent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Content{}, ErrContentNotFound
		}
		return model.Content{}, fmt.Errorf("find %s by id: %w", r.kind, err)
	}
	return content, nil
}

func (r *ContentRepo) buildWhere(q ContentQuery) (string, []any) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 4)

	next := func() string {
		return fmt.Sprintf("$%d", len(args))
	}

	if r.spec.hasPublish && q.PublishStatus != "" {
		args = append(args, string(q.PublishStatus))
		clauses = append(clauses, "COALESCE(publish_status, 'published') = "+next())
	}
	if q.ModerationStatus != "" {
		args = append(args, string(q.ModerationStatus))
		clauses = append(clauses, "moderation_status = "+next())
	}
	if q.OwnerID != "" {
		args = append(args, q.OwnerID)
		clauses = append(clauses, r.spec.ownerColumn+" = "+next())
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		column := r.spec.titleColumn
		if column == "" {
			column = r.spec.bodyColumn
		}
		clauses = append(clauses, column+" ILIKE "+next())
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *ContentRepo) List(ctx context.Context, q ContentQuery) ([]model.Content, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	where, args := r.buildWhere(q)
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY updated_at DESC, id DESC`, r.selectColumns(), r.spec.table, where)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind, err)
	}
	defer rows.Close()

	var items []model.Content
	for rows.Next() {
		content, scanErr := r.scanContent(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan %s row: %w", r.kind, scanErr)
		}
		items = append(items, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", r.kind, err)
	}

	return items, nil
}

func (r *ContentRepo) Count(ctx context.Context, q ContentQuery) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	where, args := r.buildWhere(q)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, r.spec.table, where)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.kind, err)
	}
	return count, nil
}

func (r *ContentRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Content, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	return r.List(ctx, ContentQuery{OwnerID: ownerID})
}

// SaveModeration persists the moderation fields of a loaded content item.
// Content-authoring columns are never touched from the moderation path.
func (r *ContentRepo) SaveModeration(ctx context.Context, content model.Content) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(content.ID) == "" {
		return fmt.Errorf("content id is required")
	}

	query := fmt.Sprintf(`
UPDATE %s SET
	moderation_status = $2,
	moderation_reason = $3,
	moderation_note = $4,
	moderated_by = $5,
	moderated_at = $6,
	updated_at = NOW()
WHERE id = $1
`, r.spec.table)

	tag, err := r.pool.Exec(ctx, query,
		content.ID,
		string(content.ModerationStatus),
		content.ModerationReason,
		content.ModerationNote,
		content.ModeratedBy,
		content.ModeratedAt,
	)
	if err != nil {
		return fmt.Errorf("save %s moderation: %w", r.kind, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrContentNotFound
	}

	return nil
}
