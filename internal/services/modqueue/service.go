package modqueue

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
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/signals"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	previewURLTTL   = 5 * time.Minute

	// fastHideReason is applied when a fast-track hide arrives without
	// an explicit reason from the operator.
	fastHideReason = "Preventive hide pending manual review"

	synthesizedTitleLength = 64
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type ContentStore interface {
	FindByID(ctx context.Context, id string) (model.Content, error)
	List(ctx context.Context, q pgrepo.ContentQuery) ([]model.Content, error)
	SaveModeration(ctx context.Context, content model.Content) error
}

type SignalSource interface {
	Summaries(ctx context.Context, targets []model.Target) (map[string]signals.Summary, error)
}

type ReportResolver interface {
	MarkOpenReviewed(ctx context.Context, target model.Target, reviewerID string, action enums.ModerationAction) (int64, error)
}

type EventStore interface {
	Append(ctx context.Context, event model.ModerationEvent) error
	ListByTarget(ctx context.Context, target model.Target, limit, offset int) ([]model.ModerationEvent, error)
	CountByTarget(ctx context.Context, target model.Target) (int, error)
}

type PreviewSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Config struct {
	DefaultPageSize      int
	MaxPageSize          int
	MaxBulkItems         int
	BulkConfirmThreshold int
}

type Service struct {
	stores  map[enums.ContentKind]ContentStore
	signals SignalSource
	reports ReportResolver
	events  EventStore
	signer  PreviewSigner
	cfg     Config
	now     func() time.Time
}

func NewService(
	stores map[enums.ContentKind]ContentStore,
	signalSource SignalSource,
	reports ReportResolver,
	events EventStore,
	cfg Config,
) *Service {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = defaultPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = maxPageSize
	}
	if cfg.MaxBulkItems <= 0 {
		cfg.MaxBulkItems = 50
	}
	if cfg.BulkConfirmThreshold <= 0 {
		cfg.BulkConfirmThreshold = 10
	}

	return &Service{
		stores:  stores,
		signals: signalSource,
		reports: reports,
		events:  events,
		cfg:     cfg,
		now:     time.Now,
	}
}

// AttachPreviewSigner enables short-lived preview URLs on queue items for
// kinds that carry a cover asset.
func (s *Service) AttachPreviewSigner(signer PreviewSigner) {
	s.signer = signer
}

type QueueItem struct {
	Kind             enums.ContentKind      `json:"kind"`
	ID               string                 `json:"id"`
	OwnerID          string                 `json:"owner_id"`
	Title            string                 `json:"title"`
	Slug             string                 `json:"slug,omitempty"`
	Excerpt          string                 `json:"excerpt,omitempty"`
	PublishStatus    enums.PublishStatus    `json:"publish_status,omitempty"`
	ModerationStatus enums.ModerationStatus `json:"moderation_status"`
	ModerationReason *string                `json:"moderation_reason,omitempty"`
	ModerationNote   *string                `json:"moderation_note,omitempty"`
	ModeratedBy      *string                `json:"moderated_by,omitempty"`
	ModeratedAt      *time.Time             `json:"moderated_at,omitempty"`
	PreviewURL       *string                `json:"preview_url,omitempty"`
	Reports          signals.Summary        `json:"reports"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

type ListFilter struct {
	Kind              *enums.ContentKind
	PublishStatus     *enums.PublishStatus
	ModerationStatus  *enums.ModerationStatus
	FlaggedOnly       bool
	MinReportPriority *enums.PriorityTier
	Search            string
	Limit             int
	Offset            int
}

type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

type QueueResult struct {
	Items []QueueItem `json:"items"`
	Page  Page        `json:"pagination"`
}

// List merges all relevant content kinds into one prioritized queue.
// Per-kind fetches run concurrently; filtering on report signals, the
// final ordering and pagination all happen in memory because the
// underlying stores cannot express them.
func (s *Service) List(ctx context.Context, filter ListFilter) (QueueResult, error) {
	if s.signals == nil {
		return QueueResult{}, fmt.Errorf("moderation queue dependencies are not configured")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	kinds, err := s.resolveKinds(filter)
	if err != nil {
		return QueueResult{}, err
	}

	contents, err := s.fanOutList(ctx, kinds, filter)
	if err != nil {
		return QueueResult{}, err
	}

	targets := make([]model.Target, 0, len(contents))
	for _, content := range contents {
		targets = append(targets, content.Target())
	}
	summaries, err := s.signals.Summaries(ctx, targets)
	if err != nil {
		return QueueResult{}, err
	}

	items := make([]QueueItem, 0, len(contents))
	for _, content := range contents {
		summary := summaries[content.Target().Key()]
		if filter.FlaggedOnly && summary.OpenReports == 0 {
			continue
		}
		if filter.MinReportPriority != nil && !summary.PriorityTier.AtLeast(*filter.MinReportPriority) {
			continue
		}
		items = append(items, buildQueueItem(content, summary))
	}

	sortQueueItems(items)

	total := len(items)
	if offset >= total {
		items = nil
	} else {
		end := offset + limit
		if end > total {
			end = total
		}
		items = items[offset:end]
	}

	s.attachPreviews(ctx, contents, items)

	return QueueResult{
		Items: items,
		Page:  Page{Limit: limit, Offset: offset, Total: total},
	}, nil
}

func (s *Service) resolveKinds(filter ListFilter) ([]enums.ContentKind, error) {
	excludeResponses := filter.PublishStatus != nil && *filter.PublishStatus != enums.PublishStatusPublished

	if filter.Kind != nil {
		kind := *filter.Kind
		if _, ok := s.stores[kind]; !ok {
			return nil, fmt.Errorf("%w: unknown content kind %q", ErrValidation, kind)
		}
		if excludeResponses && kind.IsResponseKind() {
			return nil, nil
		}
		return []enums.ContentKind{kind}, nil
	}

	kinds := make([]enums.ContentKind, 0, len(s.stores))
	for _, kind := range enums.AllContentKinds {
		if _, ok := s.stores[kind]; !ok {
			continue
		}
		if excludeResponses && kind.IsResponseKind() {
			continue
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func (s *Service) fanOutList(ctx context.Context, kinds []enums.ContentKind, filter ListFilter) ([]model.Content, error) {
	if len(kinds) == 0 {
		return nil, nil
	}

	query := pgrepo.ContentQuery{Search: strings.TrimSpace(filter.Search)}
	if filter.PublishStatus != nil {
		query.PublishStatus = *filter.PublishStatus
	}
	if filter.ModerationStatus != nil {
		query.ModerationStatus = *filter.ModerationStatus
	}

	results := make([][]model.Content, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			items, err := s.stores[kind].List(gctx, query)
			if err != nil {
				return fmt.Errorf("list %s queue: %w", kind, err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []model.Content
	for _, items := range results {
		merged = append(merged, items...)
	}
	return merged, nil
}

func buildQueueItem(content model.Content, summary signals.Summary) QueueItem {
	title := content.Title
	if content.Kind.IsResponseKind() {
		title = synthesizeTitle(content.Excerpt)
	}

	return QueueItem{
		Kind:             content.Kind,
		ID:               content.ID,
		OwnerID:          content.OwnerID,
		Title:            title,
		Slug:             content.Slug,
		Excerpt:          content.Excerpt,
		PublishStatus:    content.PublishStatus,
		ModerationStatus: content.ModerationStatus,
		ModerationReason: content.ModerationReason,
		ModerationNote:   content.ModerationNote,
		ModeratedBy:      content.ModeratedBy,
		ModeratedAt:      content.ModeratedAt,
		Reports:          summary,
		CreatedAt:        content.CreatedAt,
		UpdatedAt:        content.UpdatedAt,
	}
}

func synthesizeTitle(excerpt string) string {
	title := strings.TrimSpace(excerpt)
	if title == "" {
		return "(no text)"
	}
	runes := []rune(title)
	if len(runes) > synthesizedTitleLength {
		return string(runes[:synthesizedTitleLength]) + "..."
	}
	return title
}

func sortQueueItems(items []QueueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Reports.PriorityScore != b.Reports.PriorityScore {
			return a.Reports.PriorityScore > b.Reports.PriorityScore
		}
		aReport := timeOrZero(a.Reports.LatestReportAt)
		bReport := timeOrZero(b.Reports.LatestReportAt)
		if !aReport.Equal(bReport) {
			return aReport.After(bReport)
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// attachPreviews signs asset URLs for the returned page only. Signing is
// best effort; a failed signature never fails the listing.
func (s *Service) attachPreviews(ctx context.Context, contents []model.Content, items []QueueItem) {
	if s.signer == nil || len(items) == 0 {
		return
	}

	assetKeys := make(map[string]string, len(contents))
	for _, content := range contents {
		if content.AssetKey != "" {
			assetKeys[content.Target().Key()] = content.AssetKey
		}
	}

	for i := range items {
		key, ok := assetKeys[model.Target{Kind: items[i].Kind, ID: items[i].ID}.Key()]
		if !ok {
			continue
		}
		url, err := s.signer.PresignGet(ctx, key, previewURLTTL)
		if err != nil || url == "" {
			continue
		}
		items[i].PreviewURL = &url
	}
}
