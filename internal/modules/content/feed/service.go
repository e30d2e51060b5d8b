package feed

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/feedfolio/core/internal/models"
	"github.com/feedfolio/core/internal/modules/content/classify"
	pkgredis "github.com/feedfolio/core/internal/pkg/redis"
	"go.uber.org/zap"
)

const (
	// DefaultLimit applies when the client sends no limit.
	DefaultLimit = 10
	// MaxLimit caps the page size for most categories.
	MaxLimit = 20
	// DeepMaxLimit is the higher ceiling for the category that needs deeper
	// pages in one request.
	DeepMaxLimit = 50

	// CategoryAll is the sentinel meaning "no category filter".
	CategoryAll = "all"

	corpusCacheKey = "feedfolio:corpus:v1"
)

// Store is the slice of the content store adapter the feed service needs.
type Store interface {
	FetchAll(ctx context.Context) ([]models.RawRecord, error)
}

// Service assembles the normalized corpus and answers list queries over it.
// The Redis cache is a best-effort optimization: every request may
// legitimately trigger a fresh scan, and Redis being down never fails a
// request.
type Service struct {
	store      Store
	normalizer *classify.Normalizer
	cache      *pkgredis.Client
	cacheTTL   time.Duration
	logger     *zap.Logger
}

func NewService(store Store, cache *pkgredis.Client, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		normalizer: classify.NewNormalizer(logger),
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Corpus returns every normalized content item, newest first. A scan failure
// returns an error (the caller must not treat it as an empty corpus).
func (s *Service) Corpus(ctx context.Context) ([]models.ContentItem, error) {
	if items, ok := s.cachedCorpus(ctx); ok {
		return items, nil
	}

	records, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.ContentItem, 0, len(records))
	for _, r := range records {
		items = append(items, s.normalizer.Normalize(r))
	}

	s.storeCorpus(ctx, items)
	return items, nil
}

func (s *Service) cachedCorpus(ctx context.Context) ([]models.ContentItem, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, corpusCacheKey)
	if err != nil || raw == "" {
		return nil, false
	}
	var items []models.ContentItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("corpus cache decode failed, falling back to scan", zap.Error(err))
		return nil, false
	}
	return items, true
}

func (s *Service) storeCorpus(ctx context.Context, items []models.ContentItem) {
	if s.cache == nil || len(items) == 0 {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, corpusCacheKey, raw, s.cacheTTL); err != nil {
		s.logger.Warn("corpus cache write failed", zap.Error(err))
	}
}

// InvalidateCorpus drops the cached corpus so the next request re-scans.
func (s *Service) InvalidateCorpus(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, corpusCacheKey)
}

// ListOptions selects a page of the corpus. Category and Tags are mutually
// exclusive; when both are set, Category wins.
type ListOptions struct {
	Category string
	Tags     []string
	Limit    int
	Offset   int
}

// ListResult is one served page plus its metadata.
type ListResult struct {
	Items  []models.ContentItem
	Total  int
	Offset int
	Limit  int
}

// List filters and paginates an already-normalized item set. It is pure:
// identical inputs always produce identical output.
//
// Steps: dedupe by id keeping the first occurrence (input is newest-first, so
// first is also most recent), filter by category XOR tag search, count, then
// slice. An offset past the end yields an empty page with the correct total.
func List(items []models.ContentItem, opts ListOptions) ListResult {
	opts = normalizeOptions(opts)

	deduped := dedupeByID(items)
	filtered := filterItems(deduped, opts)

	total := len(filtered)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}

	page := make([]models.ContentItem, end-start)
	copy(page, filtered[start:end])

	return ListResult{
		Items:  page,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}
}

// ClampLimit bounds a client-requested limit for the given category.
func ClampLimit(category string, limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	max := MaxLimit
	if models.Category(category) == models.CategoryLinkedInPost {
		max = DeepMaxLimit
	}
	if limit > max {
		return max
	}
	return limit
}

func normalizeOptions(opts ListOptions) ListOptions {
	opts.Category = strings.TrimSpace(opts.Category)
	if strings.EqualFold(opts.Category, CategoryAll) {
		opts.Category = ""
	}
	opts.Limit = ClampLimit(opts.Category, opts.Limit)
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	terms := make([]string, 0, len(opts.Tags))
	for _, t := range opts.Tags {
		if v := strings.TrimSpace(t); v != "" {
			terms = append(terms, v)
		}
	}
	opts.Tags = terms
	return opts
}

func dedupeByID(items []models.ContentItem) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

func filterItems(items []models.ContentItem, opts ListOptions) []models.ContentItem {
	switch {
	case opts.Category != "":
		out := make([]models.ContentItem, 0, len(items))
		for _, item := range items {
			if string(item.Category) == opts.Category {
				out = append(out, item)
			}
		}
		return out
	case len(opts.Tags) > 0:
		out := make([]models.ContentItem, 0, len(items))
		for _, item := range items {
			if matchesAnyTag(item, opts.Tags) {
				out = append(out, item)
			}
		}
		return out
	default:
		return items
	}
}

// matchesAnyTag reports whether any search term is a case-insensitive
// substring of any of the item's tags. Only tag fields are searched; titles
// and bodies deliberately are not.
func matchesAnyTag(item models.ContentItem, terms []string) bool {
	for _, term := range terms {
		lower := strings.ToLower(term)
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), lower) {
				return true
			}
		}
	}
	return false
}

// CategoryCounts tallies deduplicated items per category.
func CategoryCounts(items []models.ContentItem) map[models.Category]int {
	counts := make(map[models.Category]int, len(models.AllCategories()))
	for _, c := range models.AllCategories() {
		counts[c] = 0
	}
	for _, item := range dedupeByID(items) {
		counts[item.Category]++
	}
	return counts
}
