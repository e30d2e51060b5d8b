package feedclient

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DesktopPageSize is the initial page size for large viewports.
	DesktopPageSize = 10
	// MobilePageSize keeps first paint light on small viewports.
	MobilePageSize = 6
	// MaxSearchTerms caps how many search terms a query carries; SetSearch
	// rejects anything beyond it.
	MaxSearchTerms = 3

	// SearchFeed is the cursor key used while a tag search is active. A
	// search replaces the category feeds entirely: the two filters never
	// combine.
	SearchFeed = "search"
)

// ErrLoadInProgress is returned when a fetch for the same feed is already
// in flight. The caller should simply wait; the running fetch will update
// the cursor.
var ErrLoadInProgress = errors.New("feedclient: load already in progress")

// ErrTooManySearchTerms is returned when a search carries more than
// MaxSearchTerms terms. The over-limit call changes nothing.
var ErrTooManySearchTerms = errors.New("feedclient: too many search terms")

// PageSizeFor picks the initial page size from the viewport width in CSS
// pixels. Zero or negative means unknown and gets the desktop size.
func PageSizeFor(viewportWidth int) int {
	if viewportWidth > 0 && viewportWidth < 768 {
		return MobilePageSize
	}
	return DesktopPageSize
}

// CursorState is a read-only snapshot of one feed cursor.
type CursorState struct {
	Items       []ContentItem
	LoadedCount int
	Total       int
	HasMore     bool
	IsLoading   bool
}

type cursor struct {
	items       []ContentItem
	seen        map[string]struct{}
	loadedCount int
	total       int
	totalKnown  bool
	hasMore     bool
	isLoading   bool
}

func newCursor() *cursor {
	return &cursor{
		items:   []ContentItem{},
		seen:    map[string]struct{}{},
		hasMore: true,
	}
}

// Controller owns the incremental delivery state of every feed the page
// shows: one cursor per category, or a single search cursor while a tag
// search is active. All methods are safe for concurrent use.
//
// A failed fetch leaves the cursor untouched and is never retried
// automatically; the next LoadMore call simply tries again.
type Controller struct {
	mu         sync.Mutex
	fetcher    Fetcher
	pageSize   int
	generation uint64
	active     string
	search     []string
	cursors    map[string]*cursor
	logger     *zap.Logger
}

// NewController creates a Controller. pageSize <= 0 falls back to
// DesktopPageSize.
func NewController(fetcher Fetcher, pageSize int, logger *zap.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = DesktopPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		fetcher:  fetcher,
		pageSize: pageSize,
		cursors:  map[string]*cursor{},
		logger:   logger,
	}
}

// SeedCounts primes every category cursor's hasMore flag from the counts
// endpoint, so empty categories never render a load button that fetches
// nothing.
func (c *Controller) SeedCounts(ctx context.Context) error {
	counts, err := c.fetcher.Counts(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for category, n := range counts.Counts {
		cur := c.cursor(string(category))
		cur.total = n
		cur.totalKnown = true
		cur.hasMore = n > 0
	}
	return nil
}

// LoadInitial fetches the first page of every given feed in parallel. The
// first error is returned, but every feed still gets its attempt.
func (c *Controller) LoadInitial(ctx context.Context, feeds ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, feedKey := range feeds {
		key := feedKey
		g.Go(func() error {
			err := c.LoadMore(gctx, key)
			if errors.Is(err, ErrLoadInProgress) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// LoadMore fetches the next page for the given feed and merges it into the
// cursor. While a search is active, feed must be SearchFeed; category
// requests are rejected then, and vice versa.
func (c *Controller) LoadMore(ctx context.Context, feedKey string) error {
	c.mu.Lock()
	if err := c.checkFeedKey(feedKey); err != nil {
		c.mu.Unlock()
		return err
	}
	cur := c.cursor(feedKey)
	if cur.isLoading {
		c.mu.Unlock()
		return ErrLoadInProgress
	}
	if !cur.hasMore {
		c.mu.Unlock()
		return nil
	}

	cur.isLoading = true
	gen := c.generation
	params := ListParams{
		Limit:  c.pageSize,
		Offset: cur.loadedCount,
	}
	if feedKey == SearchFeed {
		params.Tags = append([]string(nil), c.search...)
	} else {
		params.Category = feedKey
	}
	c.mu.Unlock()

	page, err := c.fetcher.List(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		// The filter changed while this request was in flight; the response
		// belongs to a feed the user is no longer looking at.
		c.logger.Debug("discarding stale page", zap.String("feed", feedKey))
		return nil
	}

	cur = c.cursor(feedKey)
	cur.isLoading = false
	if err != nil {
		return err
	}

	for _, item := range page.Posts {
		if _, ok := cur.seen[item.ID]; ok {
			continue
		}
		cur.seen[item.ID] = struct{}{}
		cur.items = append(cur.items, item)
	}

	// The cursor advances by the delivered page size, not by how many items
	// were new: re-delivered duplicates still move the window forward, so a
	// server that overlaps pages cannot stall the client.
	cur.loadedCount += len(page.Posts)
	cur.total = page.Total
	cur.totalKnown = true
	cur.hasMore = cur.loadedCount < page.Total && len(page.Posts) > 0
	return nil
}

// SelectCategory makes category the active feed. Any running search is
// cleared, every cursor resets, and responses still in flight from before
// the switch are discarded when they land. Returning to a previously
// viewed category starts it over from the first page.
func (c *Controller) SelectCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = category
	c.search = nil
	c.reset()
}

// ActiveCategory returns the selected category feed, or "" when none has
// been selected yet.
func (c *Controller) ActiveCategory() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// SetSearch activates a tag search, replacing the category feeds. More than
// MaxSearchTerms terms is rejected with ErrTooManySearchTerms and leaves
// the previous state untouched. On success every cursor resets and
// in-flight responses from before the change are discarded on arrival.
func (c *Controller) SetSearch(terms []string) error {
	cleaned := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		cleaned = append(cleaned, t)
	}
	if len(cleaned) > MaxSearchTerms {
		return ErrTooManySearchTerms
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = cleaned
	c.reset()
	return nil
}

// ClearSearch deactivates the search and returns to category feeds.
func (c *Controller) ClearSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = nil
	c.reset()
}

// Searching reports whether a tag search is active.
func (c *Controller) Searching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.search) > 0
}

// State returns a snapshot of the given feed's cursor.
func (c *Controller) State(feedKey string) CursorState {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.cursors[feedKey]
	if !ok {
		return CursorState{Items: []ContentItem{}, HasMore: true}
	}
	items := make([]ContentItem, len(cur.items))
	copy(items, cur.items)
	return CursorState{
		Items:       items,
		LoadedCount: cur.loadedCount,
		Total:       cur.total,
		HasMore:     cur.hasMore,
		IsLoading:   cur.isLoading,
	}
}

// callers hold c.mu
func (c *Controller) cursor(feedKey string) *cursor {
	cur, ok := c.cursors[feedKey]
	if !ok {
		cur = newCursor()
		c.cursors[feedKey] = cur
	}
	return cur
}

func (c *Controller) checkFeedKey(feedKey string) error {
	searching := len(c.search) > 0
	if searching && feedKey != SearchFeed {
		return errors.New("feedclient: category feeds are unavailable while searching")
	}
	if !searching && feedKey == SearchFeed {
		return errors.New("feedclient: no search terms set")
	}
	return nil
}

func (c *Controller) reset() {
	c.generation++
	c.cursors = map[string]*cursor{}
}
