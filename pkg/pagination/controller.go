// Package pagination translates the UI's page-number concept into the
// store's cursor-based listing, and caches the expensive total count.
//
// A Controller belongs to one admin session. It is explicit state owned by
// the session, never ambient: the server keys controllers by session id
// (see Registry), and the CLI builds one per invocation.
package pagination

import (
	"fmt"
	"sync"
	"time"

	"github.com/alnpaa/certify/pkg/server/store"
)

// Lister is the slice of the certificate store the controller needs.
type Lister interface {
	List(cursor *store.Cursor, pageSize int) ([]store.Certificate, *store.Cursor, error)
	Count() (int64, error)
}

// Page is the result of a navigation.
type Page struct {
	Number     int
	Items      []store.Certificate
	TotalPages int
	TotalCount int64
}

// Controller maintains the page-to-cursor mapping and count cache for one
// session. Methods are safe for concurrent use; a session still issues one
// operation at a time, but imports and navigations can interleave.
type Controller struct {
	lister   Lister
	pageSize int

	mu sync.Mutex
	// cursorOf[n] is the cursor after page n, i.e. the starting point of
	// page n+1. Built incrementally as pages are visited.
	cursorOf    map[int]*store.Cursor
	cachedCount int64
	hasCount    bool
	countDirty  bool
}

// NewController creates a Controller with the given page size.
func NewController(lister Lister, pageSize int) *Controller {
	return &Controller{
		lister:   lister,
		pageSize: pageSize,
		cursorOf: map[int]*store.Cursor{},
	}
}

// MarkDirty flags the cached total count as stale. Called after any
// successful add, delete, or import so the next navigation refreshes it.
func (c *Controller) MarkDirty() {
	c.mu.Lock()
	c.countDirty = true
	// Mutations also shift page boundaries; drop the cursor cache rather
	// than serve pages cut against a stale snapshot.
	c.cursorOf = map[int]*store.Cursor{}
	c.mu.Unlock()
}

// GoToPage fetches page n (1-based). Requests past the end of the
// collection clamp to the last page. When the cursor for page n-1 is not
// cached, pages 1..n-1 are replayed sequentially, keeping only their
// terminal cursors. O(n) for arbitrary jumps; acceptable for the small
// collections this registry serves.
func (c *Controller) GoToPage(n int) (*Page, error) {
	if n < 1 {
		return nil, fmt.Errorf("page number must be >= 1, got %d", n)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cursor, pastEnd, err := c.resolveCursor(n)
	if err != nil {
		return nil, err
	}

	if pastEnd {
		if err := c.refreshCount(); err != nil {
			return nil, err
		}
		n = totalPages(c.cachedCount, c.pageSize)
		if cursor, _, err = c.resolveCursor(n); err != nil {
			return nil, err
		}
	}

	items, err := c.fetchPage(n, cursor)
	if err != nil {
		return nil, err
	}

	// A collection whose size is an exact multiple of the page size still
	// hands out a cursor after its final page, so an empty non-first page
	// also means past the end.
	if len(items) == 0 && n > 1 {
		if err := c.refreshCount(); err != nil {
			return nil, err
		}
		n = totalPages(c.cachedCount, c.pageSize)
		if cursor, _, err = c.resolveCursor(n); err != nil {
			return nil, err
		}
		if items, err = c.fetchPage(n, cursor); err != nil {
			return nil, err
		}
	}

	if c.countDirty || !c.hasCount {
		if err := c.refreshCount(); err != nil {
			return nil, err
		}
	}

	return &Page{
		Number:     n,
		Items:      items,
		TotalPages: totalPages(c.cachedCount, c.pageSize),
		TotalCount: c.cachedCount,
	}, nil
}

// fetchPage lists page n from its starting cursor and caches the cursor
// for the page after it. Caller holds the lock.
func (c *Controller) fetchPage(n int, cursor *store.Cursor) ([]store.Certificate, error) {
	items, next, err := c.lister.List(cursor, c.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %d: %w", n, err)
	}
	if next != nil {
		c.cursorOf[n] = next
	}
	return items, nil
}

// refreshCount re-queries the total and clears the dirty flag. Caller
// holds the lock.
func (c *Controller) refreshCount() error {
	count, err := c.lister.Count()
	if err != nil {
		return fmt.Errorf("failed to refresh count: %w", err)
	}
	c.cachedCount = count
	c.hasCount = true
	c.countDirty = false
	return nil
}

// resolveCursor returns the cursor that starts page n, replaying earlier
// pages when necessary. pastEnd reports that the collection ran out before
// page n; GoToPage then clamps to the last page. Caller holds the lock.
func (c *Controller) resolveCursor(n int) (cursor *store.Cursor, pastEnd bool, err error) {
	if n == 1 {
		return nil, false, nil
	}
	if cached, ok := c.cursorOf[n-1]; ok {
		return cached, false, nil
	}

	for page := 1; page < n; page++ {
		if cached, ok := c.cursorOf[page]; ok {
			cursor = cached
			continue
		}

		_, next, err := c.lister.List(cursor, c.pageSize)
		if err != nil {
			return nil, false, fmt.Errorf("failed to replay page %d: %w", page, err)
		}
		if next == nil {
			return nil, true, nil
		}
		c.cursorOf[page] = next
		cursor = next
	}
	return cursor, false, nil
}

func totalPages(count int64, pageSize int) int {
	pages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// Registry hands out per-session controllers keyed by session id and prunes
// entries that have been idle past the TTL.
type Registry struct {
	lister   Lister
	pageSize int
	ttl      time.Duration

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	controller *Controller
	lastUsed   time.Time
}

// NewRegistry creates a controller registry. ttl bounds how long an idle
// session keeps its cursor cache.
func NewRegistry(lister Lister, pageSize int, ttl time.Duration) *Registry {
	return &Registry{
		lister:   lister,
		pageSize: pageSize,
		ttl:      ttl,
		entries:  map[string]*registryEntry{},
	}
}

// For returns the controller for a session, creating one on first use.
func (r *Registry) For(sessionID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, entry := range r.entries {
		if now.Sub(entry.lastUsed) > r.ttl {
			delete(r.entries, id)
		}
	}

	entry, ok := r.entries[sessionID]
	if !ok {
		entry = &registryEntry{controller: NewController(r.lister, r.pageSize)}
		r.entries[sessionID] = entry
	}
	entry.lastUsed = now
	return entry.controller
}

// MarkAllDirty flags every live session's count cache as stale. Used after
// bulk imports, which invalidate counts for all sessions at once.
func (r *Registry) MarkAllDirty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		entry.controller.MarkDirty()
	}
}
