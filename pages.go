package folio

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/folio/catalog"
)

// PageRegistry keeps one catalog.Controller per rendered page. A full page
// load opens a new entry; the grid partials of that page look it up by id.
// Entries idle for longer than ttl are closed by a background sweep.
type PageRegistry struct {
	mu      sync.Mutex
	pages   map[string]*pageEntry
	ttl     time.Duration
	max     int
	factory func() *catalog.Controller
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type pageEntry struct {
	ctrl *catalog.Controller
	seen time.Time
}

// NewPageRegistry creates a registry that builds controllers with factory
// and keeps at most max of them.
func NewPageRegistry(ttl time.Duration, max int, factory func() *catalog.Controller) *PageRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	r := &PageRegistry{
		pages:   make(map[string]*pageEntry),
		ttl:     ttl,
		max:     max,
		factory: factory,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go r.cleanup()
	return r
}

func (r *PageRegistry) cleanup() {
	ticker := time.NewTicker(r.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.stop:
			return
		}
	}
}

// sweep closes every page idle for longer than ttl.
func (r *PageRegistry) sweep() {
	cutoff := r.now().Add(-r.ttl)
	var expired []*catalog.Controller

	r.mu.Lock()
	for id, p := range r.pages {
		if p.seen.Before(cutoff) {
			expired = append(expired, p.ctrl)
			delete(r.pages, id)
		}
	}
	r.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}
}

// Open creates a page and starts loading its collections.
func (r *PageRegistry) Open() (string, *catalog.Controller) {
	id := uuid.NewString()
	ctrl := r.factory()

	var evicted *catalog.Controller
	r.mu.Lock()
	if r.max > 0 && len(r.pages) >= r.max {
		evicted = r.evictOldestLocked()
	}
	r.pages[id] = &pageEntry{ctrl: ctrl, seen: r.now()}
	r.mu.Unlock()

	if evicted != nil {
		evicted.Close()
	}
	return id, ctrl
}

func (r *PageRegistry) evictOldestLocked() *catalog.Controller {
	var (
		oldestID string
		oldest   *pageEntry
	)
	for id, p := range r.pages {
		if oldest == nil || p.seen.Before(oldest.seen) {
			oldestID, oldest = id, p
		}
	}
	if oldest == nil {
		return nil
	}
	delete(r.pages, oldestID)
	return oldest.ctrl
}

// Get returns the controller of a page and marks it as recently used.
func (r *PageRegistry) Get(id string) (*catalog.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[id]
	if !ok {
		return nil, false
	}
	p.seen = r.now()
	return p.ctrl, true
}

// Len reports how many pages are open.
func (r *PageRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Close stops the sweep and closes every page.
func (r *PageRegistry) Close() {
	r.once.Do(func() { close(r.stop) })

	r.mu.Lock()
	pages := r.pages
	r.pages = make(map[string]*pageEntry)
	r.mu.Unlock()

	for _, p := range pages {
		p.ctrl.Close()
	}
}
