package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// Collections names where the two collections live, relative to a Source.
type Collections struct {
	Writeups string
	Posts    string
}

// DefaultCollections matches the layout of the site's data directory.
var DefaultCollections = Collections{
	Writeups: "writeups.json",
	Posts:    "post.json",
}

// Summary texts shown above the grids.
const (
	writeupsFound  = "%d results found"
	postsFound     = "%d posts found"
	writeupsFailed = "Error loading writeups."
	postsFailed    = "Error loading posts."
)

// loadTimeout bounds a single collection fetch.
const loadTimeout = 30 * time.Second

// Grid is everything needed to render one collection's results area.
type Grid struct {
	Cards      []Card
	Strip      Strip
	Summary    string
	Failed     bool
	Filter     FilterState
	Page       int
	TotalPages int
	Total      int
}

// Counter is an aggregate shown on the profile view. It stays unset until
// its collection loads.
type Counter struct {
	Value int
	Set   bool
}

func (c Counter) String() string {
	if !c.Set {
		return "-"
	}
	return fmt.Sprint(c.Value)
}

// Stats are the profile counters.
type Stats struct {
	Writeups    Counter
	Platforms   Counter
	Posts       Counter
	RecentPosts Counter
}

// listing is the state of one collection inside a controller.
type listing[R Record] struct {
	all      []R
	err      error
	loaded   bool
	filter   FilterState
	filtered []R
	page     int
}

func (l *listing[R]) install(records []R, err error) {
	l.all, l.err, l.loaded = records, err, true
	l.apply(l.filter)
}

func (l *listing[R]) apply(st FilterState) {
	l.filter = st
	l.filtered = Filter(l.all, st)
	l.page = 1
}

// Controller owns the loaded collections and the filter and page state of
// one page view. All state is touched only on its dispatcher goroutine.
type Controller struct {
	d      *Dispatcher
	logger echo.Logger

	writeups listing[Writeup]
	posts    listing[Post]

	writeupsReady chan struct{}
	postsReady    chan struct{}
}

// NewController starts loading both collections from src. The two loads are
// independent: each one completes on its own and only unblocks its own grid.
func NewController(src *Source, cols Collections, logger echo.Logger) *Controller {
	if logger == nil {
		logger = log.New("catalog")
	}
	c := &Controller{
		d:             NewDispatcher(),
		logger:        logger,
		writeupsReady: make(chan struct{}),
		postsReady:    make(chan struct{}),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		ws, err := Load[Writeup](ctx, src, cols.Writeups)
		c.d.Post(func() {
			if err != nil {
				c.logger.Errorf("Error loading writeups: %v", err)
			}
			c.writeups.install(ws, err)
			close(c.writeupsReady)
		})
	}()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		ps, err := Load[Post](ctx, src, cols.Posts)
		c.d.Post(func() {
			if err != nil {
				c.logger.Errorf("Error loading posts: %v", err)
			}
			c.posts.install(ps, err)
			close(c.postsReady)
		})
	}()
	return c
}

// Close stops the controller. Loads still in flight are abandoned.
func (c *Controller) Close() {
	c.d.Stop()
}

// wait blocks until ready is closed. A controller closed before its load
// finished never closes ready, so stopped ends the wait too.
func wait(ctx context.Context, ready, stopped <-chan struct{}) error {
	select {
	case <-ready:
		return nil
	case <-stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitWriteups blocks until the write-up load has finished, successfully or not.
func (c *Controller) WaitWriteups(ctx context.Context) error {
	return wait(ctx, c.writeupsReady, c.d.Done())
}

// WaitPosts blocks until the post load has finished, successfully or not.
func (c *Controller) WaitPosts(ctx context.Context) error {
	return wait(ctx, c.postsReady, c.d.Done())
}

func (c *Controller) writeupCall(ctx context.Context, fn func()) (Grid, error) {
	if err := c.WaitWriteups(ctx); err != nil {
		return Grid{}, err
	}
	var g Grid
	err := c.d.Call(ctx, func() {
		if fn != nil {
			fn()
		}
		g = c.writeupGrid()
	})
	return g, err
}

func (c *Controller) postCall(ctx context.Context, fn func()) (Grid, error) {
	if err := c.WaitPosts(ctx); err != nil {
		return Grid{}, err
	}
	var g Grid
	err := c.d.Call(ctx, func() {
		if fn != nil {
			fn()
		}
		g = c.postGrid()
	})
	return g, err
}

// Writeups renders the current write-up grid without changing state.
func (c *Controller) Writeups(ctx context.Context) (Grid, error) {
	return c.writeupCall(ctx, nil)
}

// SearchWriteups applies st and goes back to the first page.
func (c *Controller) SearchWriteups(ctx context.Context, st FilterState) (Grid, error) {
	return c.writeupCall(ctx, func() { c.writeups.apply(st) })
}

// ClearWriteupFilters resets every write-up filter.
func (c *Controller) ClearWriteupFilters(ctx context.Context) (Grid, error) {
	return c.writeupCall(ctx, func() { c.writeups.apply(FilterState{}) })
}

// WriteupsPage moves to page n of the current filtered set.
func (c *Controller) WriteupsPage(ctx context.Context, n int) (Grid, error) {
	return c.writeupCall(ctx, func() { c.writeups.page = n })
}

// Posts renders the current post grid without changing state.
func (c *Controller) Posts(ctx context.Context) (Grid, error) {
	return c.postCall(ctx, nil)
}

// SearchPosts filters posts by query and goes back to the first page.
func (c *Controller) SearchPosts(ctx context.Context, query string) (Grid, error) {
	return c.postCall(ctx, func() { c.posts.apply(FilterState{Query: query}) })
}

// ClearPostSearch empties the post search.
func (c *Controller) ClearPostSearch(ctx context.Context) (Grid, error) {
	return c.postCall(ctx, func() { c.posts.apply(FilterState{}) })
}

// PostsPage moves to page n of the current post results.
func (c *Controller) PostsPage(ctx context.Context, n int) (Grid, error) {
	return c.postCall(ctx, func() { c.posts.page = n })
}

// Recent returns the cards for the profile's recent write-ups.
func (c *Controller) Recent(ctx context.Context) ([]Card, error) {
	if err := c.WaitWriteups(ctx); err != nil {
		return nil, err
	}
	var cards []Card
	err := c.d.Call(ctx, func() { cards = RecentCards(c.writeups.all) })
	return cards, err
}

// OSOptions lists the distinct operating systems of the loaded write-ups.
func (c *Controller) OSOptions(ctx context.Context) ([]string, error) {
	if err := c.WaitWriteups(ctx); err != nil {
		return nil, err
	}
	var opts []string
	err := c.d.Call(ctx, func() { opts = distinctOS(c.writeups.all) })
	return opts, err
}

// Stats returns the counters known so far. It does not wait for loads.
func (c *Controller) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := c.d.Call(ctx, func() {
		if c.writeups.loaded && c.writeups.err == nil {
			s.Writeups = Counter{Value: len(c.writeups.all), Set: true}
			s.Platforms = Counter{Value: countPlatforms(c.writeups.all), Set: true}
		}
		if c.posts.loaded && c.posts.err == nil {
			n := len(c.posts.all)
			s.Posts = Counter{Value: n, Set: true}
			s.RecentPosts = Counter{Value: min(5, n), Set: true}
		}
	})
	return s, err
}

// Writeup looks up a loaded write-up by id.
func (c *Controller) Writeup(ctx context.Context, id string) (Writeup, bool, error) {
	if err := c.WaitWriteups(ctx); err != nil {
		return Writeup{}, false, err
	}
	var (
		w  Writeup
		ok bool
	)
	err := c.d.Call(ctx, func() { w, ok = FindWriteup(c.writeups.all, id) })
	return w, ok, err
}

func (c *Controller) writeupGrid() Grid {
	l := &c.writeups
	if l.err != nil {
		return failedGrid(writeupsFailed, l.filter)
	}
	p := Paginate(l.filtered, l.page, PerPage)
	l.page = p.Current
	cards := make([]Card, 0, len(p.Items))
	for _, w := range p.Items {
		cards = append(cards, WriteupCard(w, nil))
	}
	return grid(p, cards, fmt.Sprintf(writeupsFound, len(l.filtered)), l.filter)
}

func (c *Controller) postGrid() Grid {
	l := &c.posts
	if l.err != nil {
		return failedGrid(postsFailed, l.filter)
	}
	p := Paginate(l.filtered, l.page, PerPage)
	l.page = p.Current
	cards := make([]Card, 0, len(p.Items))
	for _, post := range p.Items {
		cards = append(cards, PostCard(post))
	}
	return grid(p, cards, fmt.Sprintf(postsFound, len(l.filtered)), l.filter)
}

func grid[T any](p Page[T], cards []Card, summary string, st FilterState) Grid {
	return Grid{
		Cards:      cards,
		Strip:      StripFor(p),
		Summary:    summary,
		Filter:     st,
		Page:       p.Current,
		TotalPages: p.TotalPages,
		Total:      p.Total,
	}
}

func failedGrid(summary string, st FilterState) Grid {
	p := Paginate([]Card(nil), 1, PerPage)
	return Grid{
		Strip:      StripFor(p),
		Summary:    summary,
		Failed:     true,
		Filter:     st,
		Page:       1,
		TotalPages: 1,
	}
}

// FindWriteup returns the write-up with the given id.
func FindWriteup(ws []Writeup, id string) (Writeup, bool) {
	for _, w := range ws {
		if w.ID == id {
			return w, true
		}
	}
	return Writeup{}, false
}

func countPlatforms(ws []Writeup) int {
	set := make(map[string]struct{})
	for _, w := range ws {
		set[w.Platform] = struct{}{}
	}
	return len(set)
}

func distinctOS(ws []Writeup) []string {
	set := make(map[string]struct{})
	var out []string
	for _, w := range ws {
		if w.OS == "" {
			continue
		}
		if _, ok := set[w.OS]; ok {
			continue
		}
		set[w.OS] = struct{}{}
		out = append(out, w.OS)
	}
	sort.Strings(out)
	return out
}
