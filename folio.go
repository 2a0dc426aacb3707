// Package folio serves a single-page portfolio of security write-ups and
// posts built with Go, Echo, and templ. The two JSON collections are loaded
// once per page view, then filtered, paginated and rendered as card grids on
// the server; htmx swaps the grids in place.
package folio

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/catalog"
	"github.com/eringen/folio/prefs"
	"github.com/eringen/folio/views"
)

// App is the central folio application. It wires together the data source,
// page registry, preference store, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Source *catalog.Source
	Pages  *PageRegistry
	Prefs  *prefs.Store

	pageLimiter  *rateLimiter
	prefsKV      prefs.KV
	prefsDB      *PrefStore
	collections  catalog.Collections
	customRoutes []func(*App)
	staticDir    string
	now          func() time.Time
}

// New creates a folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:      cfg,
		Echo:        echo.New(),
		collections: catalog.DefaultCollections,
		staticDir:   "public",
		now:         time.Now,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the preference store and registers middleware and routes.
// Start calls it; tests call it directly and drive a.Echo with httptest.
func (a *App) Init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	if a.prefsKV == nil {
		store, err := NewPrefStore(a.Config.PrefsDatabasePath)
		if err != nil {
			return fmt.Errorf("folio: init prefs store: %w", err)
		}
		a.prefsDB = store
		a.prefsKV = store
	}
	a.Prefs = prefs.NewStore(a.prefsKV)

	a.Source = catalog.NewSource(a.Config.DataURL)
	a.Pages = NewPageRegistry(time.Duration(a.Config.PageTTL), a.Config.MaxPages, func() *catalog.Controller {
		return catalog.NewController(a.Source, a.collections, a.Echo.Logger)
	})

	if a.Config.PageLoadsPerMinute > 0 {
		a.pageLimiter = newRateLimiter(a.Config.PageLoadsPerMinute, time.Minute)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	defer a.Close()

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets (folio.js, folio.css) fall through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/folio.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/folio.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	if isLocalData(a.Config.DataURL) {
		// Only the collections are public; the data directory may also hold
		// the preference database.
		dir := localDataDir(a.Config.DataURL)
		for _, name := range []string{a.collections.Writeups, a.collections.Posts} {
			file := filepath.Join(dir, filepath.FromSlash(name))
			e.GET("/data/"+name, func(c echo.Context) error { return c.File(file) })
		}
	}
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/writeups/", a.handleWriteups)
	e.GET("/posts/", a.handlePosts)
	e.POST("/writeups/:id/select/", a.handleSelectWriteup)
	e.GET("/post/", a.handleDetail)

	e.POST("/theme/", a.handleTheme)
	e.GET("/theme/events", a.handleThemeEvents)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Pages != nil {
		a.Pages.Close()
	}
	if a.pageLimiter != nil {
		a.pageLimiter.Close()
	}
	if a.prefsDB != nil {
		return a.prefsDB.Close()
	}
	return nil
}

func isLocalData(dataURL string) bool {
	u, err := url.Parse(dataURL)
	return err == nil && (u.Scheme == "" || u.Scheme == "file")
}

func localDataDir(dataURL string) string {
	if u, err := url.Parse(dataURL); err == nil && u.Scheme == "file" {
		return u.Path
	}
	return dataURL
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("folio: required environment variable %s is not set", key)
	}
	return v
}

// shell builds the per-request page chrome.
func (a *App) shell(c echo.Context, meta views.PageMeta, theme prefs.Theme, stored bool) views.Shell {
	return views.Shell{
		Site: views.SiteConfig{
			Name:        a.Config.Name,
			URL:         a.Config.URL,
			Description: a.Config.Description,
			Author:      a.Config.Author,
		},
		Meta:        meta,
		Theme:       string(theme),
		ThemeStored: stored,
		CSRF:        CsrfToken(c),
		Year:        a.now().Year(),
	}
}
