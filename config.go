package folio

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/eringen/folio/prefs"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string `toml:"name"`        // Site name (default "Portfolio")
	URL         string `toml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `toml:"description"` // Site description for RSS and meta tags
	Author      string `toml:"author"`      // Author name for JSON-LD and the profile header

	Addr string `toml:"addr"` // Listen address (default ":3000")

	// DataURL is where writeups.json and post.json live: an http(s) URL or a
	// local directory (default "data"). A local directory is also served
	// under /data/.
	DataURL string `toml:"data_url"`

	PrefsDatabasePath string `toml:"prefs_database_path"` // SQLite path (default "data/prefs.db")

	SessionSecret string `toml:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `toml:"cookie_secure"`  // Set true for HTTPS

	PageTTL  Duration `toml:"page_ttl"`  // Idle lifetime of a rendered page (default 30m)
	MaxPages int      `toml:"max_pages"` // Open pages kept in memory (default 1000)

	// PageLoadsPerMinute caps full page loads per client IP, since each one
	// starts a fresh pair of collection loads (default 60, negative disables).
	PageLoadsPerMinute int `toml:"page_loads_per_minute"`
}

// Duration is a time.Duration that reads "30m"-style strings from TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DataURL == "" {
		c.DataURL = "data"
	}
	if c.PrefsDatabasePath == "" {
		c.PrefsDatabasePath = "data/prefs.db"
	}
	if c.PageTTL == 0 {
		c.PageTTL = Duration(30 * time.Minute)
	}
	if c.MaxPages == 0 {
		c.MaxPages = 1000
	}
	if c.PageLoadsPerMinute == 0 {
		c.PageLoadsPerMinute = 60
	}
}

// LoadConfig reads a TOML config file, then applies environment overrides.
// A missing file is not an error; path may be empty.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(c *SiteConfig) {
	c.Name = EnvOr("SITE_NAME", c.Name)
	c.URL = EnvOr("SITE_URL", c.URL)
	c.Description = EnvOr("SITE_DESCRIPTION", c.Description)
	c.Author = EnvOr("SITE_AUTHOR", c.Author)
	c.Addr = EnvOr("ADDR", c.Addr)
	c.DataURL = EnvOr("DATA_URL", c.DataURL)
	c.PrefsDatabasePath = EnvOr("PREFS_DATABASE_PATH", c.PrefsDatabasePath)
	c.SessionSecret = EnvOr("SESSION_SECRET", c.SessionSecret)
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		c.CookieSecure = v == "true" || v == "1"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithPrefs replaces the SQLite-backed preference store, mostly for tests.
func WithPrefs(kv prefs.KV) Option {
	return func(a *App) {
		a.prefsKV = kv
	}
}
