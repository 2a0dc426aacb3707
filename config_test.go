package folio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.toml")
	data := `
name = "From File"
url = "https://example.com/"
data_url = "https://cdn.example.com/data/"
page_ttl = "10m"
max_pages = 50
cookie_secure = true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITE_NAME", "From Env")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.setDefaults()

	want := SiteConfig{
		Name:               "From Env",
		URL:                "https://example.com",
		Addr:               ":3000",
		DataURL:            "https://cdn.example.com/data/",
		PrefsDatabasePath:  "data/prefs.db",
		SessionSecret:      "s3cret",
		CookieSecure:       true,
		PageTTL:            Duration(10 * time.Minute),
		MaxPages:           50,
		PageLoadsPerMinute: 60,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected a missing file to be ignored, got %v", err)
	}
	cfg.setDefaults()
	if cfg.Name != "Portfolio" || cfg.DataURL != "data" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.toml")
	if err := os.WriteFile(path, []byte(`page_ttl = "soon"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected an error for an invalid duration")
	}
}

func TestInitRequiresSessionSecret(t *testing.T) {
	a := New(SiteConfig{})
	if err := a.Init(); err == nil {
		t.Fatalf("expected Init to fail without a session secret")
	}
}
