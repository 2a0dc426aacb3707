package folio

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/eringen/folio/catalog"
	"github.com/eringen/folio/prefs"
)

var pageIDPattern = regexp.MustCompile(`name="page" value="([0-9a-f-]{36})"`)

// writeTestData writes 12 write-ups (every fourth a Windows box) and three
// posts, the second without a link.
func writeTestData(t *testing.T, dir string) {
	t.Helper()
	ws := make([]catalog.Writeup, 0, 12)
	for i := 1; i <= 12; i++ {
		w := catalog.Writeup{
			ID:         fmt.Sprintf("box-%02d", i),
			Title:      fmt.Sprintf("Box %02d", i),
			Platform:   "HackTheBox",
			OS:         "Linux",
			Difficulty: catalog.Difficulties[i%len(catalog.Difficulties)],
			Date:       fmt.Sprintf("2024-03-%02d", i),
			Summary:    "summary",
			Tags:       []string{fmt.Sprintf("Box%02d", i), "web"},
		}
		if i%4 == 0 {
			w.OS = "Windows"
			w.Platform = "TryHackMe"
			w.Tags = append(w.Tags, "windows")
		}
		ws = append(ws, w)
	}
	ps := []catalog.Post{
		{Title: "Kerberoasting notes", Date: "2024-04-01", Summary: "s", Tags: []string{"ad"}, Link: "https://example.com/kerb"},
		{Title: "Unlinked", Date: "2024-04-02", Summary: "s", Tags: []string{"misc"}},
		{Title: "Pivoting", Date: "not a date", Summary: "s", Link: "https://example.com/pivot"},
	}
	for name, v := range map[string]any{"writeups.json": ws, "post.json": ps} {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func newTestApp(t *testing.T, mutate func(*SiteConfig)) *App {
	t.Helper()
	dir := t.TempDir()
	writeTestData(t, dir)
	cfg := SiteConfig{
		Name:               "Test Folio",
		DataURL:            dir,
		SessionSecret:      "test-secret",
		PageLoadsPerMinute: -1,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	a := New(cfg, WithPrefs(prefs.NewMemoryKV()), WithStaticDir(t.TempDir()))
	a.Echo.Logger.SetOutput(io.Discard)
	if err := a.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

// client carries cookies between requests like a browser tab.
type client struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, a *App) *client {
	return &client{t: t, app: a, cookies: make(map[string]*http.Cookie)}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if req.Method != http.MethodGet {
		if ck, ok := c.cookies["_csrf"]; ok {
			req.Header.Set("X-CSRF-Token", ck.Value)
		}
	}
	rec := serve(c.app, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

// openHome loads the full page and returns its page id.
func (c *client) openHome() string {
	c.t.Helper()
	rec := c.get("/")
	if rec.Code != http.StatusOK {
		c.t.Fatalf("GET / = %d", rec.Code)
	}
	m := pageIDPattern.FindStringSubmatch(rec.Body.String())
	if m == nil {
		c.t.Fatalf("page id not found in home page")
	}
	return m[1]
}
