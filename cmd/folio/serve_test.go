package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eringen/folio"
)

func TestRunCheckReportsCounts(t *testing.T) {
	dir := t.TempDir()
	writeups := `[{"id":"a","title":"A","platform":"HackTheBox","os":"Linux","difficulty":"easy","date":"2024-01-01","tags":["A"]},
{"title":"B","platform":"TryHackMe","os":"Windows","difficulty":"hard","date":"later"}]`
	if err := os.WriteFile(filepath.Join(dir, "writeups.json"), []byte(writeups), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "post.json"), []byte(`[{"title":"P"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATA_URL", dir)

	var out strings.Builder
	if err := runCheck([]string{filepath.Join(dir, "absent.toml")}, &out); err != nil {
		t.Fatalf("check: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"write-ups: 2 (2 platforms)",
		"posts:     1",
		"1 write-ups have no id",
		"1 write-up dates do not parse",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestRunCheckFailsOnBadData(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "writeups.json"), []byte(`{"not":"an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATA_URL", dir)

	var out strings.Builder
	if err := runCheck([]string{filepath.Join(dir, "absent.toml")}, &out); err == nil {
		t.Fatalf("expected an error for malformed data")
	}
}

func TestRunInitScaffoldsSite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-site")
	if err := runInit(dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, name := range []string{"folio.toml", "data/writeups.json", "data/post.json"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
		if strings.Contains(string(b), "{{") {
			t.Fatalf("%s still has template markers", name)
		}
	}

	t.Setenv("DATA_URL", filepath.Join(dir, "data"))
	var out strings.Builder
	if err := runCheck([]string{filepath.Join(dir, "folio.toml")}, &out); err != nil {
		t.Fatalf("check scaffolded site: %v", err)
	}
	if !strings.Contains(out.String(), "write-ups: 2") {
		t.Fatalf("unexpected check output:\n%s", out.String())
	}
	if err := runInit(dir); err == nil {
		t.Fatalf("expected init to refuse an existing directory")
	}
}

func TestToTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"my-site", "My Site"},
		{"mysite", "Mysite"},
	}
	for _, tt := range tests {
		if got := toTitle(tt.in); got != tt.want {
			t.Errorf("toTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestServeUntilClosesAppOnShutdown(t *testing.T) {
	dir := t.TempDir()
	app := folio.New(folio.SiteConfig{
		Addr:              "127.0.0.1:0",
		DataURL:           dir,
		PrefsDatabasePath: filepath.Join(dir, "prefs.db"),
		SessionSecret:     "test-secret",
	})
	app.Echo.Logger.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveUntil(ctx, app) }()

	var addr string
	for deadline := time.Now().Add(5 * time.Second); addr == ""; {
		if a := app.Echo.ListenerAddr(); a != nil {
			addr = a.String()
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get("http://" + addr + "/")
	if err != nil {
		cancel()
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		cancel()
		t.Fatalf("GET / = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serveUntil: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatalf("serveUntil did not return")
	}
	if n := app.Pages.Len(); n != 0 {
		t.Fatalf("expected pages to be closed on shutdown, %d still open", n)
	}
}
