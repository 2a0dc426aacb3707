package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func TestLoadOverHTTPBustsCache(t *testing.T) {
	var gotNocache, gotCacheControl, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotNocache = r.URL.Query().Get("nocache")
		gotCacheControl = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"title":"a","date":"2024-01-01","summary":"s","tags":["x"]}]`))
	}))
	defer srv.Close()

	src := NewSource(srv.URL + "/data")
	src.Now = func() time.Time { return time.UnixMilli(1700000000123) }

	posts, err := Load[Post](context.Background(), src, "post.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "a" {
		t.Errorf("posts = %+v", posts)
	}
	if gotPath != "/data/post.json" {
		t.Errorf("path = %q, want /data/post.json", gotPath)
	}
	if gotNocache != "1700000000123" {
		t.Errorf("nocache = %q", gotNocache)
	}
	if gotCacheControl != "no-cache" {
		t.Errorf("Cache-Control = %q", gotCacheControl)
	}
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "writeups.json", sampleWriteups(4))

	ws, err := Load[Writeup](context.Background(), NewSource(dir), "writeups.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ws) != 4 || ws[3].OS != "Windows" {
		t.Errorf("loaded %+v", ws)
	}

	ws, err = Load[Writeup](context.Background(), NewSource("file://"+dir), "writeups.json")
	if err != nil || len(ws) != 4 {
		t.Errorf("file:// base: %d records, err %v", len(ws), err)
	}
}

func TestLoadErrors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	dir := t.TempDir()
	if err := os.WriteFile(dir+"/bad.json", []byte(`{"not":"an array"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir+"/null.json", []byte(`null`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		base string
		ref  string
	}{
		{"server error", failing.URL, "post.json"},
		{"network error", closedURL, "post.json"},
		{"missing file", dir, "missing.json"},
		{"malformed json", dir, "bad.json"},
		{"null payload", dir, "null.json"},
		{"unsupported scheme", "ftp://example.com", "post.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load[Post](context.Background(), NewSource(tt.base), tt.ref)
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("err = %v, want *LoadError", err)
			}
			if le.Unwrap() == nil {
				t.Error("LoadError should wrap the cause")
			}
		})
	}
}
