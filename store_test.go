package folio

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/eringen/folio/prefs"
)

func setupTestStore(t *testing.T) (*PrefStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	s, err := NewPrefStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestPrefStoreGetMissing(t *testing.T) {
	s, _ := setupTestStore(t)
	_, ok, err := s.Get(context.Background(), "v1", "theme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected no value for a new visitor")
	}
}

func TestPrefStoreSetOverwrites(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "v1", "theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "v1", "theme", "light"); err != nil {
		t.Fatalf("set again: %v", err)
	}
	if err := s.Set(ctx, "v2", "theme", "dark"); err != nil {
		t.Fatalf("set other visitor: %v", err)
	}

	got, ok, err := s.Get(ctx, "v1", "theme")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != "light" {
		t.Fatalf("expected light, got %q", got)
	}
	got, _, _ = s.Get(ctx, "v2", "theme")
	if got != "dark" {
		t.Fatalf("expected visitors to be independent, got %q", got)
	}
}

func TestPrefStoreSurvivesReopen(t *testing.T) {
	s, path := setupTestStore(t)
	ctx := context.Background()
	if err := s.Set(ctx, "v1", "theme", "light"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewPrefStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	store := prefs.NewStore(reopened)
	theme, err := store.Theme(ctx, "v1", prefs.Dark)
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if theme != prefs.Light {
		t.Fatalf("expected light after reopen, got %q", theme)
	}
}
