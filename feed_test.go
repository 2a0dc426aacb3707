package folio

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eringen/folio/catalog"
)

func TestFeedItemsNewestFirst(t *testing.T) {
	ws := []catalog.Writeup{
		{ID: "old", Title: "Old", Date: "2023-01-05"},
		{ID: "odd", Title: "Odd date", Date: "sometime"},
		{ID: "new", Title: "New", Date: "2024-06-01"},
	}
	ps := []catalog.Post{
		{Title: "Middle", Date: "March 3, 2024", Link: "https://example.com/m"},
		{Title: "No link", Date: "2022-12-31"},
	}
	items := feedItems("https://example.com", ws, ps)

	var titles []string
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	want := []string{"New", "Middle", "Old", "No link", "Odd date"}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	byTitle := make(map[string]rssItem)
	for _, it := range items {
		byTitle[it.Title] = it
	}
	if got := byTitle["Middle"].Link; got != "https://example.com/m" {
		t.Fatalf("expected the post link, got %q", got)
	}
	if got := byTitle["No link"].GUID; got != "https://example.com/#posts/no-link-1" {
		t.Fatalf("unexpected guid %q", got)
	}
	if got := byTitle["New"].GUID; got != "https://example.com/#writeups/new" {
		t.Fatalf("unexpected guid %q", got)
	}
	if byTitle["Odd date"].PubDate != "" {
		t.Fatalf("expected no pubDate for an unparseable date")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Hello World", "hello-world"},
		{"  Kerberoasting: 101!  ", "kerberoasting-101"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com/"},
		{"https://example.com", []string{"post"}, "https://example.com/post/"},
		{"https://example.com/site", []string{"a", "b"}, "https://example.com/site/a/b/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}
