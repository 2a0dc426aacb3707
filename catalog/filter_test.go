package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilterEmptyStateReturnsAllInOrder(t *testing.T) {
	ws := sampleWriteups(12)
	got := Filter(ws, FilterState{})
	if diff := cmp.Diff(ws, got); diff != "" {
		t.Errorf("Filter with empty state mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	ws := sampleWriteups(6)
	before := append([]Writeup(nil), ws...)
	got := Filter(ws, FilterState{Query: "windows"})
	if diff := cmp.Diff(before, ws); diff != "" {
		t.Errorf("input changed (-before +after):\n%s", diff)
	}
	if len(got) > 0 && &got[0] == &ws[0] {
		t.Error("result shares backing array with input")
	}
}

func TestFilterQueryMatchesTitleOrTag(t *testing.T) {
	ws := sampleWriteups(12)
	tests := []struct {
		query string
		want  []string
	}{
		{"windows", []string{"box-04", "box-08", "box-12"}},
		{"WINDOWS", []string{"box-04", "box-08", "box-12"}},
		{"box 1", []string{"box-10", "box-11", "box-12"}},
		{"box03", []string{"box-03"}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		got := Filter(ws, FilterState{Query: tt.query})
		var ids []string
		for _, w := range got {
			ids = append(ids, w.ID)
		}
		if diff := cmp.Diff(tt.want, ids); diff != "" {
			t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tt.query, diff)
		}
	}
}

func TestFilterResultMatchesAndExcludedDoNot(t *testing.T) {
	ws := sampleWriteups(12)
	q := "web"
	got := Filter(ws, FilterState{Query: q})
	in := make(map[string]bool)
	for _, w := range got {
		in[w.ID] = true
		if !matchesQuery(w, q) {
			t.Errorf("%s in result without matching %q", w.ID, q)
		}
	}
	for _, w := range ws {
		if !in[w.ID] && matchesQuery(w, strings.ToLower(q)) {
			t.Errorf("%s matches %q but was excluded", w.ID, q)
		}
	}
}

func TestFilterCategoricalExactMatch(t *testing.T) {
	ws := sampleWriteups(12)

	got := Filter(ws, FilterState{OS: "Windows"})
	if len(got) != 3 {
		t.Fatalf("OS=Windows: got %d records, want 3", len(got))
	}
	if got := Filter(ws, FilterState{OS: "windows"}); len(got) != 0 {
		t.Errorf("OS match should be case-sensitive, got %d records", len(got))
	}

	got = Filter(ws, FilterState{Difficulty: "hard"})
	for _, w := range got {
		if w.Difficulty != "hard" {
			t.Errorf("Difficulty=hard returned %s with %q", w.ID, w.Difficulty)
		}
	}
	if len(got) != 3 {
		t.Errorf("Difficulty=hard: got %d records, want 3", len(got))
	}
}

func TestFilterPredicatesAreANDed(t *testing.T) {
	ws := sampleWriteups(12)
	got := Filter(ws, FilterState{Query: "windows", Difficulty: "easy"})
	// box-04, box-08 and box-12 are Windows boxes; 4%4 == 0 gives "easy".
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	got = Filter(ws, FilterState{Query: "windows", Difficulty: "easy", OS: "Linux"})
	if len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}

func TestFilterPostsIgnoreCategoricals(t *testing.T) {
	posts := []Post{
		{Title: "Go tooling", Tags: []string{"go"}},
		{Title: "Rust notes", Tags: []string{"rust", "Systems"}},
	}
	got := Filter(posts, FilterState{Query: "systems"})
	if len(got) != 1 || got[0].Title != "Rust notes" {
		t.Errorf("Filter posts by tag = %v", got)
	}
	if got := Filter(posts, FilterState{OS: "Linux"}); len(got) != 0 {
		t.Errorf("posts have no OS, got %d matches", len(got))
	}
}
