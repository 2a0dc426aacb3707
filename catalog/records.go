// Package catalog implements the portfolio's data presentation pipeline:
// loading the write-up and post collections, filtering, paginating and
// turning records into cards.
package catalog

import "strings"

// Writeup is a security challenge walkthrough.
type Writeup struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Platform   string   `json:"platform"`
	OS         string   `json:"os"`
	Difficulty string   `json:"difficulty"`
	Date       string   `json:"date"`
	Summary    string   `json:"summary"`
	Tags       []string `json:"tags"`
}

// Post is a blog or repository summary, optionally linking elsewhere.
type Post struct {
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
	Link    string   `json:"link,omitempty"`
}

// Record is what the filter needs to know about an item.
type Record interface {
	title() string
	tags() []string
	facet(d Dimension) string
}

// Dimension names a categorical filter.
type Dimension int

const (
	DimDifficulty Dimension = iota
	DimOS
)

func (w Writeup) title() string  { return w.Title }
func (w Writeup) tags() []string { return w.Tags }

func (w Writeup) facet(d Dimension) string {
	switch d {
	case DimDifficulty:
		return w.Difficulty
	case DimOS:
		return w.OS
	}
	return ""
}

func (p Post) title() string          { return p.Title }
func (p Post) tags() []string         { return p.Tags }
func (p Post) facet(Dimension) string { return "" }

// Difficulties lists the known difficulty values in display order.
var Difficulties = []string{"easy", "medium", "hard", "insane"}

// DifficultyRank orders difficulties for display. Unknown values rank last.
func DifficultyRank(d string) int {
	for i, v := range Difficulties {
		if v == d {
			return i
		}
	}
	return len(Difficulties)
}

// Capitalize upper-cases the first letter of s for display.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
