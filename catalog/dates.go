package catalog

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the formats accepted for stored record dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate parses a stored date in any of the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatPretty renders a stored date as "D Month, YYYY". Values that do not
// parse are returned unchanged.
func FormatPretty(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return strconv.Itoa(t.Day()) + " " + t.Month().String() + ", " + strconv.Itoa(t.Year())
}
