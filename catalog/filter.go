package catalog

import "strings"

// FilterState holds the search box and dropdown values. Empty fields
// impose no constraint.
type FilterState struct {
	Query      string
	Difficulty string
	OS         string
}

// IsZero reports whether the state matches everything.
func (s FilterState) IsZero() bool {
	return s.Query == "" && s.Difficulty == "" && s.OS == ""
}

// Filter returns the records matching st, in their original order. The
// input slice is never modified; the result is always a new slice.
func Filter[R Record](records []R, st FilterState) []R {
	q := strings.ToLower(st.Query)
	out := make([]R, 0, len(records))
	for _, r := range records {
		if !matchesQuery(r, q) {
			continue
		}
		if st.Difficulty != "" && r.facet(DimDifficulty) != st.Difficulty {
			continue
		}
		if st.OS != "" && r.facet(DimOS) != st.OS {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesQuery expects q already lower-cased.
func matchesQuery(r Record, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.title()), q) {
		return true
	}
	for _, t := range r.tags() {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
