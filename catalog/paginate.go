package catalog

// PerPage is the fixed number of cards in one grid page.
const PerPage = 9

// Page is one slice of a filtered collection.
type Page[T any] struct {
	Items      []T
	Current    int
	TotalPages int
	Total      int
}

// Paginate slices items into pages of size and returns the page closest to
// the requested one. There is always at least one page, even when items is
// empty.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = PerPage
	}
	total := (len(items) + size - 1) / size
	if total < 1 {
		total = 1
	}
	page = clamp(page, 1, total)
	start := (page - 1) * size
	end := min(start+size, len(items))
	if start > end {
		start = end
	}
	return Page[T]{
		Items:      items[start:end:end],
		Current:    page,
		TotalPages: total,
		Total:      len(items),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PageButton is one numbered button of the pagination strip.
type PageButton struct {
	Number int
	Active bool
}

// Strip is the pagination control row: Previous, numbered pages, Next.
type Strip struct {
	Prev         int
	PrevDisabled bool
	Buttons      []PageButton
	Next         int
	NextDisabled bool
}

// StripFor derives the control row for a page.
func StripFor[T any](p Page[T]) Strip {
	s := Strip{
		Prev:         p.Current - 1,
		PrevDisabled: p.Current <= 1,
		Next:         p.Current + 1,
		NextDisabled: p.Current >= p.TotalPages,
		Buttons:      make([]PageButton, 0, p.TotalPages),
	}
	for i := 1; i <= p.TotalPages; i++ {
		s.Buttons = append(s.Buttons, PageButton{Number: i, Active: i == p.Current})
	}
	return s
}
