package views

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/folio/catalog"
)

// results describes where one collection's grid lives in the page.
type results struct {
	endpoint  string
	container string
	metaID    string
	gridID    string
	pagerID   string
}

var (
	writeupResults = results{"/writeups/", "writeupResults", "resultsMeta", "resultsGrid", "pagination"}
	postResults    = results{"/posts/", "postResults", "resultsMetaPost", "resultsGridPost", "paginationPost"}
)

func (r results) url(pageID string, params ...string) string {
	q := url.Values{}
	q.Set("page", pageID)
	for i := 0; i+1 < len(params); i += 2 {
		q.Set(params[i], params[i+1])
	}
	return r.endpoint + "?" + q.Encode()
}

// Card renders one record tile with its selection behaviour.
func Card(c catalog.Card) templ.Component {
	return component(func(h *htmlWriter) {
		class := "card clickable-card"
		if c.Recent {
			class += " recent-card"
		}
		switch c.Action.Kind {
		case catalog.ActionDetail:
			h.raw(`<div class="`, class, `" hx-post="/writeups/`)
			h.text(url.PathEscape(c.Action.Target))
			h.raw(`/select/" hx-trigger="click" hx-swap="none">`)
		case catalog.ActionExternal:
			h.raw(`<a class="`, class, `" href="`)
			h.text(string(templ.URL(c.Action.Target)))
			h.raw(`" target="_blank" rel="noopener noreferrer">`)
		default:
			h.raw(`<div class="card">`)
		}

		if c.Recent {
			h.raw(`<div class="recent-header"><h4 class="post-title">`)
			h.text(c.Title)
			h.raw(`</h4><span class="recent-date">`)
			h.text(c.Date)
			h.raw(`</span></div><p class="recent-meta">`)
			h.text(c.Meta)
			h.raw(`</p>`)
		} else {
			h.raw(`<h3 class="post-title">`)
			h.text(c.Title)
			h.raw(`</h3>`)
			line := c.Meta
			if line == "" {
				line = c.Date
			}
			h.raw(`<p class="muted">`)
			h.text(line)
			h.raw(`</p>`)
		}
		h.raw(`<p>`)
		h.text(c.Summary)
		h.raw(`</p><div class="tags-container">`)
		for _, t := range c.Tags {
			h.raw(`<span class="`, TagClass(t.NameTag), `">`)
			h.text(t.Label)
			h.raw(`</span>`)
		}
		h.raw(`</div>`)

		if c.Action.Kind == catalog.ActionExternal {
			h.raw(`</a>`)
		} else {
			h.raw(`</div>`)
		}
	})
}

// pagination renders the Previous / page numbers / Next strip.
func pagination(r results, pageID string, s catalog.Strip) templ.Component {
	return component(func(h *htmlWriter) {
		button := func(label string, page int, disabled, active bool) {
			h.raw(`<button type="button" hx-get="`)
			h.text(r.url(pageID, "action", "page", "p", strconv.Itoa(page)))
			h.raw(`" hx-target="#`, r.container, `"`)
			if active {
				h.raw(` class="active" aria-current="page"`)
			}
			if disabled {
				h.raw(` disabled`)
			}
			h.raw(`>`)
			h.text(label)
			h.raw(`</button>`)
		}
		h.raw(`<div id="`, r.pagerID, `" class="pagination">`)
		button("Previous", s.Prev, s.PrevDisabled, false)
		for _, b := range s.Buttons {
			button(strconv.Itoa(b.Number), b.Number, false, b.Active)
		}
		button("Next", s.Next, s.NextDisabled, false)
		h.raw(`</div>`)
	})
}

func resultsArea(r results, pageID string, g catalog.Grid, extras []templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<p id="`, r.metaID, `" class="muted results-meta">`)
		h.text(g.Summary)
		h.raw(`</p><div id="`, r.gridID, `" class="grid">`)
		for _, c := range g.Cards {
			h.render(Card(c))
		}
		h.raw(`</div>`)
		h.render(pagination(r, pageID, g.Strip))
		for _, x := range extras {
			h.render(x)
		}
	})
}

// WriteupResults is the content of the write-up results container.
// Extras are appended after the grid, usually out-of-band swaps.
func WriteupResults(pageID string, g catalog.Grid, extras ...templ.Component) templ.Component {
	return resultsArea(writeupResults, pageID, g, extras)
}

// PostResults is the content of the post results container.
func PostResults(pageID string, g catalog.Grid, extras ...templ.Component) templ.Component {
	return resultsArea(postResults, pageID, g, extras)
}

// RecentGrid renders the profile's recent write-ups.
func RecentGrid(cards []catalog.Card, oob bool) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div id="recentGridProfile" class="grid"`)
		if oob {
			h.raw(` hx-swap-oob="true"`)
		}
		h.raw(`>`)
		for _, c := range cards {
			h.render(Card(c))
		}
		h.raw(`</div>`)
	})
}

// Counter renders one profile counter.
func Counter(id string, c catalog.Counter, oob bool) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<span id="`, id, `" class="stat-value"`)
		if oob {
			h.raw(` hx-swap-oob="true"`)
		}
		h.raw(`>`)
		h.text(c.String())
		h.raw(`</span>`)
	})
}

// selectTrigger makes a dropdown search on change with the rest of its form.
const selectTrigger = ` hx-get="/writeups/" hx-target="#writeupResults" hx-include="closest form" hx-trigger="change"`

// WriteupFilters renders the search box and the two dropdowns.
func WriteupFilters(pageID string, st catalog.FilterState, osOptions []string, oob bool) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div id="writeupFilters" class="filters"`)
		if oob {
			h.raw(` hx-swap-oob="true"`)
		}
		h.raw(`><input type="hidden" name="page" value="`)
		h.text(pageID)
		h.raw(`"><input type="hidden" name="action" value="search">`)
		h.raw(`<input id="searchInput" type="search" name="q" placeholder="Search title or tag" value="`)
		h.text(st.Query)
		h.raw(`"><button id="searchBtn" type="submit">Search</button>`)

		h.raw(`<select id="difficultySelect" name="difficulty"`, selectTrigger, `><option value="">All difficulties</option>`)
		for _, d := range catalog.Difficulties {
			option(h, d, catalog.Capitalize(d), d == st.Difficulty)
		}
		h.raw(`</select><select id="osSelect" name="os"`, selectTrigger, `><option value="">All OS</option>`)
		for _, o := range osOptions {
			option(h, o, o, o == st.OS)
		}
		h.raw(`</select><button id="clearFilters" type="button" hx-get="`)
		h.text(writeupResults.url(pageID, "action", "clear"))
		h.raw(`" hx-target="#`, writeupResults.container, `">Clear</button></div>`)
	})
}

// PostSearch renders the post search box.
func PostSearch(pageID, query string, oob bool) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div id="postFilters" class="filters"`)
		if oob {
			h.raw(` hx-swap-oob="true"`)
		}
		h.raw(`><input type="hidden" name="page" value="`)
		h.text(pageID)
		h.raw(`"><input type="hidden" name="action" value="search">`)
		h.raw(`<input id="searchInputPost" type="search" name="q" placeholder="Search posts" value="`)
		h.text(query)
		h.raw(`"><button id="searchBtnPost" type="submit">Search</button><button id="clearPost" type="button" hx-get="`)
		h.text(postResults.url(pageID, "action", "clear"))
		h.raw(`" hx-target="#`, postResults.container, `">Clear</button></div>`)
	})
}

func option(h *htmlWriter, value, label string, selected bool) {
	h.raw(`<option value="`)
	h.text(value)
	h.raw(`"`)
	if selected {
		h.raw(` selected`)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</option>`)
}
