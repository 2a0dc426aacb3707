package views

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/eringen/folio/catalog"
)

// HomePage is the full single-page portfolio.
func HomePage(s Shell, d Home) templ.Component {
	return Layout(s, homeBody(s.Site, d))
}

func homeBody(site SiteConfig, d Home) templ.Component {
	return component(func(h *htmlWriter) {
		active := Views[0].ID
		section := func(id string) {
			h.raw(`<section id="`, id, `" class="workspace`)
			if id == active {
				h.raw(` active`)
			}
			h.raw(`">`)
		}
		// Counters start unset; the first grid partials fill them out of band.
		stat := func(id, label string) {
			h.raw(`<div class="stat">`)
			h.render(Counter(id, catalog.Counter{}, false))
			h.raw(`<span class="stat-label">`)
			h.text(label)
			h.raw(`</span></div>`)
		}
		q := url.Values{"page": {d.PageID}}.Encode()

		section("profile")
		h.raw(`<h1>`)
		if site.Author != "" {
			h.text(site.Author)
		} else {
			h.text(site.Name)
		}
		h.raw(`</h1><p class="muted">`)
		h.text(site.Description)
		h.raw(`</p><div class="stats">`)
		stat("totalWriteups", "Write-ups")
		stat("platformCount", "Platforms")
		stat("totalRepos", "Posts")
		stat("recentRepos", "Recent")
		h.raw(`</div><h2>Recent write-ups</h2>`)
		h.render(RecentGrid(nil, false))
		h.raw(`</section>`)

		section("writeups")
		h.raw(`<h2>Write-ups</h2><form class="filter-form" hx-get="/writeups/" hx-target="#writeupResults" hx-trigger="submit">`)
		h.render(WriteupFilters(d.PageID, catalog.FilterState{}, nil, false))
		h.raw(`</form><div id="writeupResults" hx-get="/writeups/?`)
		h.text(q)
		h.raw(`" hx-trigger="load"><p id="resultsMeta" class="muted results-meta">Loading write-ups...</p></div></section>`)

		section("posts")
		h.raw(`<h2>Posts</h2><form class="filter-form" hx-get="/posts/" hx-target="#postResults" hx-trigger="submit">`)
		h.render(PostSearch(d.PageID, "", false))
		h.raw(`</form><div id="postResults" hx-get="/posts/?`)
		h.text(q)
		h.raw(`" hx-trigger="load"><p id="resultsMetaPost" class="muted results-meta">Loading posts...</p></div></section>`)
	})
}

// DetailPage shows the selected write-up. A nil write-up renders the
// "nothing selected" notice.
func DetailPage(s Shell, w *catalog.Writeup) templ.Component {
	return Layout(s, component(func(h *htmlWriter) {
		h.raw(`<article class="detail">`)
		if w == nil {
			h.raw(`<h1>No write-up selected</h1><p class="muted">Pick a write-up from the list first.</p>`)
			h.raw(`<p><a href="/#writeups">Back to write-ups</a></p></article>`)
			return
		}
		c := catalog.WriteupCard(*w, catalog.FormatPretty)
		h.raw(`<h1>`)
		h.text(c.Title)
		h.raw(`</h1><p class="muted">`)
		h.text(c.Meta)
		h.raw(` &middot; <time>`)
		h.text(c.Date)
		h.raw(`</time></p><p>`)
		h.text(c.Summary)
		h.raw(`</p><div class="tags-container">`)
		for _, t := range c.Tags {
			h.raw(`<span class="`, TagClass(t.NameTag), `">`)
			h.text(t.Label)
			h.raw(`</span>`)
		}
		h.raw(`</div><p><a href="/#writeups">Back to write-ups</a></p></article>`)
	}))
}

// NotFound is the 404 page.
func NotFound(s Shell) templ.Component {
	return Layout(s, message("Not found", "The page you are looking for does not exist."))
}

// ServerError is the 500 page.
func ServerError(s Shell) templ.Component {
	return Layout(s, message("Something went wrong", "Please try again in a moment."))
}

// Expired tells an old page to reload; htmx also receives HX-Refresh.
func Expired() templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<p class="muted results-meta">This page has expired. Reload to continue.</p>`)
	})
}

func message(title, body string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<article class="detail"><h1>`)
		h.text(title)
		h.raw(`</h1><p class="muted">`)
		h.text(body)
		h.raw(`</p><p><a href="/">Home</a></p></article>`)
	})
}
