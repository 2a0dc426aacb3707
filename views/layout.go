package views

import (
	"strconv"

	"github.com/a-h/templ"
)

// htmxSrc is loaded from the CDN; the CSP in middleware.go allows it.
const htmxSrc = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// Layout wraps body in the document shell: head, navigation, theme toggle
// and footer.
func Layout(s Shell, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		theme := s.Theme
		if theme == "" {
			theme = "dark"
		}
		title := s.Site.Name
		if s.Meta.Title != "" && s.Meta.Title != s.Site.Name {
			title = s.Meta.Title + " | " + s.Site.Name
		}
		desc := s.Meta.Description
		if desc == "" {
			desc = s.Site.Description
		}

		h.raw(`<!DOCTYPE html><html lang="en" data-theme="`)
		h.text(theme)
		h.raw(`"`)
		if s.ThemeStored {
			h.raw(` data-theme-stored="true"`)
		}
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><meta name="description" content="`)
		h.text(desc)
		h.raw(`"><meta name="csrf-token" content="`)
		h.text(s.CSRF)
		h.raw(`">`)
		if s.Meta.URL != "" {
			h.raw(`<link rel="canonical" href="`)
			h.text(s.Meta.URL)
			h.raw(`"><meta property="og:url" content="`)
			h.text(s.Meta.URL)
			h.raw(`">`)
		}
		ogType := s.Meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		h.raw(`<meta property="og:type" content="`)
		h.text(ogType)
		h.raw(`"><meta property="og:title" content="`)
		h.text(title)
		h.raw(`"><link rel="alternate" type="application/rss+xml" href="/feed.xml">`)
		h.raw(`<link rel="stylesheet" href="/public/folio.css">`)
		h.raw(`<script src="`, htmxSrc, `" defer></script><script src="/public/folio.js" defer></script>`)
		h.raw(`<script type="application/ld+json">`, PersonJsonLD(s.Site), `</script>`)
		h.raw(`</head><body hx-headers="`, attrJSON(map[string]string{"X-CSRF-Token": s.CSRF}), `">`)

		h.raw(`<header class="topbar"><a id="brandLink" class="brand" href="/#profile">`)
		h.text(s.Site.Name)
		h.raw(`</a><nav>`)
		for _, v := range Views {
			h.raw(`<a class="nav-link" href="/#`, v.ID, `" data-page="`, v.ID, `">`)
			h.text(v.Label)
			h.raw(`</a>`)
		}
		h.raw(`</nav><button id="themeToggle" class="theme-toggle" type="button" aria-label="Toggle theme">`)
		h.raw(`<span id="icon-sun">&#9728;</span><span id="icon-moon">&#9790;</span></button></header>`)

		h.raw(`<main>`)
		h.render(body)
		h.raw(`</main><footer class="muted">&copy; <span id="year">`, strconv.Itoa(s.Year), `</span> `)
		h.text(s.Site.Author)
		h.raw(`</footer></body></html>`)
	})
}
