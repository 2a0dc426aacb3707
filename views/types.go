package views

// SiteConfig holds site-wide settings populated from configuration.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string // SITE_NAME  (default "Portfolio")
	URL         string // SITE_URL   (default "http://localhost:3000")
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Shell is what every full page needs besides its body.
type Shell struct {
	Site  SiteConfig
	Meta  PageMeta
	Theme string
	// ThemeStored is false when Theme is only a guess; the browser then
	// applies its own colour scheme preference.
	ThemeStored bool
	CSRF        string
	Year        int
}

// Home is the data of the single-page portfolio view.
type Home struct {
	PageID string
}

// Views are the fragment names the navigation switches between.
var Views = []struct {
	ID    string
	Label string
}{
	{"profile", "Profile"},
	{"writeups", "Write-ups"},
	{"posts", "Posts"},
}
