package folio

import (
	"encoding/xml"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/catalog"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`

	when time.Time
}

// feedItems merges write-ups and posts, newest first. Records with dates
// that do not parse keep their relative order at the end.
func feedItems(base string, ws []catalog.Writeup, ps []catalog.Post) []rssItem {
	items := make([]rssItem, 0, len(ws)+len(ps))
	for _, w := range ws {
		link := BuildURL(base) + "#writeups"
		item := rssItem{
			Title:       w.Title,
			Link:        link,
			Description: w.Summary,
			GUID:        link + "/" + w.ID,
			Categories:  []string{w.Platform, w.OS, w.Difficulty},
		}
		if t, ok := catalog.ParseDate(w.Date); ok {
			item.when = t
			item.PubDate = t.Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	for i, p := range ps {
		link := p.Link
		if link == "" {
			link = BuildURL(base) + "#posts"
		}
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Summary,
			GUID:        link,
			Categories:  p.Tags,
		}
		if p.Link == "" {
			item.GUID = link + "/" + Slugify(p.Title) + "-" + strconv.Itoa(i)
		}
		if t, ok := catalog.ParseDate(p.Date); ok {
			item.when = t
			item.PubDate = t.Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].when.IsZero() != items[j].when.IsZero() {
			return !items[i].when.IsZero()
		}
		return items[i].when.After(items[j].when)
	})
	return items
}

func (a *App) renderRSS(c echo.Context, ws []catalog.Writeup, ps []catalog.Post) error {
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        a.Config.URL,
			Description: a.Config.Description,
			Items:       feedItems(a.Config.URL, ws, ps),
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
