package folio

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/catalog"
	"github.com/eringen/folio/prefs"
	"github.com/eringen/folio/views"
)

// sseKeepAlive is how often an idle theme stream sends a comment line.
const sseKeepAlive = 25 * time.Second

func (a *App) handleHome(c echo.Context) error {
	if a.pageLimiter != nil && !a.pageLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many page loads. Try again in a minute.")
	}
	theme, stored := a.currentTheme(c)
	id, _ := a.Pages.Open()
	meta := views.PageMeta{
		Title:       a.Config.Name,
		Description: a.Config.Description,
		URL:         BuildURL(a.Config.URL),
		OGType:      "website",
	}
	return Render(c, views.HomePage(a.shell(c, meta, theme, stored), views.Home{PageID: id}))
}

func (a *App) handleWriteups(c echo.Context) error {
	pageID := c.QueryParam("page")
	ctrl, ok := a.Pages.Get(pageID)
	if !ok {
		return renderExpired(c)
	}
	ctx := c.Request().Context()

	var (
		g   catalog.Grid
		err error
	)
	action := c.QueryParam("action")
	switch action {
	case "search":
		g, err = ctrl.SearchWriteups(ctx, catalog.FilterState{
			Query:      c.QueryParam("q"),
			Difficulty: c.QueryParam("difficulty"),
			OS:         c.QueryParam("os"),
		})
	case "clear":
		g, err = ctrl.ClearWriteupFilters(ctx)
	case "page":
		g, err = ctrl.WriteupsPage(ctx, pageNumber(c.QueryParam("p")))
	default:
		g, err = ctrl.Writeups(ctx)
	}
	if err != nil {
		return err
	}

	var extras []templ.Component
	if action == "" || action == "clear" {
		opts, err := ctrl.OSOptions(ctx)
		if err != nil {
			return err
		}
		extras = append(extras, views.WriteupFilters(pageID, g.Filter, opts, true))
	}
	if action == "" {
		recent, err := ctrl.Recent(ctx)
		if err != nil {
			return err
		}
		stats, err := ctrl.Stats(ctx)
		if err != nil {
			return err
		}
		extras = append(extras,
			views.RecentGrid(recent, true),
			views.Counter("totalWriteups", stats.Writeups, true),
			views.Counter("platformCount", stats.Platforms, true),
		)
	}
	return Render(c, views.WriteupResults(pageID, g, extras...))
}

func (a *App) handlePosts(c echo.Context) error {
	pageID := c.QueryParam("page")
	ctrl, ok := a.Pages.Get(pageID)
	if !ok {
		return renderExpired(c)
	}
	ctx := c.Request().Context()

	var (
		g   catalog.Grid
		err error
	)
	action := c.QueryParam("action")
	switch action {
	case "search":
		g, err = ctrl.SearchPosts(ctx, c.QueryParam("q"))
	case "clear":
		g, err = ctrl.ClearPostSearch(ctx)
	case "page":
		g, err = ctrl.PostsPage(ctx, pageNumber(c.QueryParam("p")))
	default:
		g, err = ctrl.Posts(ctx)
	}
	if err != nil {
		return err
	}

	var extras []templ.Component
	if action == "clear" {
		extras = append(extras, views.PostSearch(pageID, "", true))
	}
	if action == "" {
		stats, err := ctrl.Stats(ctx)
		if err != nil {
			return err
		}
		extras = append(extras,
			views.Counter("totalRepos", stats.Posts, true),
			views.Counter("recentRepos", stats.RecentPosts, true),
		)
	}
	return Render(c, views.PostResults(pageID, g, extras...))
}

func (a *App) handleSelectWriteup(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing write-up id")
	}
	if err := setSelectedWriteup(c, id); err != nil {
		return err
	}
	if isHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/post/")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/post/")
}

func (a *App) handleDetail(c echo.Context) error {
	theme, stored := a.currentTheme(c)
	meta := views.PageMeta{URL: BuildURL(a.Config.URL, "post"), OGType: "article"}

	id, ok := selectedWriteup(c)
	if !ok {
		meta.Title = "Write-up"
		return Render(c, views.DetailPage(a.shell(c, meta, theme, stored), nil))
	}
	ws, err := catalog.Load[catalog.Writeup](c.Request().Context(), a.Source, a.collections.Writeups)
	if err != nil {
		return fmt.Errorf("detail view: %w", err)
	}
	w, found := catalog.FindWriteup(ws, id)
	if !found {
		meta.Title = "Write-up"
		return RenderStatus(c, http.StatusNotFound, views.DetailPage(a.shell(c, meta, theme, stored), nil))
	}
	meta.Title = w.Title
	meta.Description = w.Summary
	return Render(c, views.DetailPage(a.shell(c, meta, theme, stored), &w))
}

// handleTheme sets the theme given in the "theme" form value, or toggles
// from "current" when no theme is given.
func (a *App) handleTheme(c echo.Context) error {
	visitor, err := visitorID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var theme prefs.Theme
	if v := c.FormValue("theme"); v != "" {
		t, ok := prefs.ParseTheme(v)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "theme must be light or dark")
		}
		if err := a.Prefs.SetTheme(ctx, visitor, t); err != nil {
			return err
		}
		theme = t
	} else {
		current, ok := prefs.ParseTheme(c.FormValue("current"))
		if !ok {
			current = fallbackTheme(c)
		}
		if theme, err = a.Prefs.Toggle(ctx, visitor, current); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"theme": string(theme)})
}

// handleThemeEvents streams the visitor's theme changes as server-sent
// events so every open tab follows a change made in another one.
func (a *App) handleThemeEvents(c echo.Context) error {
	visitor, err := visitorID(c)
	if err != nil {
		return err
	}
	current, stored := a.currentTheme(c)
	ch, cancel := a.Prefs.Subscribe(visitor)
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-store")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	// Without a stored theme the page follows the browser's colour scheme,
	// so there is nothing to announce until the visitor picks one.
	if stored {
		if _, err := fmt.Fprintf(res, "event: theme\ndata: %s\n\n", current); err != nil {
			return nil
		}
	}
	res.Flush()

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()
	done := c.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case t := <-ch:
			if _, err := fmt.Fprintf(res, "event: theme\ndata: %s\n\n", t); err != nil {
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
		}
		res.Flush()
	}
}

// currentTheme returns the visitor's stored theme, falling back to the
// browser's colour scheme hint. stored reports whether the visitor has
// chosen one. Store failures are logged, not fatal.
func (a *App) currentTheme(c echo.Context) (theme prefs.Theme, stored bool) {
	c.Response().Header().Set("Accept-CH", "Sec-CH-Prefers-Color-Scheme")
	fallback := fallbackTheme(c)
	visitor, err := visitorID(c)
	if err != nil {
		c.Logger().Warnf("visitor id: %v", err)
		return fallback, false
	}
	t, ok, err := a.Prefs.Stored(c.Request().Context(), visitor)
	if err != nil {
		c.Logger().Errorf("load theme: %v", err)
	}
	if !ok {
		return fallback, false
	}
	return t, true
}

func fallbackTheme(c echo.Context) prefs.Theme {
	if c.Request().Header.Get("Sec-CH-Prefers-Color-Scheme") == `"light"` ||
		c.Request().Header.Get("Sec-CH-Prefers-Color-Scheme") == "light" {
		return prefs.Light
	}
	return prefs.Dark
}

func pageNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return n
}

// handleRobots generates robots.txt using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) handleSitemap(c echo.Context) error {
	ws, err := catalog.Load[catalog.Writeup](c.Request().Context(), a.Source, a.collections.Writeups)
	if err != nil {
		c.Logger().Errorf("sitemap: %v", err)
		ws = nil
	}
	return a.renderSitemap(c, ws)
}

func (a *App) handleFeed(c echo.Context) error {
	ctx := c.Request().Context()
	ws, werr := catalog.Load[catalog.Writeup](ctx, a.Source, a.collections.Writeups)
	ps, perr := catalog.Load[catalog.Post](ctx, a.Source, a.collections.Posts)
	if werr != nil && perr != nil {
		return errors.Join(werr, perr)
	}
	if werr != nil {
		c.Logger().Errorf("feed: %v", werr)
	}
	if perr != nil {
		c.Logger().Errorf("feed: %v", perr)
	}
	return a.renderRSS(c, ws, ps)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	shell := a.shell(c, views.PageMeta{Title: a.Config.Name}, fallbackTheme(c), false)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(shell))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(shell))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
