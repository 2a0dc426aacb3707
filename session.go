package folio

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// visitorSession lives for a year and identifies the browser; preferences
	// are keyed by it.
	visitorSession = "folio_visitor"
	// tabSession is a browser-session cookie carrying the last selected
	// write-up id for the detail view.
	tabSession = "folio_tab"

	selectedWriteupKey = "currentWriteup"
)

// visitorID returns the visitor id, issuing one on first contact.
func visitorID(c echo.Context) (string, error) {
	// An undecodable cookie still yields a fresh session alongside the error.
	sess, err := session.Get(visitorSession, c)
	if sess == nil {
		return "", err
	}
	if id, ok := sess.Values["id"].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values["id"] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", err
	}
	return id, nil
}

// setSelectedWriteup stores id in the tab-scoped slot.
func setSelectedWriteup(c echo.Context, id string) error {
	sess, err := session.Get(tabSession, c)
	if sess == nil {
		return err
	}
	opts := *sess.Options
	opts.MaxAge = 0
	sess.Options = &opts
	sess.Values[selectedWriteupKey] = id
	return sess.Save(c.Request(), c.Response())
}

// selectedWriteup reads the tab-scoped slot.
func selectedWriteup(c echo.Context) (string, bool) {
	sess, err := session.Get(tabSession, c)
	if err != nil || sess == nil {
		return "", false
	}
	id, ok := sess.Values[selectedWriteupKey].(string)
	return id, ok && id != ""
}
