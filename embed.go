package folio

import "embed"

// EmbeddedAssets contains the static assets shipped with folio:
// folio.js (theme, navigation, SSE listener) and folio.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
