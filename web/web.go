// Package web embeds the static client UI.
package web

import _ "embed"

// IndexHTML is the single-page client served at the root route.
//
//go:embed index.html
var IndexHTML []byte
