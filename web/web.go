// Package web embeds the single-page UI served at the site root.
package web

import (
	_ "embed"
)

// IndexHTML is the grading UI.
//
//go:embed index.html
var IndexHTML []byte
