// Package web holds the embedded HTML templates and static assets for the
// dashboard UI.
package web

import "embed"

// Templates holds the embedded web/templates directory.
//
//go:embed templates
var Templates embed.FS

// Static holds the embedded web/static directory.
// Handlers access it via fs.Sub(Static, "static").
//
//go:embed static
var Static embed.FS
