// Package web holds the embedded HTML templates for the server-rendered
// pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Templates parses the embedded page templates into a single set.
// Each page is a named define ("login", "book", "section", ...).
func Templates() (*template.Template, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}
