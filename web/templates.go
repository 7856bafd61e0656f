package web

import (
	"embed"
	"html/template"
	"io/fs"
	"sync"
)

//go:embed *.html app.css
var content embed.FS

var (
	tmpl *template.Template
	once sync.Once
)

// Templates returns the parsed HTML templates for the UI, embedded at build time.
// layout.html includes the page templates (home.html, recommend.html,
// analytics.html) by name, chosen through LayoutData.PageTemplate.
func Templates() *template.Template {
	once.Do(func() {
		tmpl = template.Must(template.ParseFS(content, "*.html"))
	})
	return tmpl
}

// StaticFS exposes embedded static assets such as CSS.
func StaticFS() fs.FS {
	return content
}
