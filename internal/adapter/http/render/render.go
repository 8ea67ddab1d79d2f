package render

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer is the view-rendering port consumed by the handlers: render
// template name with a data bag. The handlers never touch the template
// engine directly.
type Renderer interface {
	Render(w http.ResponseWriter, name string, data interface{}) error
}

// TemplateRenderer serves the embedded html/template views.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

var pageFiles = map[string]string{
	"listings/index": "templates/index.html",
	"listings/show":  "templates/show.html",
	"listings/new":   "templates/new.html",
	"listings/edit":  "templates/edit.html",
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	templates := make(map[string]*template.Template, len(pageFiles))
	for name, file := range pageFiles {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &TemplateRenderer{templates: templates}, nil
}

func (r *TemplateRenderer) Render(w http.ResponseWriter, name string, data interface{}) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "layout", data)
}
