package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates. Generated text is
// converted from markdown to HTML and sanitised before it reaches a page.
type Renderer struct {
	pages  map[string]*template.Template
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer parses every page template together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		pages:  map[string]*template.Template{},
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
	funcs := template.FuncMap{"markdown": r.Markdown}

	for _, page := range []string{"ideas.html", "workspace.html", "error.html"} {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Markdown renders model output as sanitised HTML. Unparseable input is
// shown escaped.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

// Render writes page with data and the given status. The template is
// executed into a buffer first so a failure never leaves a partial page.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
