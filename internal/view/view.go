// Package view renders the HTML templates embedded in the binary.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
)

// View represents a collection of parsed HTML templates.
type View struct {
	templates map[string]*template.Template
}

// New parses every page under templates/pages together with the layouts and
// partials, and every partial on its own so it can be rendered as a
// fragment under the name "partials/<file>".
func New(templateFS fs.FS, renderer *Markdown) (*View, error) {
	v := &View{
		templates: make(map[string]*template.Template),
	}
	funcs := Funcs(renderer)

	layouts, err := fs.Glob(templateFS, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}
	partials, err := fs.Glob(templateFS, "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	shared := append(append([]string{}, layouts...), partials...)
	for _, page := range pages {
		files := append(append([]string{}, shared...), page)
		name := path.Base(page)
		ts, err := template.New(name).Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		v.templates[name] = ts
	}

	for _, partial := range partials {
		name := "partials/" + path.Base(partial)
		ts, err := template.New(path.Base(partial)).Funcs(funcs).ParseFS(templateFS, partial)
		if err != nil {
			return nil, fmt.Errorf("failed to parse partial %s: %w", name, err)
		}
		v.templates[name] = ts
	}

	return v, nil
}

// Has reports whether a template with the given name exists.
func (v *View) Has(name string) bool {
	_, ok := v.templates[name]
	return ok
}

// Render executes a specific template by name. The shared site context and
// the request path are added to data.
func (v *View) Render(w io.Writer, r *http.Request, name string, data map[string]interface{}) error {
	ts, ok := v.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	if r != nil {
		if _, set := data["Site"]; !set {
			data["Site"] = Site(r.Context())
		}
		data["CurrentPath"] = r.URL.Path
	}

	// Execute the template into a buffer first to catch any errors
	// before writing to the response writer.
	buf := new(bytes.Buffer)
	if err := ts.Execute(buf, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
