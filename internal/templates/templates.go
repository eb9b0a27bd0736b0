package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wpinocho/style-storefront/internal/i18n"
)

//go:embed partials/*.tmpl pages/*.tmpl
var files embed.FS

var tracer = otel.Tracer("github.com/wpinocho/style-storefront/internal/templates")

// Page names.
const (
	PageHome     = "home"
	PageCart     = "cart"
	PageCheckout = "checkout"
	PageError    = "error"
)

// Fragment names.
const (
	FragmentProducts   = "products"
	FragmentNewsletter = "newsletter"
)

// Renderer executes the embedded page and fragment templates.
type Renderer struct {
	base  *template.Template
	pages map[string]*template.Template
}

// New parses the embedded templates with translation helpers bound to bundle.
func New(bundle *i18n.Bundle) (*Renderer, error) {
	return Parse(files, bundle)
}

// Parse reads partials/*.tmpl and pages/*.tmpl from fsys. Each page is parsed
// into its own clone of the partials so pages can each define "content".
func Parse(fsys fs.FS, bundle *i18n.Bundle) (*Renderer, error) {
	base, err := template.New("_root").Funcs(FuncMap(bundle)).ParseFS(fsys, "partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("templates: parse partials: %w", err)
	}

	pageFiles, err := fs.Glob(fsys, "pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	r := &Renderer{base: base, pages: make(map[string]*template.Template, len(pageFiles))}
	for _, file := range pageFiles {
		name := strings.TrimSuffix(path.Base(file), ".tmpl")
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("templates: parse %s: %w", file, err)
		}
		layout := clone.Lookup("base")
		if layout == nil {
			return nil, fmt.Errorf("templates: %s: missing base layout", file)
		}
		r.pages[name] = layout
	}
	return r, nil
}

// FuncMap exposes the helpers available to every template.
func FuncMap(bundle *i18n.Bundle) template.FuncMap {
	return template.FuncMap{
		"t": func(lang, key string) string {
			if bundle == nil {
				return key
			}
			return bundle.T(lang, key)
		},
	}
}

// Page returns the component rendering page name inside the layout.
func (r *Renderer) Page(name string, data any) (templ.Component, error) {
	t, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("templates: unknown page %q", name)
	}
	return traced("page "+name, templ.FromGoHTML(t, data)), nil
}

// Fragment returns the component rendering a partial without the layout.
func (r *Renderer) Fragment(name string, data any) (templ.Component, error) {
	t := r.base.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("templates: unknown fragment %q", name)
	}
	return traced("fragment "+name, templ.FromGoHTML(t, data)), nil
}

// Render writes component c with status.
func Render(w http.ResponseWriter, req *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, req)
}

func traced(name string, c templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ctx, span := tracer.Start(ctx, "render "+name)
		defer span.End()
		span.SetAttributes(attribute.String("template", name))
		err := c.Render(ctx, w)
		if err != nil {
			span.RecordError(err)
		}
		return err
	})
}
