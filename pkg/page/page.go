// Package page lays out a composed form as a standalone HTML document.
package page

import (
	"embed"
	"fmt"
	"io"
	"io/fs"

	"github.com/goliatone/go-formbuilder/pkg/inputs"
	"github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
)

// TemplateName is the page template looked up in the engine.
const TemplateName = "page"

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS returns the bundled page templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

// Page is the data handed to the page template. Body is trusted markup;
// Title and State are escaped.
type Page struct {
	Title string
	Body  string
	State string
}

// FromManager captures the container markup and its current state. It only
// reads the manager: no serialization callback fires.
func FromManager(title string, manager *inputs.Manager) (Page, error) {
	state, err := manager.State()
	if err != nil {
		return Page{}, err
	}
	return Page{
		Title: title,
		Body:  manager.Container().OuterHTML(),
		State: state,
	}, nil
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithEngine replaces the bundled pongo2 engine.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTemplate overrides the template name.
func WithTemplate(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.template = name
		}
	}
}

// Renderer renders pages through a template engine.
type Renderer struct {
	engine   template.TemplateRenderer
	template string
}

// New returns a Renderer using the bundled page template unless an engine is
// supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{template: TemplateName}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("page: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// Render writes p through the page template.
func (r *Renderer) Render(p Page, out ...io.Writer) (string, error) {
	return r.engine.RenderTemplate(r.template, map[string]any{
		"title": p.Title,
		"body":  p.Body,
		"state": p.State,
	}, out...)
}
