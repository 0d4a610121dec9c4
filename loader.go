package formbuilder

import (
	internalLoader "github.com/goliatone/go-formbuilder/internal/templates/loader"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// NewLoader constructs a template loader while keeping the concrete type
// hidden from consumers. The bundled templates are reachable through
// templates.DefaultSource unless an option replaces the file system.
func NewLoader(options ...templates.LoaderOption) templates.Loader {
	opts := append([]templates.LoaderOption{templates.WithFileSystem(templates.DefaultTemplatesFS())}, options...)
	return internalLoader.New(templates.NewLoaderOptions(opts...))
}
