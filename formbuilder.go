// Package formbuilder composes the template store, the host document and the
// input manager into a ready to use form builder.
package formbuilder

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/inputs"
	"github.com/goliatone/go-formbuilder/pkg/page"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// HostPage is the document used when no host document is configured. It
// carries the default container and setup panel.
const HostPage = `<!DOCTYPE html><html><head></head><body><div id="inputs"></div><div id="setup"></div></body></html>`

// Record aliases inputs.Record, one serialized instance.
type Record = inputs.Record

// Builder bundles the pieces of one form builder session.
type Builder struct {
	Config   config.Config
	Document *dom.Document
	Store    *templates.Store
	Manager  *inputs.Manager
}

// Option configures New.
type Option func(*options)

type options struct {
	logger        *zap.Logger
	loaderOptions []templates.LoaderOption
	managerOpts   []inputs.Option
}

// WithLogger routes store and manager diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLoaderOptions forwards options to the template loader.
func WithLoaderOptions(opts ...templates.LoaderOption) Option {
	return func(o *options) {
		o.loaderOptions = append(o.loaderOptions, opts...)
	}
}

// WithManagerOptions forwards options to the input manager. They are applied
// after the options derived from the config.
func WithManagerOptions(opts ...inputs.Option) Option {
	return func(o *options) {
		o.managerOpts = append(o.managerOpts, opts...)
	}
}

// New loads the configured template sources, parses the host document and
// binds a manager to it. Template sources that fail to load are logged and
// skipped; New only fails when the result is unusable.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Builder, error) {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("formbuilder: %w", err)
	}

	store, err := NewStore(ctx, cfg, o.logger, o.loaderOptions...)
	if err != nil {
		return nil, err
	}

	doc, err := HostDocument(cfg.Document)
	if err != nil {
		return nil, err
	}

	managerOpts := append([]inputs.Option{
		inputs.WithContainer(cfg.Container),
		inputs.WithSetupPanel(cfg.SetupPanel),
		inputs.WithLogger(o.logger),
	}, o.managerOpts...)
	manager, err := inputs.New(doc, store, managerOpts...)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: %w", err)
	}

	return &Builder{Config: cfg, Document: doc, Store: store, Manager: manager}, nil
}

// NewStore loads the template sources named by cfg into a new store. Load
// failures are logged by the store; an error is returned only when no input
// type could be registered.
func NewStore(ctx context.Context, cfg config.Config, logger *zap.Logger, loaderOptions ...templates.LoaderOption) (*templates.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.HasRemoteSources() {
		loaderOptions = append([]templates.LoaderOption{templates.WithHTTPFallback(cfg.HTTPTimeout.Std())}, loaderOptions...)
	}

	storeOpts := []templates.StoreOption{templates.WithLogger(logger)}
	if cfg.Sanitize {
		storeOpts = append(storeOpts, templates.WithDefaultSanitizer())
	}
	store := templates.NewStore(NewLoader(loaderOptions...), storeOpts...)

	if err := store.Load(ctx, cfg.TemplateSources()...); err != nil {
		logger.Warn("some template sources were not loaded", zap.Error(err))
	}
	if len(store.InputTypes()) == 0 {
		return nil, fmt.Errorf("formbuilder: %w", inputs.ErrNoInputTypes)
	}
	return store, nil
}

// HostDocument parses the host document at path, or HostPage when path is
// empty.
func HostDocument(path string) (*dom.Document, error) {
	if strings.TrimSpace(path) == "" {
		return dom.ParseString(HostPage)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: open host document: %w", err)
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: parse host document %s: %w", path, err)
	}
	return doc, nil
}

// Page captures the builder's container and snapshot under the configured
// title.
func (b *Builder) Page() (page.Page, error) {
	return page.FromManager(b.Config.Title, b.Manager)
}

// DefaultTemplates exposes the bundled template documents so callers can
// reuse or extend them.
func DefaultTemplates() fs.FS {
	return templates.DefaultTemplatesFS()
}

// PageTemplates exposes the bundled page layout templates.
func PageTemplates() fs.FS {
	return page.TemplatesFS()
}
