package templates

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used to report skipped sources.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSanitizer passes every template body through policy before it is
// registered.
func WithSanitizer(policy *bluemonday.Policy) StoreOption {
	return func(s *Store) {
		s.sanitizer = policy
	}
}

// WithDefaultSanitizer is WithSanitizer(DefaultPolicy()).
func WithDefaultSanitizer() StoreOption {
	return WithSanitizer(DefaultPolicy())
}

// Store keeps the input and plain template registries. Later loads replace
// entries with the same id. Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	loader    Loader
	logger    *zap.Logger
	sanitizer *bluemonday.Policy
	inputs    registry[InputType]
	templates registry[Definition]
}

// NewStore returns an empty store that fetches documents through loader.
func NewStore(loader Loader, options ...StoreOption) *Store {
	store := &Store{
		loader:    loader,
		logger:    zap.NewNop(),
		inputs:    newRegistry[InputType](),
		templates: newRegistry[Definition](),
	}
	for _, opt := range options {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// Load fetches and parses every source in order. A source that cannot be
// fetched or parsed is logged and skipped while the remaining sources still
// load; nothing is rolled back. The returned error joins every per-source
// failure and is nil when all sources loaded.
func (s *Store) Load(ctx context.Context, sources ...Source) error {
	if s.loader == nil {
		return errors.New("templates: loader is not configured")
	}

	var errs []error
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if src == nil {
			errs = append(errs, errors.New("templates: source is nil"))
			continue
		}

		doc, err := s.loader.Load(ctx, src)
		if err != nil {
			s.logger.Error("template source skipped",
				zap.String("source", src.Location()),
				zap.String("kind", string(src.Kind())),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("templates: fetch %s: %w", src.Location(), err))
			continue
		}

		if err := s.Parse(doc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Parse registers every template of doc. A malformed definition rejects the
// whole document and leaves the registries untouched.
func (s *Store) Parse(doc Document) error {
	parsed, err := parseDocument(doc, s.sanitizer)
	if err != nil {
		s.logger.Error("template source rejected",
			zap.String("source", doc.Location()),
			zap.Error(err),
		)
		return err
	}
	if len(parsed) == 0 {
		s.logger.Warn("template source defines no templates", zap.String("source", doc.Location()))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range parsed {
		if entry.input {
			s.inputs.put(entry.def.ID, newInputType(entry.def))
		} else {
			s.templates.put(entry.def.ID, entry.def)
		}
	}
	s.logger.Debug("template source loaded",
		zap.String("source", doc.Location()),
		zap.Int("templates", len(parsed)),
	)
	return nil
}

// Input returns the input type registered under id.
func (s *Store) Input(id string) (InputType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.inputs.get(id)
	if !ok {
		return InputType{}, fmt.Errorf("%w: %q", ErrUnknownType, id)
	}
	entry.Definition = cloneDefinition(entry.Definition)
	return entry, nil
}

// Template returns the plain template registered under id.
func (s *Store) Template(id string) (Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.templates.get(id)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	return cloneDefinition(entry), nil
}

// HasInput reports whether an input type is registered under id.
func (s *Store) HasInput(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.inputs.get(id)
	return ok
}

// HasTemplate reports whether a plain template is registered under id.
func (s *Store) HasTemplate(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.templates.get(id)
	return ok
}

// InputTypes lists input types in the order their ids were first registered.
func (s *Store) InputTypes() []InputType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]InputType, 0, len(s.inputs.order))
	for _, id := range s.inputs.order {
		entry := s.inputs.entries[id]
		entry.Definition = cloneDefinition(entry.Definition)
		out = append(out, entry)
	}
	return out
}

// Templates lists plain templates in the order their ids were first
// registered.
func (s *Store) Templates() []Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Definition, 0, len(s.templates.order))
	for _, id := range s.templates.order {
		out = append(out, cloneDefinition(s.templates.entries[id]))
	}
	return out
}

type registry[T any] struct {
	order   []string
	entries map[string]T
}

func newRegistry[T any]() registry[T] {
	return registry[T]{entries: make(map[string]T)}
}

func (r *registry[T]) put(id string, value T) {
	if _, exists := r.entries[id]; !exists {
		r.order = append(r.order, id)
	}
	r.entries[id] = value
}

func (r *registry[T]) get(id string) (T, bool) {
	value, ok := r.entries[id]
	return value, ok
}
