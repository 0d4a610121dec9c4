package inputs

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultContainer is the selector of the element instances are added to.
	DefaultContainer = "#inputs"
	// DefaultSetupPanel is the selector of the element the setup UI is
	// rendered into.
	DefaultSetupPanel = "#setup"
	// DefaultRowTemplate wraps every rendered instance.
	DefaultRowTemplate = "input-row"
	// DefaultSetupTemplate is rendered by SetupInteractiveCreation.
	DefaultSetupTemplate = "setup-ui"
)

// Option configures a Manager.
type Option func(*Manager)

// WithContainer overrides the container selector.
func WithContainer(selector string) Option {
	return func(m *Manager) {
		if selector = strings.TrimSpace(selector); selector != "" {
			m.containerSelector = selector
		}
	}
}

// WithSetupPanel overrides the setup panel selector.
func WithSetupPanel(selector string) Option {
	return func(m *Manager) {
		if selector = strings.TrimSpace(selector); selector != "" {
			m.setupSelector = selector
		}
	}
}

// WithOnSerialize registers a callback receiving every serialized snapshot.
func WithOnSerialize(fn func(string)) Option {
	return func(m *Manager) {
		m.onSerialize = fn
	}
}

// WithLogger sets the logger used for configuration and data errors.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRowTemplate overrides the id of the template wrapping each instance.
func WithRowTemplate(id string) Option {
	return func(m *Manager) {
		if id = strings.TrimSpace(id); id != "" {
			m.rowTemplate = id
		}
	}
}

// WithSetupTemplate overrides the id of the setup panel template.
func WithSetupTemplate(id string) Option {
	return func(m *Manager) {
		if id = strings.TrimSpace(id); id != "" {
			m.setupTemplate = id
		}
	}
}
