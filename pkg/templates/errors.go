package templates

import "errors"

var (
	// ErrUnknownType is returned when an input type is not registered.
	ErrUnknownType = errors.New("templates: unknown input type")
	// ErrTemplateNotFound is returned when a plain template is not registered.
	ErrTemplateNotFound = errors.New("templates: template not found")
	// ErrInvalidTemplate marks configuration errors in a template definition.
	ErrInvalidTemplate = errors.New("templates: invalid template definition")
	// ErrDocumentTooLarge is returned by loaders when a source exceeds the
	// configured size limit.
	ErrDocumentTooLarge = errors.New("templates: document too large")
)
