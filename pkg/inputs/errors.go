package inputs

import "errors"

var (
	// ErrNameInUse is returned by Create when the name is already tracked.
	ErrNameInUse = errors.New("inputs: name already in use")
	// ErrInvalidState is returned by Deserialize when the text is not a
	// valid record list.
	ErrInvalidState = errors.New("inputs: invalid serialized state")
	// ErrContainerNotFound is returned when a configured selector matches
	// nothing in the document.
	ErrContainerNotFound = errors.New("inputs: container not found")
	// ErrNoInputTypes is returned by SetupInteractiveCreation when the
	// registry has nothing to offer.
	ErrNoInputTypes = errors.New("inputs: no input types registered")
)
