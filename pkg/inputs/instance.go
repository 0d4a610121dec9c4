package inputs

import (
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// Instance is one rendered input in the container.
type Instance struct {
	manager   *Manager
	name      string
	inputType templates.InputType
	wrapper   *dom.Element
	control   *dom.Element
	removed   bool
}

// Name returns the unique display name.
func (i *Instance) Name() string {
	return i.name
}

// Type returns the input type id.
func (i *Instance) Type() string {
	return i.inputType.ID
}

// Value returns the current value of the control.
func (i *Instance) Value() string {
	return i.control.Value()
}

// SetValue updates the control and raises a change notification, exactly as
// a user edit would.
func (i *Instance) SetValue(value string) {
	i.control.SetValue(value)
	i.control.Dispatch(dom.EventChange)
}

// OptionalFields returns the stored optional field values declared by the
// instance's type.
func (i *Instance) OptionalFields() map[string]string {
	return storedOptionalFields(i.wrapper, i.inputType.OptionalFields)
}

// Wrapper returns the row element holding the instance.
func (i *Instance) Wrapper() *dom.Element {
	return i.wrapper
}

// Control returns the element carrying the value.
func (i *Instance) Control() *dom.Element {
	return i.control
}

// Removed reports whether the instance has left the container.
func (i *Instance) Removed() bool {
	return i.removed
}

func storedOptionalFields(wrapper *dom.Element, declared []string) map[string]string {
	out := make(map[string]string)
	for _, field := range declared {
		if value, ok := wrapper.Data(dataOptional + field); ok {
			out[field] = value
		}
	}
	return out
}
