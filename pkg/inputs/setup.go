package inputs

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// CSS hooks of the setup panel template.
const (
	ClassType           = "fb-type"
	ClassName           = "fb-name"
	ClassPreview        = "fb-preview"
	ClassOptionalFields = "fb-optional-fields"
	ClassAdd            = "fb-add"
)

// Setup is the interactive creation panel. Choosing a type renders a preview
// instance plus one editor per optional field; Add commits the preview to
// the container.
type Setup struct {
	manager *Manager

	root       *dom.Element
	typeSelect *dom.Element
	nameField  *dom.Element
	preview    *dom.Element
	optional   *dom.Element
	addButton  *dom.Element

	inputType      templates.InputType
	previewControl *dom.Element
	previewErr     error
	fields         []string
	editors        map[string]*dom.Element

	last    *Instance
	lastErr error
}

// SetupInteractiveCreation renders the setup template into the setup panel
// and wires it to the manager.
func (m *Manager) SetupInteractiveCreation() (*Setup, error) {
	def, err := m.registry.Template(m.setupTemplate)
	if err != nil {
		m.logger.Error("setup panel not rendered", zap.String("template", m.setupTemplate), zap.Error(err))
		return nil, err
	}
	panel, err := m.find(m.setupSelector)
	if err != nil {
		m.logger.Error("setup panel not rendered", zap.String("selector", m.setupSelector), zap.Error(err))
		return nil, err
	}
	types := m.registry.InputTypes()
	if len(types) == 0 {
		m.logger.Error("setup panel not rendered", zap.Error(ErrNoInputTypes))
		return nil, ErrNoInputTypes
	}

	fragment, err := m.doc.Fragment(render.Placeholders(def.Markup, nil))
	if err != nil {
		return nil, fmt.Errorf("inputs: render %q: %w", def.ID, err)
	}
	root := fragment.FirstElementChild()
	if root == nil {
		return nil, fmt.Errorf("%w: %q renders no element", templates.ErrInvalidTemplate, def.ID)
	}

	s := &Setup{manager: m, root: root}
	hooks := []struct {
		class string
		dst   **dom.Element
	}{
		{ClassType, &s.typeSelect},
		{ClassName, &s.nameField},
		{ClassPreview, &s.preview},
		{ClassOptionalFields, &s.optional},
		{ClassAdd, &s.addButton},
	}
	for _, hook := range hooks {
		el := root.Query("." + hook.class)
		if el == nil && root.HasClass(hook.class) {
			el = root
		}
		if el == nil {
			return nil, fmt.Errorf("%w: %q has no .%s element", templates.ErrInvalidTemplate, def.ID, hook.class)
		}
		*hook.dst = el
	}

	for _, inputType := range types {
		option := m.doc.CreateElement("option")
		option.SetAttr("value", inputType.ID)
		option.SetText(inputType.DisplayName)
		s.typeSelect.AppendChild(option)
	}

	s.typeSelect.On(dom.EventChange, func(dom.Event) { s.refresh() })
	s.addButton.On(dom.EventClick, func(dom.Event) { s.commit() })

	root.Remove()
	panel.AppendChild(root)
	s.refresh()
	return s, nil
}

// refresh regenerates the preview for the selected type under a fresh name.
// When the preview cannot be rendered the panel is left without one, so Add
// fails instead of committing a stale type.
func (s *Setup) refresh() {
	m := s.manager
	s.inputType = templates.InputType{}
	s.previewControl = nil
	s.previewErr = nil
	s.fields = s.fields[:0]
	s.editors = make(map[string]*dom.Element)
	s.preview.Clear()
	s.optional.Clear()

	typ := s.typeSelect.Value()
	inputType, err := m.registry.Input(typ)
	if err != nil {
		m.logger.Error("preview not rendered", zap.String("type", typ), zap.Error(err))
		s.previewErr = err
		return
	}

	placeholder, _ := s.nameField.Attr("placeholder")
	name := m.names.Unique(strings.TrimSpace(inputType.DisplayName + " " + placeholder))
	s.nameField.SetValue(name)

	holder, control, err := m.renderControl(inputType.Definition, name, inputType.Default())
	if err != nil {
		m.logger.Error("preview not rendered", zap.String("type", typ), zap.Error(err))
		s.previewErr = err
		return
	}
	m.wire(holder, control, inputType.Validator, false)
	s.preview.AppendChild(holder)

	s.inputType = inputType
	s.previewControl = control

	for _, field := range inputType.OptionalFields {
		editorDef, err := m.registry.Template(field)
		if err != nil {
			m.logger.Error("optional field editor not found", zap.String("field", field), zap.Error(err))
			continue
		}
		editorHolder, editor, err := m.renderControl(editorDef, name, editorDef.Default())
		if err != nil {
			m.logger.Error("optional field editor not rendered", zap.String("field", field), zap.Error(err))
			continue
		}

		field := field
		editor.On(dom.EventChange, func(dom.Event) {
			control.SetAttr(field, editor.Value())
			control.Dispatch(dom.EventChange)
		})
		control.SetAttr(field, editor.Value())

		s.fields = append(s.fields, field)
		s.editors[field] = editor
		s.optional.AppendChild(editorHolder)
	}
}

// commit creates an instance from the preview and starts a new preview.
func (s *Setup) commit() {
	m := s.manager
	s.last, s.lastErr = nil, nil
	if s.previewControl == nil {
		s.lastErr = s.previewErr
		if s.lastErr == nil {
			s.lastErr = fmt.Errorf("%w: %q", templates.ErrUnknownType, s.typeSelect.Value())
		}
		return
	}

	name := strings.TrimSpace(s.nameField.Value())
	if name == "" || m.names.Has(name) {
		name = m.names.Unique(name)
	}
	value := s.previewControl.Value()
	optional := make(map[string]string, len(s.fields))
	for _, field := range s.fields {
		optional[field], _ = s.previewControl.Attr(field)
	}

	s.last, s.lastErr = m.Create(s.inputType.ID, name, &value, optional)
	s.refresh()
	m.serializeLogged()
}

// Types lists the ids offered by the type selector.
func (s *Setup) Types() []string {
	var out []string
	for _, option := range s.typeSelect.QueryAll("option") {
		value, _ := option.Attr("value")
		out = append(out, value)
	}
	return out
}

// Labels lists the option labels of the type selector, aligned with Types.
func (s *Setup) Labels() []string {
	var out []string
	for _, option := range s.typeSelect.QueryAll("option") {
		out = append(out, option.Text())
	}
	return out
}

// Type returns the selected type id.
func (s *Setup) Type() string {
	return s.inputType.ID
}

// InputType returns the selected input type.
func (s *Setup) InputType() templates.InputType {
	return s.inputType
}

// Name returns the content of the name field.
func (s *Setup) Name() string {
	return s.nameField.Value()
}

// Value returns the preview's value.
func (s *Setup) Value() string {
	if s.previewControl == nil {
		return ""
	}
	return s.previewControl.Value()
}

// Preview returns the preview control.
func (s *Setup) Preview() *dom.Element {
	return s.previewControl
}

// OptionalFields lists the fields that have an editor, in declaration order.
func (s *Setup) OptionalFields() []string {
	return append([]string(nil), s.fields...)
}

// OptionalField returns the value of an optional field editor.
func (s *Setup) OptionalField(field string) (string, bool) {
	editor, ok := s.editors[field]
	if !ok {
		return "", false
	}
	return editor.Value(), true
}

// SelectType picks typ in the type selector.
func (s *Setup) SelectType(typ string) error {
	if _, err := s.manager.registry.Input(typ); err != nil {
		return err
	}
	s.typeSelect.SetValue(typ)
	s.typeSelect.Dispatch(dom.EventChange)
	return nil
}

// SetName types name into the name field.
func (s *Setup) SetName(name string) {
	s.nameField.SetValue(name)
	s.nameField.Dispatch(dom.EventChange)
}

// SetValue edits the preview's value.
func (s *Setup) SetValue(value string) {
	if s.previewControl == nil {
		return
	}
	s.previewControl.SetValue(value)
	s.previewControl.Dispatch(dom.EventChange)
}

// SetOptionalField edits the editor of field.
func (s *Setup) SetOptionalField(field, value string) error {
	editor, ok := s.editors[field]
	if !ok {
		return fmt.Errorf("inputs: type %q has no optional field %q", s.inputType.ID, field)
	}
	editor.SetValue(value)
	editor.Dispatch(dom.EventChange)
	return nil
}

// Add presses the add button and returns the instance it created.
func (s *Setup) Add() (*Instance, error) {
	s.addButton.Dispatch(dom.EventClick)
	return s.last, s.lastErr
}
