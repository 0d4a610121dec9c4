package inputs

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/naming"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// CSS hooks the manager looks for in rendered templates.
const (
	ClassControl  = "fb-input"
	ClassWrapper  = "fb-input-wrapper"
	ClassDelete   = "fb-delete"
	AttrSync      = "data-sync"
	dataName      = "uniquename"
	dataType      = "type"
	dataOptional  = "optionalfield-"
	slotIDPrefix  = "input-replacement-"
	selectControl = "." + ClassControl
	selectWrapper = "." + ClassWrapper
)

// Registry resolves the templates a Manager renders. *templates.Store
// satisfies it.
type Registry interface {
	Input(id string) (templates.InputType, error)
	Template(id string) (templates.Definition, error)
	InputTypes() []templates.InputType
}

// Manager owns the instances rendered into a container and the set of names
// they use.
type Manager struct {
	doc      *dom.Document
	registry Registry
	logger   *zap.Logger
	names    *naming.Names

	containerSelector string
	setupSelector     string
	rowTemplate       string
	setupTemplate     string
	onSerialize       func(string)

	container *dom.Element
	rows      map[*html.Node]*Instance
	snapshot  string
}

// New binds a Manager to the container found in doc.
func New(doc *dom.Document, registry Registry, options ...Option) (*Manager, error) {
	if doc == nil {
		return nil, fmt.Errorf("inputs: document is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("inputs: registry is required")
	}

	m := &Manager{
		doc:               doc,
		registry:          registry,
		logger:            zap.NewNop(),
		names:             naming.NewNames(),
		containerSelector: DefaultContainer,
		setupSelector:     DefaultSetupPanel,
		rowTemplate:       DefaultRowTemplate,
		setupTemplate:     DefaultSetupTemplate,
		rows:              make(map[*html.Node]*Instance),
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}

	container, err := m.find(m.containerSelector)
	if err != nil {
		return nil, err
	}
	m.container = container
	return m, nil
}

func (m *Manager) find(selector string) (*dom.Element, error) {
	if err := m.doc.Valid(selector); err != nil {
		return nil, fmt.Errorf("inputs: %w", err)
	}
	el := m.doc.Query(selector)
	if el == nil {
		return nil, fmt.Errorf("%w: %q", ErrContainerNotFound, selector)
	}
	return el, nil
}

// Container returns the element instances are rendered into.
func (m *Manager) Container() *dom.Element {
	return m.container
}

// Create renders a new instance of typ named name at the end of the
// container. A nil value selects the type's default. Optional field values
// the type does not declare are ignored. On error nothing is changed.
func (m *Manager) Create(typ, name string, value *string, optionalFields map[string]string) (*Instance, error) {
	inputType, err := m.registry.Input(typ)
	if err != nil {
		m.logger.Error("input not created", zap.String("type", typ), zap.String("name", name), zap.Error(err))
		return nil, err
	}
	if name == "" {
		name = m.names.Unique(naming.DefaultBase)
	}
	if m.names.Has(name) {
		m.logger.Error("input not created", zap.String("type", typ), zap.String("name", name), zap.Error(ErrNameInUse))
		return nil, fmt.Errorf("%w: %q", ErrNameInUse, name)
	}
	row, err := m.registry.Template(m.rowTemplate)
	if err != nil {
		m.logger.Error("input not created", zap.String("type", typ), zap.String("name", name), zap.Error(err))
		return nil, err
	}

	initial := inputType.Default()
	if value != nil {
		initial = *value
	}

	holder, control, err := m.renderControl(inputType.Definition, name, initial)
	if err != nil {
		m.logger.Error("input not created", zap.String("type", typ), zap.String("name", name), zap.Error(err))
		return nil, err
	}
	wrapper, err := m.renderRow(row, typ, name, initial, holder)
	if err != nil {
		m.logger.Error("input not created", zap.String("type", typ), zap.String("name", name), zap.Error(err))
		return nil, err
	}

	for _, field := range inputType.OptionalFields {
		fieldValue, ok := optionalFields[field]
		if !ok {
			continue
		}
		wrapper.SetData(dataOptional+field, fieldValue)
		if fieldValue != "" {
			control.SetAttr(field, fieldValue)
		}
	}

	inst := &Instance{
		manager:   m,
		name:      name,
		inputType: inputType,
		wrapper:   wrapper,
		control:   control,
	}
	m.wire(wrapper, control, inputType.Validator, true)
	for _, button := range wrapper.QueryAll("." + ClassDelete) {
		button.On(dom.EventClick, func(dom.Event) {
			m.Remove(inst)
			m.serializeLogged()
		})
	}

	m.container.AppendChild(wrapper)
	m.rows[wrapper.Node()] = inst
	m.names.Use(name)

	m.logger.Debug("input created", zap.String("type", typ), zap.String("name", name))
	return inst, nil
}

// renderControl renders def for the named instance into a detached holder
// and returns the holder together with its control element.
func (m *Manager) renderControl(def templates.Definition, name, value string) (*dom.Element, *dom.Element, error) {
	id := naming.ToID(name)
	markup := render.Placeholders(def.Markup, map[string]string{
		"id":    id,
		"name":  id,
		"label": html.EscapeString(name),
		"value": html.EscapeString(value),
	})
	holder, err := m.doc.Fragment(markup)
	if err != nil {
		return nil, nil, fmt.Errorf("inputs: render %q: %w", def.ID, err)
	}
	control := holder.Query(selectControl)
	if control == nil {
		return nil, nil, fmt.Errorf("%w: %q renders no %s element", templates.ErrInvalidTemplate, def.ID, selectControl)
	}
	control.SetValue(value)
	return holder, control, nil
}

// renderRow renders the row template around holder and returns the row's
// root element.
func (m *Manager) renderRow(row templates.Definition, typ, name, value string, holder *dom.Element) (*dom.Element, error) {
	id := naming.ToID(name)
	slotID := slotIDPrefix + id
	markup := render.Placeholders(row.Markup, map[string]string{
		"id":    id,
		"value": html.EscapeString(value),
		"type":  html.EscapeString(typ),
		"label": html.EscapeString(name),
		"input": `<div id="` + slotID + `"></div>`,
	})
	fragment, err := m.doc.Fragment(markup)
	if err != nil {
		return nil, fmt.Errorf("inputs: render %q: %w", row.ID, err)
	}
	wrapper := fragment.FirstElementChild()
	if wrapper == nil {
		return nil, fmt.Errorf("%w: %q renders no element", templates.ErrInvalidTemplate, row.ID)
	}
	wrapper.Remove()

	if slot := wrapper.Query(`[id="` + slotID + `"]`); slot != nil {
		slot.ReplaceWith(holder)
	} else {
		wrapper.AppendChild(holder)
	}

	if !wrapper.HasClass(ClassWrapper) {
		classes, _ := wrapper.Attr("class")
		wrapper.SetAttr("class", strings.TrimSpace(classes+" "+ClassWrapper))
	}
	wrapper.SetData(dataName, name)
	wrapper.SetData(dataType, typ)
	return wrapper, nil
}

// wire installs change propagation on control: validate, mirror the value
// into every [data-sync] element of scope, and optionally serialize.
func (m *Manager) wire(scope, control *dom.Element, validator templates.Validator, serialize bool) {
	control.On(dom.EventChange, func(dom.Event) {
		if validator != nil {
			validator.Validate(control)
		}
		value := control.Value()
		for _, synced := range scope.QueryAll("[" + AttrSync + "]") {
			if synced.Is(control) {
				continue
			}
			applySync(synced, value)
		}
		if serialize {
			m.serializeLogged()
		}
	})
}

func applySync(el *dom.Element, value string) {
	target, _ := el.Attr(AttrSync)
	switch target {
	case "", "text", "textContent":
		el.SetText(value)
	case "value":
		el.SetValue(value)
	default:
		el.SetAttr(target, value)
	}
}

// Remove detaches inst from the container and releases its name. Removing
// an instance twice is a no-op.
func (m *Manager) Remove(inst *Instance) {
	if inst == nil || inst.manager != m || inst.removed {
		return
	}
	inst.removed = true
	inst.wrapper.Discard()
	delete(m.rows, inst.wrapper.Node())
	m.names.Release(inst.name)
	m.logger.Debug("input removed", zap.String("name", inst.name))
}

// Clear removes every instance and forgets every name.
func (m *Manager) Clear() {
	for _, inst := range m.rows {
		inst.removed = true
	}
	m.container.Clear()
	m.rows = make(map[*html.Node]*Instance)
	m.names.Reset()
}

// Instances returns the live instances in container order.
func (m *Manager) Instances() []*Instance {
	var out []*Instance
	for _, wrapper := range m.container.QueryAll(selectWrapper) {
		if inst, ok := m.rows[wrapper.Node()]; ok {
			out = append(out, inst)
		}
	}
	return out
}

// Instance returns the live instance named name.
func (m *Manager) Instance(name string) (*Instance, bool) {
	for _, inst := range m.Instances() {
		if inst.name == name {
			return inst, true
		}
	}
	return nil, false
}

// Len returns the number of live instances.
func (m *Manager) Len() int {
	return len(m.Instances())
}

// Names lists the tracked names in sorted order.
func (m *Manager) Names() []string {
	return m.names.List()
}

// UniqueName returns name, or name with the first free numeric suffix.
func (m *Manager) UniqueName(name string) string {
	return m.names.Unique(name)
}

// Snapshot returns the text produced by the last serialization.
func (m *Manager) Snapshot() string {
	return m.snapshot
}
