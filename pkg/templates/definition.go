package templates

// Metadata keys read from data-* attributes on <template> elements.
const (
	MetaInput          = "input"
	MetaDisplayName    = "displayname"
	MetaDefault        = "default"
	MetaValidate       = "validate"
	MetaOptionalFields = "optionalfields"
)

// Definition is a parsed template: its markup with {{key}} placeholders and
// the metadata declared on the <template> element.
type Definition struct {
	ID             string
	Markup         string
	Metadata       map[string]string
	OptionalFields []string
	Validator      Validator
	Source         string
}

// Meta returns a metadata value, or "" when absent.
func (d Definition) Meta(key string) string {
	return d.Metadata[key]
}

// Default returns the declared default value.
func (d Definition) Default() string {
	return d.Metadata[MetaDefault]
}

// SupportsOptionalField reports whether field is declared by the template.
func (d Definition) SupportsOptionalField(field string) bool {
	for _, candidate := range d.OptionalFields {
		if candidate == field {
			return true
		}
	}
	return false
}

// InputType is a Definition registered as an editable input.
type InputType struct {
	Definition
	DisplayName string
}

func newInputType(def Definition) InputType {
	label := def.Metadata[MetaDisplayName]
	if label == "" {
		label = def.ID
	}
	return InputType{Definition: def, DisplayName: label}
}

func cloneDefinition(def Definition) Definition {
	meta := make(map[string]string, len(def.Metadata))
	for key, value := range def.Metadata {
		meta[key] = value
	}
	def.Metadata = meta
	def.OptionalFields = append([]string(nil), def.OptionalFields...)
	return def
}
