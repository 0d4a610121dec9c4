package templates

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/dom"
)

type parsedTemplate struct {
	def   Definition
	input bool
}

// parseDocument extracts every <template> element of doc. Any malformed
// definition fails the whole document.
func parseDocument(doc Document, sanitizer *bluemonday.Policy) ([]parsedTemplate, error) {
	host, err := dom.Parse(bytes.NewReader(doc.raw))
	if err != nil {
		return nil, fmt.Errorf("templates: parse %s: %w", doc.Location(), err)
	}

	var out []parsedTemplate
	for _, tpl := range host.QueryAll("template") {
		id := strings.TrimSpace(tpl.ID())
		if id == "" {
			return nil, fmt.Errorf("%w: <template> without id in %s", ErrInvalidTemplate, doc.Location())
		}

		meta := make(map[string]string)
		for key, value := range tpl.Attrs() {
			if name, ok := strings.CutPrefix(key, "data-"); ok {
				meta[name] = value
			}
		}
		_, input := meta[MetaInput]

		validator, err := CompileValidator(meta[MetaValidate])
		if err != nil {
			return nil, fmt.Errorf("template %q in %s: %w", id, doc.Location(), err)
		}
		fields, err := ParseOptionalFields(meta[MetaOptionalFields])
		if err != nil {
			return nil, fmt.Errorf("template %q in %s: %w", id, doc.Location(), err)
		}

		markup := strings.TrimSpace(tpl.InnerHTML())
		if sanitizer != nil {
			markup = strings.TrimSpace(sanitizer.Sanitize(markup))
		}

		out = append(out, parsedTemplate{
			input: input,
			def: Definition{
				ID:             id,
				Markup:         markup,
				Metadata:       meta,
				OptionalFields: fields,
				Validator:      validator,
				Source:         doc.Location(),
			},
		})
	}
	return out, nil
}
