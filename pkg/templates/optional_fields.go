package templates

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var optionalFieldPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Attributes owned by the rendered control; optional fields cannot shadow them.
var reservedOptionalFields = map[string]struct{}{
	"id":    {},
	"name":  {},
	"value": {},
	"type":  {},
	"class": {},
}

// ParseOptionalFields reads a data-optionalfields expression: either a flow
// list such as ['step', 'min'] or a comma separated list. An empty expression
// yields no fields; anything malformed is an error.
func ParseOptionalFields(expr string) ([]string, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, nil
	}

	var names []string
	if strings.HasPrefix(trimmed, "[") {
		if err := yaml.Unmarshal([]byte(trimmed), &names); err != nil {
			return nil, fmt.Errorf("%w: optional fields %q: %v", ErrInvalidTemplate, expr, err)
		}
	} else {
		for _, part := range strings.Split(trimmed, ",") {
			names = append(names, strings.TrimSpace(part))
		}
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !optionalFieldPattern.MatchString(name) {
			return nil, fmt.Errorf("%w: optional field name %q in %q", ErrInvalidTemplate, name, expr)
		}
		if _, reserved := reservedOptionalFields[name]; reserved {
			return nil, fmt.Errorf("%w: optional field %q is reserved", ErrInvalidTemplate, name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: optional field %q listed twice", ErrInvalidTemplate, name)
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}
