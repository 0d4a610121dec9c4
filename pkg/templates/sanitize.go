package templates

import "github.com/microcosm-cc/bluemonday"

// DefaultPolicy returns the sanitizer used by WithDefaultSanitizer. It keeps
// form controls, layout containers, ids, classes, and data-* attributes so
// placeholders and builder hooks survive, and drops scripts, styles, and
// event handler attributes.
func DefaultPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements(
		"div", "span", "p", "small", "strong", "em", "ul", "ol", "li",
		"label", "input", "select", "option", "textarea", "button", "output",
		"fieldset", "legend",
	)
	policy.AllowNoAttrs().OnElements("label", "option", "fieldset", "legend")
	policy.AllowAttrs(
		"id", "class", "for", "name", "type", "value", "placeholder",
		"min", "max", "step", "pattern", "rows", "cols", "title", "role",
		"checked", "selected", "disabled", "readonly", "required",
		"aria-label", "aria-describedby", "aria-invalid",
	).Globally()
	policy.AllowDataAttributes()
	return policy
}
