package render

import "regexp"

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Placeholders substitutes every {{key}} token in markup with context[key],
// or the empty string when the key is absent. Substituted values are not
// scanned again, so a value containing a token is emitted verbatim.
func Placeholders(markup string, context map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(markup, func(token string) string {
		key := token[2 : len(token)-2]
		return context[key]
	})
}
