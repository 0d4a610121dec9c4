package templates

import (
	"fmt"
	"math"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/dom"
)

// Validator checks or normalises a rendered control in place.
type Validator interface {
	Validate(control *dom.Element)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(control *dom.Element)

// Validate calls f.
func (f ValidatorFunc) Validate(control *dom.Element) {
	f(control)
}

// Validator tags accepted by data-validate.
const (
	ValidateRequired = "required"
	ValidateNumber   = "number"
	ValidateInteger  = "integer"
	ValidateClamp    = "clamp"
	ValidateTrim     = "trim"
	ValidateEmail    = "email"
	ValidatePattern  = "pattern"
)

// Attributes a Validator writes on the control it checks.
const (
	AttrInvalid = "aria-invalid"
	AttrError   = "data-error"
)

// rule normalises the control and returns a problem description, or "".
type rule func(control *dom.Element) string

var rules = map[string]rule{
	ValidateRequired: requireValue,
	ValidateNumber:   requireNumber,
	ValidateInteger:  requireInteger,
	ValidateClamp:    clampToRange,
	ValidateTrim:     trimValue,
	ValidateEmail:    requireEmail,
	ValidatePattern:  matchPattern,
}

// ValidatorTags lists the accepted data-validate tags.
func ValidatorTags() []string {
	return []string{
		ValidateRequired, ValidateNumber, ValidateInteger, ValidateClamp,
		ValidateTrim, ValidateEmail, ValidatePattern,
	}
}

// CompileValidator turns a comma separated list of tags into a Validator. An
// empty expression yields a nil Validator; an unknown tag is an error.
func CompileValidator(expr string) (Validator, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, nil
	}

	chain := &ruleChain{}
	for _, part := range strings.Split(trimmed, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		fn, ok := rules[tag]
		if !ok {
			return nil, fmt.Errorf("%w: unknown validator %q in %q", ErrInvalidTemplate, tag, expr)
		}
		chain.tags = append(chain.tags, tag)
		chain.rules = append(chain.rules, fn)
	}
	return chain, nil
}

type ruleChain struct {
	tags  []string
	rules []rule
}

// Validate runs every rule and flags the control with the first problem.
func (c *ruleChain) Validate(control *dom.Element) {
	if control == nil {
		return
	}
	problem := ""
	for _, fn := range c.rules {
		if msg := fn(control); msg != "" && problem == "" {
			problem = msg
		}
	}
	if problem == "" {
		control.RemoveAttr(AttrInvalid)
		control.RemoveAttr(AttrError)
		return
	}
	control.SetAttr(AttrInvalid, "true")
	control.SetAttr(AttrError, problem)
}

func (c *ruleChain) String() string {
	return strings.Join(c.tags, ",")
}

func requireValue(control *dom.Element) string {
	if strings.TrimSpace(control.Value()) == "" {
		return "value is required"
	}
	return ""
}

func requireNumber(control *dom.Element) string {
	value := strings.TrimSpace(control.Value())
	if value == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return "must be a number"
	}
	return ""
}

func requireInteger(control *dom.Element) string {
	value := strings.TrimSpace(control.Value())
	if value == "" {
		return ""
	}
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return "must be a whole number"
	}
	return ""
}

func clampToRange(control *dom.Element) string {
	number, err := strconv.ParseFloat(strings.TrimSpace(control.Value()), 64)
	if err != nil {
		return ""
	}
	clamped := number
	if raw, ok := control.Attr("min"); ok {
		if lower, err := strconv.ParseFloat(raw, 64); err == nil {
			clamped = math.Max(clamped, lower)
		}
	}
	if raw, ok := control.Attr("max"); ok {
		if upper, err := strconv.ParseFloat(raw, 64); err == nil {
			clamped = math.Min(clamped, upper)
		}
	}
	if clamped != number {
		control.SetValue(strconv.FormatFloat(clamped, 'f', -1, 64))
	}
	return ""
}

func trimValue(control *dom.Element) string {
	value := control.Value()
	if trimmed := strings.TrimSpace(value); trimmed != value {
		control.SetValue(trimmed)
	}
	return ""
}

func requireEmail(control *dom.Element) string {
	value := strings.TrimSpace(control.Value())
	if value == "" {
		return ""
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return "must be an email address"
	}
	return ""
}

func matchPattern(control *dom.Element) string {
	pattern, ok := control.Attr("pattern")
	value := control.Value()
	if !ok || pattern == "" || value == "" {
		return ""
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return "pattern is not a valid expression"
	}
	if !re.MatchString(value) {
		return "does not match the expected format"
	}
	return ""
}
