package schema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Sanitize strips markup from the template's presentation strings. Templates
// are untrusted, data-supplied content; identifiers, types, and option values
// are left untouched because they act as binding keys and answer values, not
// as display text.
func Sanitize(t Template) Template {
	out := t.Clone()
	out.Name = sanitizeText(out.Name)
	out.Description = sanitizeText(out.Description)
	for i, field := range out.Fields {
		field.Label = sanitizeText(field.Label)
		field.HelperText = sanitizeText(field.HelperText)
		out.Fields[i] = field
	}
	return out
}

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(displayPolicy().Sanitize(trimmed))
}

func displayPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
