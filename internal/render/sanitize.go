package render

import (
	"html"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Context selects how a field is cleaned.
type Context string

const (
	ContextRaw       Context = "raw"
	ContextDisplay   Context = "display"
	ContextAttribute Context = "attribute"
)

// Field names understood by FieldSanitizer.
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldRating       = "rating"
	FieldTarget       = "target"
	FieldRel          = "rel"
	FieldCategoryName = "category_name"
)

var allowedTargets = map[string]bool{
	"_blank":  true,
	"_top":    true,
	"_self":   true,
	"_parent": true,
}

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy

	outputPolicyOnce sync.Once
	outputPolicy     *bluemonday.Policy
)

// FieldSanitizer strips markup from display fields with a strict
// bluemonday policy. The result is safe inside double-quoted attributes.
type FieldSanitizer struct {
	policy *bluemonday.Policy
}

// NewFieldSanitizer returns the default Sanitizer.
func NewFieldSanitizer() *FieldSanitizer {
	return &FieldSanitizer{policy: strictSanitizer()}
}

// SanitizeField normalizes typed fields (rating, target) and then cleans
// the value for ctx.
func (s *FieldSanitizer) SanitizeField(field, value string, _ int64, ctx Context) string {
	switch field {
	case FieldRating:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			n = 0
		}
		value = strconv.Itoa(n)
	case FieldTarget:
		value = strings.TrimSpace(value)
		if !allowedTargets[value] {
			value = ""
		}
	}

	switch ctx {
	case ContextRaw:
		return value
	case ContextAttribute:
		return html.EscapeString(html.UnescapeString(value))
	default:
		return strings.TrimSpace(s.policy.Sanitize(value))
	}
}

func strictSanitizer() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// SanitizeOutput returns a Filter that passes the list through a policy
// allowing only the markup a bookmark listing produces.
func SanitizeOutput() Filter {
	policy := outputSanitizer()
	return func(s string) string {
		return policy.Sanitize(s)
	}
}

func outputSanitizer() *bluemonday.Policy {
	outputPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("ul", "ol", "li", "div", "span", "p", "br", "em", "strong",
			"h1", "h2", "h3", "h4", "h5", "h6", "dl", "dt", "dd")

		policy.AllowAttrs("id", "class").Globally()
		policy.AllowAttrs("href", "rel", "title", "target").OnElements("a")
		policy.AllowAttrs("src", "alt", "title").OnElements("img")
		policy.AllowElements("a", "img")

		policy.RequireParseableURLs(true)
		policy.AllowRelativeURLs(true)
		policy.AllowURLSchemes("http", "https", "mailto", "ftp")

		outputPolicy = policy
	})
	return outputPolicy
}
