// Package explorer builds Sui explorer links for published objects.
//
// A template is a URL with an "{id}" marker:
//
//	https://explorer.sui.io/object/{id}
//
// The object ID is substituted verbatim. Templates without the marker get the
// ID appended.
package explorer

import (
	"fmt"
	"strings"
)

// DefaultTemplate links to the public Sui explorer.
const DefaultTemplate = "https://explorer.sui.io/object/{id}"

const marker = "{id}"

// Template is a parsed explorer URL template.
type Template struct {
	raw string
}

// Parse validates a template string.
func Parse(raw string) (Template, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Template{}, fmt.Errorf("explorer template must not be empty")
	}
	if strings.ContainsAny(raw, " \t\n") {
		return Template{}, fmt.Errorf("explorer template %q contains whitespace", raw)
	}
	return Template{raw: raw}, nil
}

// MustParse parses a template and panics on error.
func MustParse(raw string) Template {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// ObjectURL returns the explorer link for an object ID.
func (t Template) ObjectURL(id string) string {
	raw := t.raw
	if raw == "" {
		raw = DefaultTemplate
	}
	if strings.Contains(raw, marker) {
		return strings.ReplaceAll(raw, marker, id)
	}
	return raw + id
}

// String returns the template as given.
func (t Template) String() string {
	return t.raw
}
