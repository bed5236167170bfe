package metagen

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Property is one named accessor unit of a Bean. Field, Getter and Setter
// are empty when the property has no such member.
type Property struct {
	Owner      string     `json:"owner"`
	Name       string     `json:"name"`
	Type       TypeRef    `json:"type"`
	Visibility Visibility `json:"visibility"`
	Deprecated bool       `json:"deprecated,omitempty"`
	Field      string     `json:"field,omitempty"`
	Getter     string     `json:"getter,omitempty"`
	Setter     string     `json:"setter,omitempty"`
}

func (p *Property) relax(v Visibility) {
	p.Visibility = Relax(p.Visibility, v)
}

// accessorProperty derives the property name from a getter or setter
// name: the rest after prefix must be non-empty and start with an
// upper-case letter, which is lowered.
func accessorProperty(method, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(method, prefix)
	if !ok || rest == "" {
		return "", false
	}
	first, size := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(first) {
		return "", false
	}
	return string(unicode.ToLower(first)) + rest[size:], true
}
