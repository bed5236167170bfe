package metagen

import "fmt"

// Visibility is ordered from most to least restrictive so that the wider
// of two visibilities is the greater value.
type Visibility int

const (
	Private Visibility = iota
	Default
	Protected
	Public
)

var visibilityNames = map[Visibility]string{
	Private:   "private",
	Default:   "default",
	Protected: "protected",
	Public:    "public",
}

func (v Visibility) String() string {
	if name, ok := visibilityNames[v]; ok {
		return name
	}
	return "unknown"
}

// Keyword is the Java modifier for v; package-private has none.
func (v Visibility) Keyword() string {
	if v == Default {
		return ""
	}
	return v.String()
}

func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Relax returns the wider of a and b.
func Relax(a, b Visibility) Visibility {
	if b > a {
		return b
	}
	return a
}

func (v *Visibility) UnmarshalText(text []byte) error {
	for candidate, name := range visibilityNames {
		if name == string(text) {
			*v = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown visibility %q", text)
}
