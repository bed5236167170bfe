package metagen

// Nesting says where a type is declared.
type Nesting int

const (
	TopLevel Nesting = iota
	Member
	Local
)

func (n Nesting) String() string {
	switch n {
	case TopLevel:
		return "top-level"
	case Member:
		return "member"
	case Local:
		return "local"
	}
	return "unknown"
}

// Type is the host's read-only view of a declared type. Names are
// canonical: qualified with '.' for both packages and enclosing types.
// Annotations that the host could not resolve are omitted, and Superclass
// is nil when the type has none or the host cannot find it.
type Type interface {
	Name() string
	SimpleName() string
	Package() string
	Visibility() Visibility
	Nesting() Nesting
	// Enclosing is nil for top-level types.
	Enclosing() Type
	Annotations() []string
	Fields() []Field
	Methods() []Method
	Superclass() Type
	// NestedTypes lists member types in declaration order.
	NestedTypes() []Type
	// Source is the file the type was read from, used in diagnostics.
	Source() string
}

// TypeRef is a resolved type reference. ID is the canonical identity a
// setter parameter is matched against. Erasure renders the same type with
// type variables replaced by java.lang.Object; it is empty when the two
// are equal.
type TypeRef struct {
	ID      string `json:"id"`
	Erasure string `json:"erasure,omitempty"`
}

func (r TypeRef) String() string {
	return r.ID
}

// Erased returns the form usable from a static context.
func (r TypeRef) Erased() string {
	if r.Erasure != "" {
		return r.Erasure
	}
	return r.ID
}

type Position struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type Field struct {
	Name        string
	Visibility  Visibility
	Type        TypeRef
	Annotations []string
	Position    Position
}

type Method struct {
	Name        string
	Visibility  Visibility
	ReturnType  TypeRef
	Parameters  []TypeRef
	Annotations []string
	Position    Position
}

// TopLevelOf walks the enclosing chain of t to its top-level type. It
// panics for local types, which have no place in a Space.
func TopLevelOf(t Type) Type {
	for {
		switch t.Nesting() {
		case TopLevel:
			return t
		case Member:
			t = t.Enclosing()
		default:
			panic("metagen: " + t.Name() + " is a " + t.Nesting().String() + " type")
		}
	}
}
