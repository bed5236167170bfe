package metagen

import "strings"

// fakeType is a hand-built Type for tests.
type fakeType struct {
	name        string
	visibility  Visibility
	nesting     Nesting
	enclosing   *fakeType
	annotations []string
	fields      []Field
	methods     []Method
	superclass  *fakeType
	nested      []*fakeType
}

func class(name string, annotations ...string) *fakeType {
	return &fakeType{name: name, visibility: Public, annotations: annotations}
}

func (t *fakeType) Name() string { return t.name }

func (t *fakeType) SimpleName() string {
	return t.name[strings.LastIndex(t.name, ".")+1:]
}

func (t *fakeType) Package() string {
	top := t
	for top.enclosing != nil {
		top = top.enclosing
	}
	if i := strings.LastIndex(top.name, "."); i >= 0 {
		return top.name[:i]
	}
	return ""
}

func (t *fakeType) Visibility() Visibility { return t.visibility }
func (t *fakeType) Nesting() Nesting       { return t.nesting }
func (t *fakeType) Annotations() []string  { return t.annotations }
func (t *fakeType) Fields() []Field        { return t.fields }
func (t *fakeType) Methods() []Method      { return t.methods }
func (t *fakeType) Source() string         { return t.Name() + ".java" }

func (t *fakeType) Enclosing() Type {
	if t.enclosing == nil {
		return nil
	}
	return t.enclosing
}

func (t *fakeType) Superclass() Type {
	if t.superclass == nil {
		return nil
	}
	return t.superclass
}

func (t *fakeType) NestedTypes() []Type {
	result := make([]Type, len(t.nested))
	for i, n := range t.nested {
		result[i] = n
	}
	return result
}

func (t *fakeType) withVisibility(v Visibility) *fakeType {
	t.visibility = v
	return t
}

func (t *fakeType) extends(super *fakeType) *fakeType {
	t.superclass = super
	return t
}

func (t *fakeType) field(name string, vis Visibility, typ string, annotations ...string) *fakeType {
	t.fields = append(t.fields, Field{
		Name:        name,
		Visibility:  vis,
		Type:        TypeRef{ID: typ},
		Annotations: annotations,
		Position:    Position{File: t.Source(), Line: len(t.fields) + 2, Column: 5},
	})
	return t
}

func (t *fakeType) getter(name string, vis Visibility, typ string, annotations ...string) *fakeType {
	t.methods = append(t.methods, Method{
		Name:        name,
		Visibility:  vis,
		ReturnType:  TypeRef{ID: typ},
		Annotations: annotations,
	})
	return t
}

func (t *fakeType) setter(name string, vis Visibility, param string, annotations ...string) *fakeType {
	t.methods = append(t.methods, Method{
		Name:        name,
		Visibility:  vis,
		ReturnType:  TypeRef{ID: "void"},
		Parameters:  []TypeRef{{ID: param}},
		Annotations: annotations,
	})
	return t
}

// member declares inner as a member type of t.
func (t *fakeType) member(inner *fakeType) *fakeType {
	inner.nesting = Member
	inner.enclosing = t
	inner.rename(t.name + "." + inner.SimpleName())
	t.nested = append(t.nested, inner)
	return t
}

func (t *fakeType) rename(name string) {
	t.name = name
	for _, n := range t.nested {
		n.rename(name + "." + n.SimpleName())
	}
}
