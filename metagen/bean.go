package metagen

import "strings"

// MetaSuffix is appended to every nesting segment of a bean's name to
// name its metamodel class.
const MetaSuffix = "Meta"

// Bean is a type selected for metamodel generation together with its
// properties and the beans of its member types.
type Bean struct {
	Name       string     `json:"name"`
	SimpleName string     `json:"simpleName"`
	Package    string     `json:"package,omitempty"`
	Visibility Visibility `json:"visibility"`
	// Superclass is the metamodel class of the nearest generated ancestor.
	Superclass string      `json:"superclass,omitempty"`
	Forced     bool        `json:"forced,omitempty"`
	Properties []*Property `json:"properties"`
	Nested     []*Bean     `json:"nested,omitempty"`
	Source     string      `json:"source,omitempty"`

	byName map[string]*Property
}

func newBean(t Type) *Bean {
	return &Bean{
		Name:       t.Name(),
		SimpleName: t.SimpleName(),
		Package:    t.Package(),
		Visibility: t.Visibility(),
		Source:     t.Source(),
		byName:     make(map[string]*Property),
	}
}

// Property returns the property with the given name.
func (b *Bean) Property(name string) (*Property, bool) {
	if b.byName == nil {
		for _, p := range b.Properties {
			if p.Name == name {
				return p, true
			}
		}
		return nil, false
	}
	p, ok := b.byName[name]
	return p, ok
}

func (b *Bean) addProperty(p *Property) {
	b.Properties = append(b.Properties, p)
	b.byName[p.Name] = p
}

// WillGenerateMeta reports whether the bean is kept: it must be forced or
// have at least one property.
func (b *Bean) WillGenerateMeta() bool {
	return b.Forced || len(b.Properties) > 0
}

// MetaName returns the qualified name of the bean's metamodel class.
func (b *Bean) MetaName() string {
	return metaName(b.Package, b.Name)
}

// MetaSimpleName is the simple name of the metamodel class.
func (b *Bean) MetaSimpleName() string {
	return b.SimpleName + MetaSuffix
}

// NestedBean returns the nested bean for the member type with the given
// simple name.
func (b *Bean) NestedBean(simpleName string) (*Bean, bool) {
	for _, n := range b.Nested {
		if n.SimpleName == simpleName {
			return n, true
		}
	}
	return nil, false
}

// Walk calls fn for b and every nested bean, outer before inner.
func (b *Bean) Walk(fn func(*Bean)) {
	fn(b)
	for _, n := range b.Nested {
		n.Walk(fn)
	}
}

// metaName turns pkg.A.B into pkg.AMeta.BMeta.
func metaName(pkg, name string) string {
	rest := name
	if pkg != "" {
		rest = strings.TrimPrefix(name, pkg+".")
	}
	segments := strings.Split(rest, ".")
	for i := range segments {
		segments[i] += MetaSuffix
	}
	if pkg == "" {
		return strings.Join(segments, ".")
	}
	return pkg + "." + strings.Join(segments, ".")
}
