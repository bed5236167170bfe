package metagen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanPossiblyGenerate(t *testing.T) {
	tests := []struct {
		name  string
		types []*fakeType
		want  bool
	}{
		{"empty unit", nil, false},
		{"plain class", []*fakeType{class("p.A").field("x", Public, "int")}, false},
		{"meta", []*fakeType{class("p.A", MetaAnnotation)}, true},
		{"bean", []*fakeType{class("p.A", BeanAnnotation)}, true},
		{"entity", []*fakeType{class("p.A", "javax.persistence.Entity")}, true},
		{"jakarta mapped superclass", []*fakeType{class("p.A", "jakarta.persistence.MappedSuperclass")}, true},
		{"property field", []*fakeType{class("p.A").field("x", Private, "int", PropertyAnnotation)}, true},
		{"property getter", []*fakeType{class("p.A").getter("getX", Public, "int", PropertyAnnotation)}, true},
		{"property setter only", []*fakeType{class("p.A").setter("setX", Public, "int", PropertyAnnotation)}, false},
		{"generated", []*fakeType{class("p.A", "javax.annotation.Generated", MetaAnnotation)}, false},
		{"ignored members", []*fakeType{class("p.A", IgnoreAnnotation).field("x", Public, "int", PropertyAnnotation)}, false},
		{
			"generated type does not hide sibling",
			[]*fakeType{class("p.AMeta", "javax.annotation.Generated"), class("p.B").field("x", Public, "int", PropertyAnnotation)},
			true,
		},
		{
			"ignored type does not hide sibling",
			[]*fakeType{class("p.A", IgnoreAnnotation), class("p.B", BeanAnnotation)},
			true,
		},
		{"private bean still possible", []*fakeType{class("p.A", MetaAnnotation).withVisibility(Private)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types := make([]Type, len(tt.types))
			for i, typ := range tt.types {
				types[i] = typ
			}
			assert.Equal(t, tt.want, CanPossiblyGenerate(types))
		})
	}
}

func TestCanPossiblyGenerateNestedTypes(t *testing.T) {
	outer := class("p.Outer").member(class("Inner").field("x", Public, "int", PropertyAnnotation))

	assert.False(t, CanPossiblyGenerate([]Type{outer}))
	assert.True(t, CanPossiblyGenerate(AllTypes([]Type{outer})))
}

// The pre-check never says no for a unit that discovery would keep.
func TestCanPossiblyGenerateIsConservative(t *testing.T) {
	units := []*fakeType{
		class("p.A", BeanAnnotation).field("x", Public, "int"),
		class("p.B").getter("getX", Default, "int", PropertyAnnotation),
		class("p.C", MetaAnnotation),
		class("p.D").member(class("Inner", MetaAnnotation)).field("y", Protected, "int", PropertyAnnotation),
	}
	for _, unit := range units {
		if Discover(unit, nil) != nil {
			assert.True(t, CanPossiblyGenerate(AllTypes([]Type{unit})), unit.Name())
		}
	}
}

func TestAllTypesOrder(t *testing.T) {
	outer := class("p.Outer").
		member(class("A").member(class("Deep"))).
		member(class("B"))

	var names []string
	for _, typ := range AllTypes([]Type{outer}) {
		names = append(names, typ.Name())
	}
	assert.Equal(t, []string{"p.Outer", "p.Outer.A", "p.Outer.A.Deep", "p.Outer.B"}, names)
}
