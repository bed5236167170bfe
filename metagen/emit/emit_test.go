package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/metagen/metagen"
)

func personBean() *metagen.Bean {
	return &metagen.Bean{
		Name:       "com.example.Person",
		SimpleName: "Person",
		Package:    "com.example",
		Visibility: metagen.Public,
		Superclass: "com.example.BaseMeta",
		Properties: []*metagen.Property{
			{
				Owner:      "com.example.Person",
				Name:       "name",
				Type:       metagen.TypeRef{ID: "java.lang.String"},
				Visibility: metagen.Public,
				Field:      "name",
				Getter:     "getName",
				Setter:     "setName",
			},
			{
				Owner:      "com.example.Person",
				Name:       "default",
				Type:       metagen.TypeRef{ID: "int"},
				Visibility: metagen.Default,
				Deprecated: true,
				Getter:     "getDefault",
			},
		},
		Nested: []*metagen.Bean{{
			Name:       "com.example.Person.Address",
			SimpleName: "Address",
			Package:    "com.example",
			Visibility: metagen.Protected,
			Properties: []*metagen.Property{{
				Owner:      "com.example.Person.Address",
				Name:       "lines",
				Type:       metagen.TypeRef{ID: "java.util.List<T>", Erasure: "java.util.List<java.lang.Object>"},
				Visibility: metagen.Public,
				Field:      "lines",
			}},
		}},
	}
}

func TestSource(t *testing.T) {
	source, err := Source(personBean())
	require.NoError(t, err)

	want := `package com.example;

@SuppressWarnings("all")
@javax.annotation.Generated("metagen")
public class PersonMeta extends com.example.BaseMeta {
	public static class C {
		public static final String name = "com.example.Person";
		public static final String simpleName = "Person";
	}
	public static final net.ftlines.metagen.SingularProperty<com.example.Person, java.lang.String> name = new net.ftlines.metagen.SingularProperty<>("name", com.example.Person.class, "name", "getName", "setName");
	@Deprecated
	static final net.ftlines.metagen.SingularProperty<com.example.Person, java.lang.Integer> default_ = new net.ftlines.metagen.SingularProperty<>("default", com.example.Person.class, null, "getDefault", null);

	public static class P {
		public static final String name = "name";
		public static final String default_ = "default";
	}

	@SuppressWarnings("all")
	@javax.annotation.Generated("metagen")
	protected static class AddressMeta {
		public static class C {
			public static final String name = "com.example.Person.Address";
			public static final String simpleName = "Address";
		}
		public static final net.ftlines.metagen.SingularProperty<com.example.Person.Address, java.util.List<java.lang.Object>> lines = new net.ftlines.metagen.SingularProperty<>("lines", com.example.Person.Address.class, "lines", null, null);

		public static class P {
			public static final String lines = "lines";
		}
	}
}
`
	assert.Equal(t, want, string(source))
	assert.True(t, IsGenerated(source))
}

func TestSourceForcedWithoutProperties(t *testing.T) {
	source, err := Source(&metagen.Bean{
		Name:       "Marker",
		SimpleName: "Marker",
		Visibility: metagen.Default,
		Forced:     true,
	})
	require.NoError(t, err)

	want := `@SuppressWarnings("all")
@javax.annotation.Generated("metagen")
class MarkerMeta {
	public static class C {
		public static final String name = "Marker";
		public static final String simpleName = "Marker";
	}
}
`
	assert.Equal(t, want, string(source))
}

func TestPath(t *testing.T) {
	assert.Equal(t, "com/example/PersonMeta.java", Path(personBean()))
	assert.Equal(t, "MarkerMeta.java", Path(&metagen.Bean{Name: "Marker", SimpleName: "Marker"}))
}

func TestBoxed(t *testing.T) {
	tests := map[string]metagen.TypeRef{
		"java.lang.Integer":  {ID: "int"},
		"java.lang.Boolean":  {ID: "boolean"},
		"java.lang.Void":     {ID: "void"},
		"int[]":              {ID: "int[]"},
		"java.lang.String":   {ID: "java.lang.String"},
		"java.lang.Object":   {ID: "T", Erasure: "java.lang.Object"},
		"java.util.Map<K,V>": {ID: "java.util.Map<K,V>"},
	}
	for want, ref := range tests {
		assert.Equal(t, want, Boxed(ref), ref.ID)
	}
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "class_", SafeName("class"))
	assert.Equal(t, "null_", SafeName("null"))
	assert.Equal(t, "__", SafeName("_"))
	assert.Equal(t, "record", SafeName("record"))
	assert.Equal(t, "name", SafeName("name"))
}

func TestIsGenerated(t *testing.T) {
	assert.False(t, IsGenerated([]byte("package p;\npublic class Plain {}\n")))
}
