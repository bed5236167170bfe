package metagen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelax(t *testing.T) {
	order := []Visibility{Private, Default, Protected, Public}
	for i, a := range order {
		for j, b := range order {
			want := order[max(i, j)]
			assert.Equal(t, want, Relax(a, b), "%s/%s", a, b)
		}
	}
	assert.Equal(t, "", Default.Keyword())
	assert.Equal(t, "protected", Protected.Keyword())
}

func TestMetaName(t *testing.T) {
	tests := []struct {
		pkg, name, want string
	}{
		{"p", "p.A", "p.AMeta"},
		{"foo.bar", "foo.bar.A.B", "foo.bar.AMeta.BMeta"},
		{"", "A.B", "AMeta.BMeta"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, metaName(tt.pkg, tt.name))
	}
}

func TestMarkersOf(t *testing.T) {
	m := MarkersOf([]string{"javax.persistence.Entity", DeprecatedAnnotation, "com.example.Unrelated"})
	assert.True(t, m.Has(MarkerBean))
	assert.True(t, m.Has(MarkerDeprecated))
	assert.False(t, m.Has(MarkerMeta))
	assert.False(t, m.Aborts())
	assert.True(t, MarkersOf([]string{IgnoreAnnotation}).Aborts())
	assert.Contains(t, MarkerAnnotations(), PropertyAnnotation)
}

func TestBeanJSON(t *testing.T) {
	bean := Discover(class("p.A", BeanAnnotation).field("x", Public, "int"), nil)
	require.NotNil(t, bean)

	data, err := json.Marshal(bean)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "p.A",
		"simpleName": "A",
		"package": "p",
		"visibility": "public",
		"source": "p.A.java",
		"properties": [{
			"owner": "p.A",
			"name": "x",
			"type": {"id": "int"},
			"visibility": "public",
			"field": "x"
		}]
	}`, string(data))

	var back Bean
	require.NoError(t, json.Unmarshal(data, &back))
	p, ok := back.Property("x")
	require.True(t, ok)
	assert.Equal(t, "x", p.Field)
}
