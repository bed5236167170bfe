package codebase

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryName(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"com/example/Person.class", "com.example.Person", true},
		{"com/example/Person$Address.class", "com.example.Person$Address", true},
		{"Top.class", "Top", true},
		{"com/example/package-info.class", "", false},
		{"module-info.class", "", false},
		{"META-INF/versions/9/com/example/Person.class", "", false},
		{"com/example/Person.java", "", false},
	}
	for _, tt := range tests {
		got, ok := binaryName(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestClasspathDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "com", "example"), 0o755))
	for _, name := range []string{"Person.class", "Person$Address.class", "package-info.class"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "com", "example", name), []byte{0xCA, 0xFE}, 0o644))
	}

	cp := NewClasspath()
	require.NoError(t, cp.Add(dir))
	assert.Equal(t, 2, cp.Len())

	assert.True(t, cp.Has("com.example.Person"))
	assert.True(t, cp.Has("com.example.Person.Address"))
	assert.True(t, cp.Has("com.example.Person$Address"))
	assert.False(t, cp.Has("com.example.Missing"))

	// Truncated class files are reported once and cached as missing.
	assert.Nil(t, cp.Find("com.example.Person"))
	assert.Nil(t, cp.Find("com.example.Person"))
}

func TestClasspathJar(t *testing.T) {
	jar := filepath.Join(t.TempDir(), "lib.jar")
	f, err := os.Create(jar)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range []string{"META-INF/MANIFEST.MF", "org/lib/Base.class", "module-info.class"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	cp := NewClasspath()
	require.NoError(t, cp.Add(jar))
	defer cp.Close()

	assert.Equal(t, 1, cp.Len())
	assert.True(t, cp.Has("org.lib.Base"))
}

func TestClasspathRejectsUnknownEntries(t *testing.T) {
	cp := NewClasspath()
	assert.Error(t, cp.Add(filepath.Join(t.TempDir(), "missing")))

	file := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.Error(t, cp.Add(file))
}

func TestUnknownClasspathTypesEndSuperclassChain(t *testing.T) {
	c := New()
	c.UpdateFile("Child.java", []byte(`package p;
@net.ftlines.metagen.annot.Bean
public class Child extends org.lib.Base {
	public String label;
}
`))
	child, ok := c.Bean("p.Child")
	require.True(t, ok)
	assert.Empty(t, child.Superclass)
}
