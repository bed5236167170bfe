package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main/java"}, cfg.SourceDirs)
	assert.Equal(t, "target/generated-sources/metagen", cfg.OutputDir)
	assert.Empty(t, cfg.Classpath)
	assert.Equal(t, 1, cfg.Log.Verbosity)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	assert.Empty(t, cfg.File)
}

func TestLoadFileRelativeToConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(`
source_dirs:
  - src
  - /abs/gen
output_dir: out
classpath:
  - lib/app.jar
log:
  verbosity: 3
watch:
  debounce: 1s
`), 0o644))

	sub := filepath.Join(root, "module", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	chdir(t, sub)

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(filepath.Dir(cfg.File))
	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, expected, resolved)

	base := filepath.Dir(cfg.File)
	assert.Equal(t, []string{filepath.Join(base, "src"), "/abs/gen"}, cfg.SourceDirs)
	assert.Equal(t, filepath.Join(base, "out"), cfg.OutputDir)
	assert.Equal(t, []string{filepath.Join(base, "lib", "app.jar")}, cfg.Classpath)
	assert.Equal(t, 3, cfg.Log.Verbosity)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoadOverridesStayRelativeToWorkingDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(`
source_dirs: [src]
output_dir: out
classpath: [lib/app.jar]
`), 0o644))
	sub := filepath.Join(root, "module")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	chdir(t, sub)
	t.Setenv("METAGEN_OUTPUT_DIR", "build/meta")

	v := New()
	v.Set("classpath", []string{"local.jar"})

	cfg, err := Load(v, "")
	require.NoError(t, err)

	base := filepath.Dir(cfg.File)
	assert.Equal(t, "build/meta", cfg.OutputDir)
	assert.Equal(t, []string{"local.jar"}, cfg.Classpath)
	assert.Equal(t, []string{filepath.Join(base, "src")}, cfg.SourceDirs)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("METAGEN_OUTPUT_DIR", "build/meta")
	t.Setenv("METAGEN_LOG_VERBOSITY", "2")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "build/meta", cfg.OutputDir)
	assert.Equal(t, 2, cfg.Log.Verbosity)
}

func TestLoadExplicitOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	v := New()
	v.Set("source_dirs", []string{"a", "b"})

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cfg.SourceDirs)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := Load(New(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("output_dir: [unclosed"), 0o644))
	_, err = Load(New(), bad)
	assert.Error(t, err)

	v := New()
	v.Set("output_dir", "")
	_, err = Load(v, "")
	assert.Error(t, err)
}
