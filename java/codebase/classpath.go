package codebase

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/metagen/java"
)

// Classpath indexes compiled classes in directories and jars by binary
// name (com.example.Outer$Inner). Class files are decoded on first use.
type Classpath struct {
	entries map[string]classEntry
	cache   map[string]*java.ClassModel
	jars    []*zip.ReadCloser
}

type classEntry struct {
	path string
	jar  *zip.File
}

func NewClasspath() *Classpath {
	return &Classpath{
		entries: make(map[string]classEntry),
		cache:   make(map[string]*java.ClassModel),
	}
}

// Add indexes a class directory or a jar. Entries added earlier win, as
// on the JVM classpath.
func (cp *Classpath) Add(entry string) error {
	info, err := os.Stat(entry)
	if err != nil {
		return fmt.Errorf("failed to open classpath entry: %w", err)
	}
	if info.IsDir() {
		return cp.addDir(entry)
	}
	switch filepath.Ext(entry) {
	case ".jar", ".zip":
		return cp.addJar(entry)
	}
	return fmt.Errorf("unsupported classpath entry %s", entry)
}

func (cp *Classpath) addDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if name, ok := binaryName(filepath.ToSlash(rel)); ok {
			cp.index(name, classEntry{path: path})
		}
		return nil
	})
}

func (cp *Classpath) addJar(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	cp.jars = append(cp.jars, r)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if name, ok := binaryName(f.Name); ok {
			cp.index(name, classEntry{jar: f})
		}
	}
	return nil
}

func (cp *Classpath) index(name string, entry classEntry) {
	if _, ok := cp.entries[name]; !ok {
		cp.entries[name] = entry
	}
}

// binaryName turns a slash separated class file path into a binary name.
// Module and package descriptors and versioned entries are skipped.
func binaryName(rel string) (string, bool) {
	internal, ok := strings.CutSuffix(rel, ".class")
	if !ok || strings.HasPrefix(internal, "META-INF/") {
		return "", false
	}
	base := internal[strings.LastIndex(internal, "/")+1:]
	if base == "module-info" || base == "package-info" {
		return "", false
	}
	return strings.ReplaceAll(internal, "/", "."), true
}

// Has reports whether a class is indexed under a canonical or binary name.
func (cp *Classpath) Has(name string) bool {
	_, ok := cp.lookup(name)
	return ok
}

// Find decodes the class named by a canonical or binary name. It returns
// nil when the class is missing or cannot be read.
func (cp *Classpath) Find(name string) *java.ClassModel {
	binary, ok := cp.lookup(name)
	if !ok {
		return nil
	}
	if model, ok := cp.cache[binary]; ok {
		return model
	}
	model, err := cp.decode(cp.entries[binary])
	if err != nil {
		log.Warningf("skipping class %s: %s", binary, err)
	}
	cp.cache[binary] = model
	return model
}

// lookup maps a canonical name to an indexed binary name by turning the
// trailing dots into '$' one at a time.
func (cp *Classpath) lookup(name string) (string, bool) {
	candidate := name
	for {
		if _, ok := cp.entries[candidate]; ok {
			return candidate, true
		}
		i := strings.LastIndex(candidate, ".")
		if i < 0 {
			return "", false
		}
		candidate = candidate[:i] + "$" + candidate[i+1:]
	}
}

func (cp *Classpath) decode(entry classEntry) (*java.ClassModel, error) {
	if entry.jar == nil {
		return java.ClassModelFromFile(entry.path)
	}
	rc, err := entry.jar.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return java.ClassModelFromReader(rc)
}

func (cp *Classpath) Len() int {
	return len(cp.entries)
}

func (cp *Classpath) Close() error {
	var firstErr error
	for _, r := range cp.jars {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	cp.jars = nil
	return firstErr
}
