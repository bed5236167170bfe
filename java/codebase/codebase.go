// Package codebase keeps the parsed Java sources of a project, the beans
// discovered in them and the classpath used to follow superclasses into
// compiled code. It is the host of both the batch generator and the
// language server.
package codebase

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/metagen/java"
	"github.com/dhamidi/metagen/metagen"
)

var log = commonlog.GetLogger("metagen.codebase")

// Codebase indexes source files by path. All passes run under one lock,
// so the bean space sees one change at a time.
type Codebase struct {
	mu        sync.Mutex
	roots     []string
	files     map[string]*FileInfo
	classes   map[string]*java.ClassModel
	owners    map[string]string
	classpath *Classpath
	space     *metagen.Space
	markers   map[string]bool
}

type FileInfo struct {
	Path    string
	Content []byte
	Unit    *java.CompilationUnit
	// CanGenerate is the pre-check result for the whole unit.
	CanGenerate bool
	Diagnostics []metagen.Diagnostic
}

// Change lists the top-level beans a pass stored and the ones it dropped.
// Removed holds the beans as they were before the pass.
type Change struct {
	Updated []*metagen.Bean
	Removed []*metagen.Bean
}

func (c Change) IsEmpty() bool {
	return len(c.Updated) == 0 && len(c.Removed) == 0
}

func New(roots ...string) *Codebase {
	markers := make(map[string]bool)
	for _, name := range metagen.MarkerAnnotations() {
		markers[name] = true
	}
	return &Codebase{
		roots:     roots,
		files:     make(map[string]*FileInfo),
		classes:   make(map[string]*java.ClassModel),
		owners:    make(map[string]string),
		classpath: NewClasspath(),
		space:     metagen.NewSpace(),
		markers:   markers,
	}
}

func (c *Codebase) Roots() []string {
	return c.roots
}

// LoadClasspath indexes class directories and jars. Classes are decoded
// when discovery first follows a superclass into them.
func (c *Codebase) LoadClasspath(entries []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range entries {
		if err := c.classpath.Add(entry); err != nil {
			return err
		}
	}
	log.Infof("classpath holds %d classes", c.classpath.Len())
	return nil
}

func (c *Codebase) Close() error {
	return c.classpath.Close()
}

// ScanAll reads every .java file below the roots. Every file is indexed
// and then parsed again with the whole index as type lookup before any
// discovery runs, so star imports and superclasses resolve regardless of
// the order files are read in.
func (c *Codebase) ScanAll() (Change, error) {
	paths, err := c.javaFiles()
	if err != nil {
		return Change{}, err
	}

	contents := make(map[string][]byte, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return Change{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		contents[path] = content
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	previous := make(map[string]*FileInfo, len(paths))
	for _, path := range paths {
		if old := c.files[path]; old != nil {
			previous[path] = old
			c.unindexLocked(old)
		}
		fi := &FileInfo{Path: path, Content: contents[path], Unit: java.ParseUnit(contents[path], java.WithSourceFile(path))}
		c.files[path] = fi
		c.indexLocked(fi)
	}

	for _, path := range paths {
		c.reparseLocked(path, contents[path])
	}

	cs := newChangeSet()
	for _, path := range paths {
		if old := previous[path]; old != nil {
			c.dropUndeclaredLocked(old, c.files[path], cs)
		}
	}
	for _, path := range paths {
		c.refreshLocked(c.files[path], cs)
	}
	log.Infof("scanned %d files, %d beans", len(paths), c.space.Len())
	return cs.change(), nil
}

func (c *Codebase) javaFiles() ([]string, error) {
	var paths []string
	for _, root := range c.roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			log.Warningf("source directory %s does not exist", root)
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".java" {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (c *Codebase) ScanFile(path string) (Change, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Change{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return c.UpdateFile(path, content), nil
}

// UpdateFile replaces the contents of one file and brings the bean space
// up to date: the file's own top-level types are rediscovered, types it no
// longer declares are dropped, and types in other files whose superclass
// chain passes through it are rediscovered too.
func (c *Codebase) UpdateFile(path string, content []byte) Change {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs := newChangeSet()
	c.updateLocked(path, content, cs)
	return cs.change()
}

func (c *Codebase) updateLocked(path string, content []byte, cs *changeSet) {
	changed := make(map[string]bool)
	old := c.files[path]
	if old != nil {
		for _, cls := range old.Unit.Classes {
			changed[cls.Name] = true
		}
	}

	fi := c.reparseLocked(path, content)
	if old != nil {
		c.dropUndeclaredLocked(old, fi, cs)
	}
	for _, cls := range fi.Unit.Classes {
		changed[cls.Name] = true
	}

	c.refreshLocked(fi, cs)
	c.refreshDependentsLocked(changed, path, cs)
	log.Debugf("updated %s: %d types, %d diagnostics", path, len(fi.Unit.Classes), len(fi.Diagnostics))
}

// reparseLocked parses content with the index as type lookup and replaces
// the file's entry in the index. Discovery is left to the caller.
func (c *Codebase) reparseLocked(path string, content []byte) *FileInfo {
	unit := java.ParseUnit(content, java.WithSourceFile(path), java.WithTypeLookup(c.knownLocked))
	fi := &FileInfo{Path: path, Content: content, Unit: unit}
	if old := c.files[path]; old != nil {
		c.unindexLocked(old)
	}
	c.files[path] = fi
	c.indexLocked(fi)
	return fi
}

// dropUndeclaredLocked drops the beans of top-level types that old
// declared and fi no longer does.
func (c *Codebase) dropUndeclaredLocked(old, fi *FileInfo, cs *changeSet) {
	declared := make(map[string]bool)
	for _, cls := range fi.Unit.TopLevel() {
		declared[cls.Name] = true
	}
	for _, cls := range old.Unit.TopLevel() {
		if !declared[cls.Name] {
			c.dropLocked(cls.Name, fi.Path, cs)
		}
	}
}

// RemoveFile forgets a file, drops its beans and rediscovers the types
// that extended its types.
func (c *Codebase) RemoveFile(path string) Change {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs := newChangeSet()
	old := c.files[path]
	if old == nil {
		return cs.change()
	}
	delete(c.files, path)
	c.unindexLocked(old)

	changed := make(map[string]bool)
	for _, cls := range old.Unit.Classes {
		changed[cls.Name] = true
	}
	for _, cls := range old.Unit.TopLevel() {
		c.dropLocked(cls.Name, path, cs)
	}
	c.refreshDependentsLocked(changed, path, cs)
	log.Debugf("removed %s", path)
	return cs.change()
}

func (c *Codebase) indexLocked(fi *FileInfo) {
	for _, cls := range fi.Unit.Classes {
		c.classes[cls.Name] = cls
	}
	for _, cls := range fi.Unit.TopLevel() {
		c.owners[cls.Name] = fi.Path
	}
}

func (c *Codebase) unindexLocked(fi *FileInfo) {
	for _, cls := range fi.Unit.Classes {
		if c.classes[cls.Name] == cls {
			delete(c.classes, cls.Name)
		}
	}
	for _, cls := range fi.Unit.TopLevel() {
		if c.owners[cls.Name] == fi.Path {
			delete(c.owners, cls.Name)
		}
	}
}

// dropLocked removes the bean of a top-level type unless another file
// now declares it.
func (c *Codebase) dropLocked(name, path string, cs *changeSet) {
	if owner, ok := c.owners[name]; ok && owner != path {
		return
	}
	if old, ok := c.space.Lookup(name); ok {
		cs.removed(old)
	}
	c.space.RemoveName(name)
}

// refreshLocked reruns the pre-check and discovery for every top-level
// type of a file and replaces the file's diagnostics.
func (c *Codebase) refreshLocked(fi *FileInfo, cs *changeSet) {
	var diags metagen.Diagnostics
	for _, e := range fi.Unit.Errors {
		diags.Warnf(metagen.Position{File: e.Position.File, Line: e.Position.Line, Column: e.Position.Column}, "%s", e.Message)
	}

	var top []metagen.Type
	for _, cls := range fi.Unit.TopLevel() {
		top = append(top, c.view(cls))
	}
	fi.CanGenerate = metagen.CanPossiblyGenerate(metagen.AllTypes(top))

	for _, t := range top {
		if owner := c.owners[t.Name()]; owner != fi.Path {
			continue
		}
		old, existed := c.space.Lookup(t.Name())
		var bean *metagen.Bean
		if fi.CanGenerate {
			bean = c.space.Add(t, &diags)
		} else {
			c.space.Remove(t)
		}
		switch {
		case bean != nil:
			cs.updated(bean)
		case existed:
			cs.removed(old)
		}
	}
	fi.Diagnostics = diags.All()
}

func (c *Codebase) refreshDependentsLocked(changed map[string]bool, skip string, cs *changeSet) {
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		if path != skip {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	for _, path := range paths {
		fi := c.files[path]
		for _, cls := range fi.Unit.Classes {
			if c.extendsAnyLocked(cls, changed) {
				log.Debugf("%s depends on a changed type, rediscovering", path)
				c.refreshLocked(fi, cs)
				break
			}
		}
	}
}

// extendsAnyLocked reports whether a superclass of cls, direct or
// inherited, is named in names.
func (c *Codebase) extendsAnyLocked(cls *java.ClassModel, names map[string]bool) bool {
	seen := map[string]bool{cls.Name: true}
	for name := cls.SuperClass; name != "" && !seen[name]; {
		if names[name] {
			return true
		}
		seen[name] = true
		next := c.modelLocked(name)
		if next == nil {
			return false
		}
		name = next.SuperClass
	}
	return false
}

func (c *Codebase) modelLocked(name string) *java.ClassModel {
	if cls, ok := c.classes[name]; ok {
		return cls
	}
	return c.classpath.Find(name)
}

func (c *Codebase) knownLocked(name string) bool {
	if _, ok := c.classes[name]; ok {
		return true
	}
	return c.markers[name] || c.classpath.Has(name)
}

// Type returns the host view of a source or classpath type. The view
// reads the codebase without locking and must not be used concurrently
// with updates.
func (c *Codebase) Type(name string) metagen.Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	cls := c.modelLocked(name)
	if cls == nil {
		return nil
	}
	return c.view(cls)
}

func (c *Codebase) File(path string) *FileInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.files[path]
}

// Files returns the indexed paths in order.
func (c *Codebase) Files() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Diagnostics returns the diagnostics of every file, ordered by file.
func (c *Codebase) Diagnostics() []metagen.Diagnostic {
	var result []metagen.Diagnostic
	for _, path := range c.Files() {
		if fi := c.File(path); fi != nil {
			result = append(result, fi.Diagnostics...)
		}
	}
	return result
}

func (c *Codebase) Beans() []*metagen.Bean {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.space.Beans()
}

// Bean finds the bean of a top-level or member type by name.
func (c *Codebase) Bean(name string) (*metagen.Bean, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.space.Lookup(name)
}

// BeansInFile returns the top-level beans declared in path.
func (c *Codebase) BeansInFile(path string) []*metagen.Bean {
	c.mu.Lock()
	defer c.mu.Unlock()
	fi := c.files[path]
	if fi == nil {
		return nil
	}
	var result []*metagen.Bean
	for _, cls := range fi.Unit.TopLevel() {
		if bean, ok := c.space.Lookup(cls.Name); ok && c.owners[cls.Name] == path {
			result = append(result, bean)
		}
	}
	return result
}

type changeSet struct {
	order   []string
	updates map[string]*metagen.Bean
	removes map[string]*metagen.Bean
}

func newChangeSet() *changeSet {
	return &changeSet{
		updates: make(map[string]*metagen.Bean),
		removes: make(map[string]*metagen.Bean),
	}
}

func (cs *changeSet) touch(name string) {
	if _, ok := cs.updates[name]; ok {
		return
	}
	if _, ok := cs.removes[name]; ok {
		return
	}
	cs.order = append(cs.order, name)
}

func (cs *changeSet) updated(bean *metagen.Bean) {
	cs.touch(bean.Name)
	delete(cs.removes, bean.Name)
	cs.updates[bean.Name] = bean
}

func (cs *changeSet) removed(bean *metagen.Bean) {
	cs.touch(bean.Name)
	delete(cs.updates, bean.Name)
	if _, ok := cs.removes[bean.Name]; !ok {
		cs.removes[bean.Name] = bean
	}
}

func (cs *changeSet) change() Change {
	var ch Change
	for _, name := range cs.order {
		if bean, ok := cs.updates[name]; ok {
			ch.Updated = append(ch.Updated, bean)
		} else if bean, ok := cs.removes[name]; ok {
			ch.Removed = append(ch.Removed, bean)
		}
	}
	return ch
}
