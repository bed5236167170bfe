package emit

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/metagen/metagen"
)

var log = commonlog.GetLogger("metagen.emit")

// Output writes metamodel sources below Dir. It only ever overwrites or
// deletes files that carry GeneratedMarker.
type Output struct {
	Dir string
	// DryRun reports the paths that would change without touching disk.
	DryRun bool
}

// Write renders bean and stores it, skipping files whose content is
// unchanged. It returns the file path and whether anything was written.
func (o *Output) Write(bean *metagen.Bean) (string, bool, error) {
	file := o.file(bean)
	source, err := Source(bean)
	if err != nil {
		return file, false, err
	}

	existing, err := os.ReadFile(file)
	switch {
	case err == nil && bytes.Equal(existing, source):
		return file, false, nil
	case err == nil && !IsGenerated(existing):
		return file, false, fmt.Errorf("refusing to overwrite %s: not generated by metagen", file)
	case err != nil && !os.IsNotExist(err):
		return file, false, fmt.Errorf("failed to read %s: %w", file, err)
	}

	if o.DryRun {
		return file, true, nil
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return file, false, fmt.Errorf("failed to create directory for %s: %w", file, err)
	}
	if err := os.WriteFile(file, source, 0o644); err != nil {
		return file, false, fmt.Errorf("failed to write %s: %w", file, err)
	}
	log.Debugf("wrote %s", file)
	return file, true, nil
}

// Remove deletes the metamodel file of bean if it was generated.
func (o *Output) Remove(bean *metagen.Bean) (string, bool, error) {
	file := o.file(bean)
	removed, err := o.removeGenerated(file)
	return file, removed, err
}

func (o *Output) removeGenerated(file string) (bool, error) {
	existing, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", file, err)
	}
	if !IsGenerated(existing) {
		return false, nil
	}
	if o.DryRun {
		return true, nil
	}
	if err := os.Remove(file); err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", file, err)
	}
	log.Debugf("removed %s", file)
	return true, nil
}

// Clean deletes generated *Meta.java files below Dir that do not belong to
// one of the kept beans. It returns the deleted paths.
func (o *Output) Clean(keep []*metagen.Bean) ([]string, error) {
	wanted := make(map[string]bool, len(keep))
	for _, bean := range keep {
		wanted[o.file(bean)] = true
	}

	var removed []string
	err := filepath.WalkDir(o.Dir, func(path string, d fs.DirEntry, err error) error {
		if os.IsNotExist(err) && path == o.Dir {
			return filepath.SkipDir
		}
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.HasSuffix(path, metagen.MetaSuffix+".java") || wanted[path] {
			return nil
		}
		ok, err := o.removeGenerated(path)
		if err != nil {
			return err
		}
		if ok {
			removed = append(removed, path)
		}
		return nil
	})
	return removed, err
}

func (o *Output) file(bean *metagen.Bean) string {
	return filepath.Join(o.Dir, filepath.FromSlash(Path(bean)))
}
