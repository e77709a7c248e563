package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Matches reports whether path names a message file selected by c. Only the
// name is looked at; the file need not exist.
func (c Config) Matches(path string) bool {
	return !c.skipHidden(path) && c.hasValidExtension(path)
}

// Collect returns the message files under c.Path in sorted order. A file
// path is returned as is, whatever its extension. Hidden directories are
// skipped unless c.IncludeHidden is set.
func Collect(c Config) ([]string, error) {
	info, err := os.Stat(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", c.Path, err)
	}
	if !info.IsDir() {
		return []string{filepath.Clean(c.Path)}, nil
	}

	var files []string
	err = filepath.WalkDir(c.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != c.Path && c.skipHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && c.hasValidExtension(path) {
			files = append(files, filepath.Clean(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", c.Path, err)
	}
	sort.Strings(files)
	return files, nil
}

func (c Config) skipHidden(path string) bool {
	return !c.IncludeHidden && strings.HasPrefix(filepath.Base(path), ".")
}

func (c Config) hasValidExtension(path string) bool {
	if len(c.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range c.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}
