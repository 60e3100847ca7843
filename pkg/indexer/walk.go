package indexer

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Walker expands directories into map files. Hidden files and directories
// (a name starting with a dot) below the root are skipped.
type Walker struct {
	extensions map[string]bool
	recursive  bool
}

// NewWalker returns a walker matching extensions case-insensitively.
func NewWalker(extensions []string, recursive bool) *Walker {
	w := &Walker{
		extensions: make(map[string]bool, len(extensions)),
		recursive:  recursive,
	}
	for _, ext := range extensions {
		w.extensions[strings.ToLower(ext)] = true
	}
	return w
}

// Matches reports whether path has one of the walker's extensions.
func (w *Walker) Matches(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

// Hidden reports whether the last element of path starts with a dot.
func Hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// Walk calls fn with every matching file under root. A walk error is passed
// to fn with the failing path; a nil return skips that entry and continues.
func (w *Walker) Walk(root string, fn func(path string, err error) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if ferr := fn(path, err); ferr != nil {
				return ferr
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path != root && Hidden(path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && !w.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !w.Matches(path) {
			return nil
		}
		return fn(path, nil)
	})
}
