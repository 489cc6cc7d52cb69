package walk

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultSkipDirs are directory names never worth scanning.
var DefaultSkipDirs = []string{
	".git", ".hg", ".svn",
	"target", "build", "node_modules", "vendor",
}

// FilterDirs skips hidden directories and the given directory names. With
// no names, DefaultSkipDirs is used.
func FilterDirs(names ...string) SkipFunc {
	if len(names) == 0 {
		names = DefaultSkipDirs
	}
	return func(path string, d fs.DirEntry) bool {
		if !d.IsDir() {
			return false
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return true
		}
		return slices.Contains(names, name)
	}
}

// AnySkip combines predicates: an entry is skipped if any of them says so.
func AnySkip(fns ...SkipFunc) SkipFunc {
	return func(path string, d fs.DirEntry) bool {
		for _, fn := range fns {
			if fn != nil && fn(path, d) {
				return true
			}
		}
		return false
	}
}

// WithExt matches files by extension (".rs"). Extensions are compared
// case-sensitively and must include the leading dot.
func WithExt(exts ...string) MatchFunc {
	return func(path string) bool {
		return slices.Contains(exts, filepath.Ext(path))
	}
}
