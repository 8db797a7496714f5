package scanner

import "path/filepath"

// DefaultExcludes returns the OS-specific paths skipped when no denylist is given
func DefaultExcludes() []string {
	out := make([]string, len(defaultExcludes))
	copy(out, defaultExcludes)
	return out
}

// excludeSet holds cleaned absolute paths for exact matching
type excludeSet map[string]struct{}

func newExcludeSet(paths []string) excludeSet {
	set := make(excludeSet, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		set[filepath.Clean(p)] = struct{}{}
	}
	return set
}

func (s excludeSet) contains(path string) bool {
	_, ok := s[path]
	return ok
}
