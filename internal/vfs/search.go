package vfs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob returns the sorted stored paths matching pattern. Relative patterns
// are resolved against the working directory; `**` crosses directory
// boundaries.
func (fs *FileSystem) Glob(pattern string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if !strings.HasPrefix(pattern, "/") {
		pattern = childPrefix(fs.state.CWD) + pattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("vfs: bad pattern %q", pattern)
	}

	var matches []string
	for path := range fs.state.Files {
		ok, err := doublestar.Match(pattern, path)
		if err != nil {
			return nil, fmt.Errorf("vfs: bad pattern %q", pattern)
		}
		if ok {
			matches = append(matches, path)
		}
	}
	sort.Strings(matches)
	return matches, nil
}
