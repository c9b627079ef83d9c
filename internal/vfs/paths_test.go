package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		path string
		cwd  string
		want string
	}{
		{"absolute stays", "/a/b", "/home", "/a/b"},
		{"relative joins cwd", "a", "/home", "/home/a"},
		{"dot segment", "./a", "/home", "/home/a"},
		{"dot only", ".", "/home", "/home"},
		{"parent", "../a", "/home/user", "/home/a"},
		{"parent above root clamps", "../../a", "/", "/a"},
		{"deep clamp", "../../../../x", "/a", "/x"},
		{"interior parents", "a/../../b", "/home", "/b"},
		{"repeated slashes", "//a///b//", "/", "/a/b"},
		{"trailing slash", "/a/b/", "/", "/a/b"},
		{"root itself", "/", "/anything", "/"},
		{"empty path resolves to cwd", "", "/home", "/home"},
		{"all parents collapse to root", "../..", "/a/b", "/"},
		{"mixed dots", "./a/./b/../c", "/", "/a/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.path, tt.cwd)
			assert.Equal(t, tt.want, got)

			// Normalize is idempotent.
			assert.Equal(t, got, Normalize(got, tt.cwd))
		})
	}
}

func TestNormalizeNeverEscapesRoot(t *testing.T) {
	for _, path := range []string{"..", "../..", "../../../../../..", "/.."} {
		assert.Equal(t, "/", Normalize(path, "/"), "path %q", path)
	}
}
