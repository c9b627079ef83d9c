package vfs

import "strings"

// Normalize resolves path against cwd into a canonical absolute path.
//
// Relative paths are prefixed with cwd. Empty and "." segments are dropped,
// ".." pops the previous segment, and traversal above the root clamps to "/"
// rather than erroring. The result always starts with "/" and never carries
// a trailing slash except for the root itself.
func Normalize(path, cwd string) string {
	if !strings.HasPrefix(path, "/") {
		path = cwd + "/" + path
	}

	stack := make([]string, 0, 8)
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			// skip
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}

	if len(stack) == 0 {
		return "/"
	}
	return "/" + strings.Join(stack, "/")
}

// childPrefix returns the prefix under which direct children of dir live.
func childPrefix(dir string) string {
	if dir == "/" {
		return "/"
	}
	return dir + "/"
}
