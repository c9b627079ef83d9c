package vfs

import "time"

// NodeType discriminates text files from opaque blobs.
type NodeType string

const (
	TypeText NodeType = "text"
	TypeBlob NodeType = "blob"
)

// FileNode is a single stored file. The path is the map key in the
// persisted layout, so it is not serialized twice.
type FileNode struct {
	Path    string    `json:"-"`
	Type    NodeType  `json:"type"`
	Content string    `json:"content"`
	Mtime   time.Time `json:"mtime"`
}

// State is the whole persisted filesystem: working directory, files keyed
// by absolute normalized path, and the bounded command history.
type State struct {
	CWD     string               `json:"cwd"`
	Files   map[string]*FileNode `json:"files"`
	History []string             `json:"history"`
}

// newState returns an empty filesystem state rooted at "/".
func newState() *State {
	return &State{
		CWD:   "/",
		Files: make(map[string]*FileNode),
	}
}

// normalize repairs a state after deserialization: nil maps become empty,
// map keys win over embedded paths, and cwd is re-normalized.
func (s *State) normalize() {
	if s.Files == nil {
		s.Files = make(map[string]*FileNode)
	}
	for path, node := range s.Files {
		node.Path = path
		if node.Type == "" {
			node.Type = TypeText
		}
	}
	if s.CWD == "" {
		s.CWD = "/"
	} else {
		s.CWD = Normalize(s.CWD, "/")
	}
}

// clone returns a deep copy of the state.
func (s *State) clone() *State {
	out := &State{
		CWD:   s.CWD,
		Files: make(map[string]*FileNode, len(s.Files)),
	}
	for path, node := range s.Files {
		copied := *node
		out.Files[path] = &copied
	}
	if s.History != nil {
		out.History = append([]string(nil), s.History...)
	}
	return out
}
