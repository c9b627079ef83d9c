package vfs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebShell/internal/store"
)

// ErrNotFound is returned when no readable file exists at a path.
var ErrNotFound = errors.New("vfs: not found")

const (
	keyPrefix         = "shell:state:"
	defaultNamespace  = "main"
	defaultHistoryCap = 100
)

// Info describes a stored file.
type Info struct {
	Size  int       `json:"size"`
	Mtime time.Time `json:"mtime"`
	Type  NodeType  `json:"type"`
}

// Options configures a FileSystem.
type Options struct {
	// Namespace isolates this filesystem's entry in the shared store.
	Namespace string
	// HistoryCapacity bounds the command history ring.
	HistoryCapacity int
	// Clock overrides the mtime source, for tests.
	Clock func() time.Time
}

// FileSystem provides path semantics over a key-value store. All mutations
// persist the whole state before returning success.
type FileSystem struct {
	store      store.Store
	log        *logging.Logger
	key        string
	historyCap int
	now        func() time.Time

	mu    sync.Mutex
	state *State
}

// New creates a filesystem, hydrating state from the store when present.
// Unreadable persisted state is logged and replaced by an empty state
// rather than silently treated as absent.
func New(ctx context.Context, st store.Store, logger *logging.Logger, opts Options) (*FileSystem, error) {
	if opts.Namespace == "" {
		opts.Namespace = defaultNamespace
	}
	if opts.HistoryCapacity <= 0 {
		opts.HistoryCapacity = defaultHistoryCap
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	fs := &FileSystem{
		store:      st,
		log:        logger,
		key:        keyPrefix + opts.Namespace,
		historyCap: opts.HistoryCapacity,
		now:        opts.Clock,
		state:      newState(),
	}

	data, ok, err := st.Get(ctx, fs.key)
	if err != nil {
		return nil, fmt.Errorf("vfs: hydrate: %w", err)
	}
	if ok {
		var state State
		if err := sonic.Unmarshal(data, &state); err != nil {
			fs.log.Warn("persisted filesystem state unreadable, starting empty",
				zap.String("key", fs.key), zap.Error(err))
		} else {
			state.normalize()
			fs.state = &state
			fs.trimHistoryLocked()
		}
	}

	return fs, nil
}

// Namespace returns the store namespace this filesystem persists under.
func (fs *FileSystem) Namespace() string {
	return strings.TrimPrefix(fs.key, keyPrefix)
}

// Read returns the content of the text file at path.
func (fs *FileSystem) Read(path string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	abs := Normalize(path, fs.state.CWD)
	node, ok := fs.state.Files[abs]
	if !ok || node.Type != TypeText {
		return "", fmt.Errorf("%w: %s", ErrNotFound, abs)
	}
	return node.Content, nil
}

// Write upserts a file at path with the current timestamp and persists the
// whole state. Content that does not look like text is stored as a blob.
func (fs *FileSystem) Write(ctx context.Context, path, content string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	abs := Normalize(path, fs.state.CWD)
	prev, existed := fs.state.Files[abs]
	fs.state.Files[abs] = &FileNode{
		Path:    abs,
		Type:    detectType(content),
		Content: content,
		Mtime:   fs.now(),
	}

	if err := fs.persistLocked(ctx); err != nil {
		if existed {
			fs.state.Files[abs] = prev
		} else {
			delete(fs.state.Files, abs)
		}
		return err
	}
	return nil
}

// Delete removes the file at path. A missing path is ErrNotFound, mirroring
// conventional remove semantics.
func (fs *FileSystem) Delete(ctx context.Context, path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	abs := Normalize(path, fs.state.CWD)
	prev, ok := fs.state.Files[abs]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, abs)
	}
	delete(fs.state.Files, abs)

	if err := fs.persistLocked(ctx); err != nil {
		fs.state.Files[abs] = prev
		return err
	}
	return nil
}

// List returns the sorted, deduplicated immediate children of dir: file
// names and implied subdirectory names one segment below it.
func (fs *FileSystem) List(dir string) []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prefix := childPrefix(Normalize(dir, fs.state.CWD))
	seen := make(map[string]struct{})
	for path := range fs.state.Files {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := path[len(prefix):]
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			rest = rest[:idx]
		}
		seen[rest] = struct{}{}
	}

	children := make([]string, 0, len(seen))
	for name := range seen {
		children = append(children, name)
	}
	sort.Strings(children)
	return children
}

// Stat returns size, mtime and type of the file at path.
func (fs *FileSystem) Stat(path string) (Info, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	abs := Normalize(path, fs.state.CWD)
	node, ok := fs.state.Files[abs]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrNotFound, abs)
	}
	return Info{
		Size:  len(node.Content),
		Mtime: node.Mtime,
		Type:  node.Type,
	}, nil
}

// Cwd returns the current working directory.
func (fs *FileSystem) Cwd() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.state.CWD
}

// Chdir changes the working directory. Directories are virtual, so any
// syntactically valid target succeeds whether or not it has descendants.
func (fs *FileSystem) Chdir(ctx context.Context, path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev := fs.state.CWD
	fs.state.CWD = Normalize(path, prev)

	if err := fs.persistLocked(ctx); err != nil {
		fs.state.CWD = prev
		return err
	}
	return nil
}

// HistoryPush appends cmd to the bounded history, evicting the oldest entry
// once capacity is exceeded.
func (fs *FileSystem) HistoryPush(ctx context.Context, cmd string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev := fs.state.History
	fs.state.History = append(append([]string(nil), prev...), cmd)
	fs.trimHistoryLocked()

	if err := fs.persistLocked(ctx); err != nil {
		fs.state.History = prev
		return err
	}
	return nil
}

// History returns a copy of the history, oldest first.
func (fs *FileSystem) History() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.state.History...)
}

// Dump returns a deep copy of the full state for backup.
func (fs *FileSystem) Dump() *State {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.state.clone()
}

// Import atomically replaces the full state and persists it. The previous
// state is kept on persist failure.
func (fs *FileSystem) Import(ctx context.Context, state *State) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	incoming := state.clone()
	incoming.normalize()

	prev := fs.state
	fs.state = incoming
	fs.trimHistoryLocked()

	if err := fs.persistLocked(ctx); err != nil {
		fs.state = prev
		return err
	}
	return nil
}

// Reset discards all state and deletes the persisted entry.
func (fs *FileSystem) Reset(ctx context.Context) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.store.Delete(ctx, fs.key); err != nil {
		return fmt.Errorf("vfs: reset: %w", err)
	}
	fs.state = newState()
	return nil
}

func (fs *FileSystem) trimHistoryLocked() {
	if excess := len(fs.state.History) - fs.historyCap; excess > 0 {
		fs.state.History = fs.state.History[excess:]
	}
}

func (fs *FileSystem) persistLocked(ctx context.Context) error {
	data, err := sonic.Marshal(fs.state)
	if err != nil {
		return fmt.Errorf("vfs: encode state: %w", err)
	}
	if err := fs.store.Set(ctx, fs.key, data); err != nil {
		return fmt.Errorf("vfs: persist state: %w", err)
	}
	return nil
}

// detectType classifies content as text or blob. Every text-like format
// detected by mimetype has text/plain as an ancestor.
func detectType(content string) NodeType {
	if content == "" {
		return TypeText
	}
	for m := mimetype.Detect([]byte(content)); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return TypeText
		}
	}
	return TypeBlob
}
