package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebShell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebShell/internal/shell"
	"github.com/GriffinCanCode/WebShell/internal/store"
	"github.com/GriffinCanCode/WebShell/internal/vfs"
)

// ErrNotFound is returned when no session exists with the given ID.
var ErrNotFound = errors.New("session: not found")

const metaPrefix = "session:meta:"

// Session is one live shell: its filesystem and its executor.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time
	FS        *vfs.FileSystem
	Executor  *shell.Executor
}

// Metadata is the listing view of a session.
type Metadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Cwd       string    `json:"cwd"`
}

// meta is the persisted record, enough to rebuild a Session after restart.
type meta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SeedFunc populates a freshly created session's filesystem.
type SeedFunc func(ctx context.Context, fs *vfs.FileSystem) error

// Options configures a Manager.
type Options struct {
	// HistoryCapacity is forwarded to each session's filesystem.
	HistoryCapacity int
	// Seed, when set, runs once on every newly created session.
	Seed SeedFunc
}

// Manager creates, looks up and tears down sessions. Session metadata lives
// in the shared store, so sessions survive a restart alongside their
// filesystem state.
type Manager struct {
	store      store.Store
	registry   *shell.Registry
	log        *logging.Logger
	metrics    *monitoring.Metrics
	historyCap int
	seed       SeedFunc

	sessions sync.Map // id -> *Session
}

// NewManager wires a session manager over a shared store and registry.
// logger may be nil; metrics is optional.
func NewManager(st store.Store, reg *shell.Registry, logger *logging.Logger, metrics *monitoring.Metrics, opts Options) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		store:      st,
		registry:   reg,
		log:        logger,
		metrics:    metrics,
		historyCap: opts.HistoryCapacity,
		seed:       opts.Seed,
	}
}

// Create starts a new session with a fresh filesystem namespace.
func (m *Manager) Create(ctx context.Context, name string) (*Session, error) {
	id := uuid.NewString()
	now := time.Now()

	sess, err := m.build(ctx, meta{ID: id, Name: name, CreatedAt: now})
	if err != nil {
		return nil, err
	}

	if m.seed != nil {
		if err := m.seed(ctx, sess.FS); err != nil {
			return nil, fmt.Errorf("session: seed %s: %w", id, err)
		}
	}

	data, err := sonic.Marshal(meta{ID: id, Name: name, CreatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("session: encode metadata: %w", err)
	}
	if err := m.store.Set(ctx, metaPrefix+id, data); err != nil {
		return nil, fmt.Errorf("session: persist metadata: %w", err)
	}

	m.sessions.Store(id, sess)
	m.log.Info("session created", zap.String("session_id", id), zap.String("name", name))

	if m.metrics != nil {
		m.metrics.IncSessionsTotal()
		m.metrics.SetSessionsActive(m.Count())
	}
	return sess, nil
}

// Hydrate rebuilds sessions from metadata persisted by a previous run.
// Records that fail to decode are logged and skipped.
func (m *Manager) Hydrate(ctx context.Context) error {
	keys, err := m.store.List(ctx, metaPrefix)
	if err != nil {
		return fmt.Errorf("session: hydrate: %w", err)
	}

	for _, key := range keys {
		data, ok, err := m.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("session: hydrate %s: %w", key, err)
		}
		if !ok {
			continue
		}

		var rec meta
		if err := sonic.Unmarshal(data, &rec); err != nil || rec.ID == "" {
			m.log.Warn("skipping unreadable session metadata",
				zap.String("key", key), zap.Error(err))
			continue
		}
		if _, exists := m.sessions.Load(rec.ID); exists {
			continue
		}

		sess, err := m.build(ctx, rec)
		if err != nil {
			return fmt.Errorf("session: hydrate %s: %w", rec.ID, err)
		}
		m.sessions.Store(rec.ID, sess)
	}

	if m.metrics != nil {
		m.metrics.SetSessionsActive(m.Count())
	}
	return nil
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, bool) {
	v, ok := m.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// List returns metadata for all sessions, oldest first.
func (m *Manager) List() []Metadata {
	var out []Metadata
	m.sessions.Range(func(_, v interface{}) bool {
		sess := v.(*Session)
		out = append(out, Metadata{
			ID:        sess.ID,
			Name:      sess.Name,
			CreatedAt: sess.CreatedAt,
			Cwd:       sess.FS.Cwd(),
		})
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	n := 0
	m.sessions.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Delete tears down a session, discarding its filesystem state and its
// metadata record.
func (m *Manager) Delete(ctx context.Context, id string) error {
	v, ok := m.sessions.Load(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess := v.(*Session)

	if err := sess.FS.Reset(ctx); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, metaPrefix+id); err != nil {
		return fmt.Errorf("session: delete metadata: %w", err)
	}

	m.sessions.Delete(id)
	m.log.Info("session deleted", zap.String("session_id", id))

	if m.metrics != nil {
		m.metrics.SetSessionsActive(m.Count())
	}
	return nil
}

// Execute runs one shell line in the named session.
func (m *Manager) Execute(ctx context.Context, id, line string) (*shell.Result, error) {
	sess, ok := m.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess.Executor.Run(ctx, line)
}

// Snapshot exports the session's full filesystem state as a compressed
// payload.
func (m *Manager) Snapshot(id string) ([]byte, error) {
	sess, ok := m.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return vfs.EncodeSnapshot(sess.FS.Dump())
}

// Restore replaces the session's filesystem state with a snapshot payload.
func (m *Manager) Restore(ctx context.Context, id string, payload []byte) error {
	sess, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	state, err := vfs.DecodeSnapshot(payload)
	if err != nil {
		return err
	}
	return sess.FS.Import(ctx, state)
}

func (m *Manager) build(ctx context.Context, rec meta) (*Session, error) {
	fs, err := vfs.New(ctx, m.store, m.log, vfs.Options{
		Namespace:       "session-" + rec.ID,
		HistoryCapacity: m.historyCap,
	})
	if err != nil {
		return nil, fmt.Errorf("session: filesystem for %s: %w", rec.ID, err)
	}

	return &Session{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		FS:        fs,
		Executor:  shell.NewExecutor(m.registry, fs, m.log, m.metrics),
	}, nil
}
