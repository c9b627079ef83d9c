package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const diskExt = ".json"

// Disk is a Store that persists each key as a file under a root directory.
type Disk struct {
	root     string
	capacity int64
}

// NewDisk creates a disk store rooted at dir. A capacity of zero or less
// disables the quota.
func NewDisk(dir string, capacity int64) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create root: %w", err)
	}
	return &Disk{root: dir, capacity: capacity}, nil
}

// Get returns the value for key.
func (d *Disk) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(d.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: read %q: %w", key, err)
	}
	return data, true, nil
}

// Set stores value under key, enforcing the quota.
func (d *Disk) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if d.capacity > 0 {
		used, err := d.used(key)
		if err != nil {
			return err
		}
		if used+int64(len(value)) > d.capacity {
			return fmt.Errorf("%w: %d bytes over quota writing %q", ErrCapacity, used+int64(len(value))-d.capacity, key)
		}
	}

	path := d.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("store: write %q: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are a no-op.
func (d *Disk) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(d.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}

// List returns all keys with the given prefix.
func (d *Disk) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, diskExt) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, diskExt))
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// used sums stored bytes, excluding the file about to be replaced.
func (d *Disk) used(replacing string) (int64, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return 0, fmt.Errorf("store: quota scan: %w", err)
	}

	skip := filepath.Base(d.path(replacing))
	var total int64
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == skip || !strings.HasSuffix(entry.Name(), diskExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.root, url.PathEscape(key)+diskExt)
}
