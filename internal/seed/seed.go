package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebShell/internal/vfs"
)

// File is one seeded file entry.
type File struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// Manifest describes the initial contents of a filesystem.
type Manifest struct {
	Name  string `yaml:"name"`
	Cwd   string `yaml:"cwd"`
	Files []File `yaml:"files"`
}

// ParseManifest decodes and validates one YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("seed: parse manifest: %w", err)
	}
	for i, f := range m.Files {
		if f.Path == "" {
			return nil, fmt.Errorf("seed: manifest %q: file %d has no path", m.Name, i)
		}
	}
	return &m, nil
}

// Apply writes the manifest's files and working directory into fs.
func (m *Manifest) Apply(ctx context.Context, fs *vfs.FileSystem) error {
	for _, f := range m.Files {
		if err := fs.Write(ctx, f.Path, f.Content); err != nil {
			return fmt.Errorf("seed: write %s: %w", f.Path, err)
		}
	}
	if m.Cwd != "" {
		if err := fs.Chdir(ctx, m.Cwd); err != nil {
			return fmt.Errorf("seed: chdir %s: %w", m.Cwd, err)
		}
	}
	return nil
}

// Seeder loads manifests from a directory.
type Seeder struct {
	dir string
	log *logging.Logger
}

// NewSeeder creates a seeder over dir. logger may be nil.
func NewSeeder(dir string, logger *logging.Logger) *Seeder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Seeder{dir: dir, log: logger}
}

// Load parses every .yaml/.yml manifest under the seed directory. A missing
// directory yields no manifests; unreadable manifests are logged and
// skipped.
func (s *Seeder) Load() ([]*Manifest, error) {
	if s.dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.log.Warn("seed directory not found", zap.String("dir", s.dir))
		return nil, nil
	}

	var manifests []*Manifest
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := info.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		m, err := ParseManifest(data)
		if err != nil {
			s.log.Warn("skipping unreadable seed manifest",
				zap.String("path", path), zap.Error(err))
			return nil
		}

		s.log.Info("loaded seed manifest",
			zap.String("path", path), zap.Int("files", len(m.Files)))
		manifests = append(manifests, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: scan %s: %w", s.dir, err)
	}
	return manifests, nil
}

// Apply loads all manifests and applies them to fs in directory order.
func (s *Seeder) Apply(ctx context.Context, fs *vfs.FileSystem) error {
	manifests, err := s.Load()
	if err != nil {
		return err
	}
	for _, m := range manifests {
		if err := m.Apply(ctx, fs); err != nil {
			return err
		}
	}
	return nil
}
