package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebShell/internal/store"
	"github.com/GriffinCanCode/WebShell/internal/vfs"
)

func newFS(t *testing.T) *vfs.FileSystem {
	t.Helper()
	fs, err := vfs.New(context.Background(), store.NewMemory(0), logging.NewNop(), vfs.Options{
		Namespace: "seed-test",
	})
	require.NoError(t, err)
	return fs
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(`
name: starter
cwd: /home
files:
  - path: /home/readme.txt
    content: |
      welcome aboard
  - path: /etc/motd
    content: "hello"
`))
	require.NoError(t, err)
	assert.Equal(t, "starter", m.Name)
	assert.Equal(t, "/home", m.Cwd)
	require.Len(t, m.Files, 2)
	assert.Equal(t, "/home/readme.txt", m.Files[0].Path)
	assert.Equal(t, "welcome aboard\n", m.Files[0].Content)
}

func TestParseManifestRejectsMissingPath(t *testing.T) {
	_, err := ParseManifest([]byte("files:\n  - content: orphan\n"))
	assert.Error(t, err)
}

func TestParseManifestRejectsBadYAML(t *testing.T) {
	_, err := ParseManifest([]byte("files: [unclosed"))
	assert.Error(t, err)
}

func TestManifestApply(t *testing.T) {
	ctx := context.Background()
	fs := newFS(t)

	m := &Manifest{
		Cwd: "/home",
		Files: []File{
			{Path: "/home/a.txt", Content: "aaa"},
			{Path: "/etc/motd", Content: "hi\n"},
		},
	}
	require.NoError(t, m.Apply(ctx, fs))

	content, err := fs.Read("/home/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "aaa", content)
	assert.Equal(t, "/home", fs.Cwd())
}

func TestSeederLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(`
name: base
files:
  - path: /readme.txt
    content: from base
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yml"), []byte(`
name: extra
files:
  - path: /extra.txt
    content: from extra
`), 0o644))
	// Non-YAML and broken manifests are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("files: [x"), 0o644))

	s := NewSeeder(dir, logging.NewNop())
	manifests, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, manifests, 2)

	ctx := context.Background()
	fs := newFS(t)
	require.NoError(t, s.Apply(ctx, fs))

	content, err := fs.Read("/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "from base", content)
	content, err = fs.Read("/extra.txt")
	require.NoError(t, err)
	assert.Equal(t, "from extra", content)
}

func TestSeederMissingDirIsEmpty(t *testing.T) {
	s := NewSeeder("/does/not/exist", logging.NewNop())
	manifests, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, manifests)
}
