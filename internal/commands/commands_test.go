package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebShell/internal/shell"
	"github.com/GriffinCanCode/WebShell/internal/store"
	"github.com/GriffinCanCode/WebShell/internal/vfs"
)

func newShell(t *testing.T) *shell.Executor {
	t.Helper()
	fs, err := vfs.New(context.Background(), store.NewMemory(0), logging.NewNop(), vfs.Options{
		Namespace: "commands-test",
	})
	require.NoError(t, err)

	reg := shell.NewRegistry()
	RegisterBuiltins(reg, nil)
	return shell.NewExecutor(reg, fs, logging.NewNop(), nil)
}

func run(t *testing.T, e *shell.Executor, line string) *shell.Result {
	t.Helper()
	res, err := e.Run(context.Background(), line)
	require.NoError(t, err, "line %q", line)
	return res
}

func TestEcho(t *testing.T) {
	e := newShell(t)

	res := run(t, e, "echo hello world")
	assert.Equal(t, "hello world\n", res.Stdout)
	assert.Equal(t, shell.ExitOK, res.ExitCode)

	res = run(t, e, "echo")
	assert.Equal(t, "\n", res.Stdout)

	res = run(t, e, `echo "two  spaces"`)
	assert.Equal(t, "two  spaces\n", res.Stdout)
}

func TestEchoPipeGrep(t *testing.T) {
	e := newShell(t)

	res := run(t, e, "echo one two | grep two")
	assert.Equal(t, "one two\n", res.Stdout)
	assert.Equal(t, shell.ExitOK, res.ExitCode)

	res = run(t, e, "echo one two | grep absent")
	assert.Empty(t, res.Stdout)
	assert.Equal(t, shell.ExitOK, res.ExitCode)
}

func TestGrepDropsBlankLines(t *testing.T) {
	e := newShell(t)

	res, err := e.RunWithInput(context.Background(), "grep line", "line one\n\nline two\nnope\n")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", res.Stdout)
}

func TestGrepMissingPattern(t *testing.T) {
	e := newShell(t)

	res := run(t, e, "grep")
	assert.Equal(t, shell.ExitFailure, res.ExitCode)
	assert.Contains(t, res.Stderr, "missing pattern")
}

func TestWriteCatRoundtrip(t *testing.T) {
	e := newShell(t)

	res := run(t, e, "write /notes/a.txt hello from shell")
	assert.Equal(t, "wrote /notes/a.txt\n", res.Stdout)

	res = run(t, e, "cat /notes/a.txt")
	assert.Equal(t, "hello from shell", res.Stdout)
	assert.Equal(t, shell.ExitOK, res.ExitCode)
}

func TestCatMissingFile(t *testing.T) {
	e := newShell(t)

	res := run(t, e, "cat /absent.txt")
	assert.Equal(t, shell.ExitFailure, res.ExitCode)
	assert.Contains(t, res.Stderr, "no such file")
}

func TestCatStdin(t *testing.T) {
	e := newShell(t)

	res := run(t, e, "echo piped | cat")
	assert.Equal(t, "piped\n", res.Stdout)
}

func TestRedirectThenCat(t *testing.T) {
	e := newShell(t)

	run(t, e, "echo hi > /out.txt")
	res := run(t, e, "cat /out.txt")
	assert.Equal(t, "hi\n", res.Stdout)
}

func TestLs(t *testing.T) {
	e := newShell(t)

	run(t, e, "write /docs/b.txt b")
	run(t, e, "write /docs/a.txt a")
	run(t, e, "write /docs/sub/c.txt c")

	res := run(t, e, "ls /docs")
	assert.Equal(t, "a.txt\nb.txt\nsub\n", res.Stdout)

	res = run(t, e, "ls /empty")
	assert.Empty(t, res.Stdout)
	assert.Equal(t, shell.ExitOK, res.ExitCode)
}

func TestCdPwd(t *testing.T) {
	e := newShell(t)

	res := run(t, e, "pwd")
	assert.Equal(t, "/\n", res.Stdout)

	run(t, e, "cd /docs/sub")
	res = run(t, e, "pwd")
	assert.Equal(t, "/docs/sub\n", res.Stdout)

	run(t, e, "cd ..")
	res = run(t, e, "pwd")
	assert.Equal(t, "/docs\n", res.Stdout)

	run(t, e, "cd")
	res = run(t, e, "pwd")
	assert.Equal(t, "/\n", res.Stdout)
}

func TestRm(t *testing.T) {
	e := newShell(t)

	run(t, e, "write /tmp.txt x")
	res := run(t, e, "rm /tmp.txt")
	assert.Equal(t, shell.ExitOK, res.ExitCode)

	res = run(t, e, "cat /tmp.txt")
	assert.Equal(t, shell.ExitFailure, res.ExitCode)

	res = run(t, e, "rm /tmp.txt")
	assert.Equal(t, shell.ExitFailure, res.ExitCode)
	assert.Contains(t, res.Stderr, "no such file")
}

func TestStat(t *testing.T) {
	e := newShell(t)

	run(t, e, "write /s.txt abcd")
	res := run(t, e, "stat /s.txt")
	assert.Equal(t, shell.ExitOK, res.ExitCode)
	assert.Contains(t, res.Stdout, "size: 4")
	assert.Contains(t, res.Stdout, "type: text")

	res = run(t, e, "stat /absent")
	assert.Equal(t, shell.ExitFailure, res.ExitCode)
}

func TestHistory(t *testing.T) {
	e := newShell(t)

	run(t, e, "echo one")
	run(t, e, "echo two")
	res := run(t, e, "history")
	assert.Equal(t, "echo one\necho two\nhistory\n", res.Stdout)
}

func TestFind(t *testing.T) {
	e := newShell(t)

	run(t, e, "write /src/main.go x")
	run(t, e, "write /src/util/helper.go x")
	run(t, e, "write /src/readme.md x")

	res := run(t, e, "find /src/**/*.go")
	assert.Equal(t, "/src/main.go\n/src/util/helper.go\n", res.Stdout)

	res = run(t, e, "find /none/*.go")
	assert.Empty(t, res.Stdout)
	assert.Equal(t, shell.ExitOK, res.ExitCode)
}

func TestHelp(t *testing.T) {
	e := newShell(t)

	res := run(t, e, "help")
	assert.Equal(t, shell.ExitOK, res.ExitCode)
	assert.Contains(t, res.Stdout, "echo")
	assert.Contains(t, res.Stdout, "curl")
	assert.Contains(t, res.Stdout, "help")
}

func TestUsageShortCircuit(t *testing.T) {
	e := newShell(t)

	res := run(t, e, "write --help")
	assert.Equal(t, "usage: write <path> <content...>\n", res.Stdout)
	assert.Equal(t, shell.ExitOK, res.ExitCode)

	res = run(t, e, "cat -h /ignored")
	assert.Equal(t, "usage: cat [path]\n", res.Stdout)
}

func TestCurl(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("response body"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	e := newShell(t)

	res := run(t, e, "curl "+srv.URL+"/ok")
	assert.Equal(t, "response body", res.Stdout)
	assert.Equal(t, shell.ExitOK, res.ExitCode)

	res = run(t, e, "curl "+srv.URL+"/missing")
	assert.Equal(t, shell.ExitFailure, res.ExitCode)
	assert.Contains(t, res.Stderr, "404")
}

func TestCurlTransportFailure(t *testing.T) {
	fs, err := vfs.New(context.Background(), store.NewMemory(0), logging.NewNop(), vfs.Options{
		Namespace: "curl-test",
	})
	require.NoError(t, err)

	reg := shell.NewRegistry()
	client := NewHTTPClient(time.Second).SetRetryCount(0)
	RegisterBuiltins(reg, client)
	e := shell.NewExecutor(reg, fs, logging.NewNop(), nil)

	res, err := e.Run(context.Background(), "curl http://127.0.0.1:1/unreachable")
	require.NoError(t, err)
	assert.Equal(t, shell.ExitFailure, res.ExitCode)
	assert.Contains(t, res.Stderr, "curl:")
}
