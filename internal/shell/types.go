package shell

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/WebShell/internal/vfs"
)

// Exit codes. This is the complete surface: success, generic failure, and
// command-not-found.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitCommandNotFound = 127
)

// Result is the outcome of a command or a whole pipeline.
type Result struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// Success returns a zero-exit result carrying stdout.
func Success(stdout string) *Result {
	return &Result{Stdout: stdout}
}

// Successf formats stdout into a zero-exit result.
func Successf(format string, args ...interface{}) *Result {
	return &Result{Stdout: fmt.Sprintf(format, args...)}
}

// Failure returns an exit-1 result carrying a stderr message, newline
// terminated.
func Failure(stderr string) *Result {
	return &Result{Stderr: stderr + "\n", ExitCode: ExitFailure}
}

// Failuref formats stderr into an exit-1 result.
func Failuref(format string, args ...interface{}) *Result {
	return Failure(fmt.Sprintf(format, args...))
}

// RedirectMode selects how redirected stdout lands in the filesystem.
type RedirectMode string

const (
	ModeOverwrite RedirectMode = "overwrite"
	ModeAppend    RedirectMode = "append"
)

// Redirect captures a trailing `>` or `>>` on the final stage.
type Redirect struct {
	Path string
	Mode RedirectMode
}

// Stage is one command invocation within a pipeline.
type Stage struct {
	Name     string
	Args     []string
	Redirect *Redirect
}

// Request is what a handler receives: quote-resolved args, the previous
// stage's stdout as stdin, and the filesystem handle. Cancellation rides on
// the context.
type Request struct {
	Args  []string
	Stdin string
	FS    *vfs.FileSystem
}

// HandlerFunc executes one command. Expected failures (bad arguments,
// missing files) are encoded in the Result, never raised.
type HandlerFunc func(ctx context.Context, req *Request) *Result

// Command pairs a handler with its name and usage line.
type Command struct {
	Name  string
	Usage string
	Run   HandlerFunc
}
