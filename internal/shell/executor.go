package shell

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebShell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebShell/internal/vfs"
)

// Executor runs shell lines against a registry and a filesystem. Stages of
// one line execute strictly sequentially; a second line submitted while one
// is in flight fails with ErrBusy.
type Executor struct {
	registry *Registry
	fs       *vfs.FileSystem
	log      *logging.Logger
	metrics  *monitoring.Metrics
	busy     atomic.Bool
}

// NewExecutor wires an executor. logger may be nil; metrics is optional.
func NewExecutor(registry *Registry, fs *vfs.FileSystem, logger *logging.Logger, metrics *monitoring.Metrics) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		registry: registry,
		fs:       fs,
		log:      logger,
		metrics:  metrics,
	}
}

// FS returns the filesystem this executor operates on.
func (e *Executor) FS() *vfs.FileSystem {
	return e.fs
}

// Registry returns the command registry.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Run executes one line with empty initial stdin.
//
// Executed pipelines, including ones that fail with exit 1 or 127, return a
// Result and a nil error. Malformed lines return a *ParseError, concurrent
// submission returns ErrBusy, cancellation returns the wrapped context
// error, and persistence failures propagate as-is.
func (e *Executor) Run(ctx context.Context, line string) (*Result, error) {
	return e.RunWithInput(ctx, line, "")
}

// RunWithInput executes one line, feeding stdin to the first stage.
func (e *Executor) RunWithInput(ctx context.Context, line, stdin string) (*Result, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.busy.Store(false)

	start := time.Now()

	tokens, err := lex(line)
	if err != nil {
		e.recordLine("parse_error", start)
		return nil, err
	}
	stages, err := parseStages(tokens)
	if err != nil {
		e.recordLine("parse_error", start)
		return nil, err
	}
	if len(stages) == 0 {
		return &Result{}, nil
	}

	// The line parsed; it becomes part of history before any stage runs.
	if err := e.fs.HistoryPush(ctx, line); err != nil {
		e.recordLine("storage_error", start)
		return nil, err
	}

	result, err := e.runStages(ctx, stages, stdin)
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		e.recordLine("cancelled", start)
	case err != nil:
		e.recordLine("storage_error", start)
	case result.ExitCode != 0:
		e.recordLine("failed", start)
	default:
		e.recordLine("ok", start)
	}
	return result, err
}

func (e *Executor) runStages(ctx context.Context, stages []Stage, stdin string) (*Result, error) {
	input := stdin
	var final *Result

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("shell: cancelled: %w", err)
		}

		stageStart := time.Now()

		cmd, ok := e.registry.Get(stage.Name)
		if !ok {
			e.recordStage(stage.Name, "not_found", stageStart)
			return &Result{
				Stderr:   stage.Name + ": command not found\n",
				ExitCode: ExitCommandNotFound,
			}, nil
		}

		var res *Result
		if wantsHelp(stage.Args) {
			res = &Result{Stdout: cmd.Usage + "\n"}
		} else {
			res = e.invoke(ctx, cmd, stage.Args, input)
		}

		if res.ExitCode != 0 {
			e.recordStage(stage.Name, "failed", stageStart)
			// First failure aborts the pipeline; later stages never run.
			return res, nil
		}
		e.recordStage(stage.Name, "ok", stageStart)

		input = res.Stdout
		final = res
	}

	if rd := stages[len(stages)-1].Redirect; rd != nil {
		if err := e.applyRedirect(ctx, rd, final.Stdout); err != nil {
			return nil, err
		}
		redirected := *final
		redirected.Stdout = ""
		final = &redirected
	}

	return final, nil
}

// invoke runs a handler, converting a panic into a fatal stage failure
// instead of taking down the host process.
func (e *Executor) invoke(ctx context.Context, cmd *Command, args []string, stdin string) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("command panicked",
				zap.String("command", cmd.Name),
				zap.Any("panic", r))
			res = &Result{
				Stderr:   fmt.Sprintf("%s: %v\n", cmd.Name, r),
				ExitCode: ExitFailure,
			}
		}
	}()

	res = cmd.Run(ctx, &Request{Args: args, Stdin: stdin, FS: e.fs})
	if res == nil {
		res = &Result{}
	}
	return res
}

func (e *Executor) applyRedirect(ctx context.Context, rd *Redirect, stdout string) error {
	content := stdout
	if rd.Mode == ModeAppend {
		existing, err := e.fs.Read(rd.Path)
		if err == nil {
			content = existing + stdout
		} else if !errors.Is(err, vfs.ErrNotFound) {
			return err
		}
	}
	return e.fs.Write(ctx, rd.Path, content)
}

// wantsHelp reports whether --help or -h appears anywhere in args.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}

func (e *Executor) recordLine(status string, start time.Time) {
	if e.metrics != nil {
		e.metrics.RecordLine(status, time.Since(start))
	}
}

func (e *Executor) recordStage(command, status string, start time.Time) {
	if e.metrics != nil {
		e.metrics.RecordStage(command, status, time.Since(start))
	}
}
