package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/GriffinCanCode/WebShell/internal/shell"
	"github.com/GriffinCanCode/WebShell/internal/vfs"
)

func pwdCommand() *shell.Command {
	return &shell.Command{
		Name:  "pwd",
		Usage: "usage: pwd",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			return shell.Success(req.FS.Cwd() + "\n")
		},
	}
}

func cdCommand() *shell.Command {
	return &shell.Command{
		Name:  "cd",
		Usage: "usage: cd [dir]",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			target := "/"
			if len(req.Args) > 0 {
				target = req.Args[0]
			}
			if err := req.FS.Chdir(ctx, target); err != nil {
				return shell.Failuref("cd: %v", err)
			}
			return shell.Success("")
		},
	}
}

func writeCommand() *shell.Command {
	return &shell.Command{
		Name:  "write",
		Usage: "usage: write <path> <content...>",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			if len(req.Args) < 1 {
				return shell.Failure("write: missing path")
			}
			path := req.Args[0]
			content := strings.Join(req.Args[1:], " ")
			if err := req.FS.Write(ctx, path, content); err != nil {
				return shell.Failuref("write: %v", err)
			}
			return shell.Successf("wrote %s\n", path)
		},
	}
}

func catCommand() *shell.Command {
	return &shell.Command{
		Name:  "cat",
		Usage: "usage: cat [path]",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			if len(req.Args) == 0 {
				return shell.Success(req.Stdin)
			}
			content, err := req.FS.Read(req.Args[0])
			if err != nil {
				if errors.Is(err, vfs.ErrNotFound) {
					return shell.Failuref("cat: %s: no such file", req.Args[0])
				}
				return shell.Failuref("cat: %v", err)
			}
			return shell.Success(content)
		},
	}
}

func lsCommand() *shell.Command {
	return &shell.Command{
		Name:  "ls",
		Usage: "usage: ls [dir]",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			dir := "/"
			if len(req.Args) > 0 {
				dir = req.Args[0]
			}
			children := req.FS.List(dir)
			if len(children) == 0 {
				return shell.Success("")
			}
			return shell.Success(strings.Join(children, "\n") + "\n")
		},
	}
}

func rmCommand() *shell.Command {
	return &shell.Command{
		Name:  "rm",
		Usage: "usage: rm <path>",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			if len(req.Args) < 1 {
				return shell.Failure("rm: missing path")
			}
			if err := req.FS.Delete(ctx, req.Args[0]); err != nil {
				if errors.Is(err, vfs.ErrNotFound) {
					return shell.Failuref("rm: %s: no such file", req.Args[0])
				}
				return shell.Failuref("rm: %v", err)
			}
			return shell.Success("")
		},
	}
}

func statCommand() *shell.Command {
	return &shell.Command{
		Name:  "stat",
		Usage: "usage: stat <path>",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			if len(req.Args) < 1 {
				return shell.Failure("stat: missing path")
			}
			info, err := req.FS.Stat(req.Args[0])
			if err != nil {
				if errors.Is(err, vfs.ErrNotFound) {
					return shell.Failuref("stat: %s: no such file", req.Args[0])
				}
				return shell.Failuref("stat: %v", err)
			}
			return shell.Successf("size: %d\ntype: %s\nmtime: %s\n",
				info.Size, info.Type, info.Mtime.UTC().Format("2006-01-02T15:04:05Z"))
		},
	}
}

func historyCommand() *shell.Command {
	return &shell.Command{
		Name:  "history",
		Usage: "usage: history",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			entries := req.FS.History()
			if len(entries) == 0 {
				return shell.Success("")
			}
			return shell.Success(strings.Join(entries, "\n") + "\n")
		},
	}
}

func findCommand() *shell.Command {
	return &shell.Command{
		Name:  "find",
		Usage: "usage: find <pattern>",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			if len(req.Args) < 1 {
				return shell.Failure("find: missing pattern")
			}
			matches, err := req.FS.Glob(req.Args[0])
			if err != nil {
				return shell.Failuref("find: %v", err)
			}
			if len(matches) == 0 {
				return shell.Success("")
			}
			return shell.Success(strings.Join(matches, "\n") + "\n")
		},
	}
}
