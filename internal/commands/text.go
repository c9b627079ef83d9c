package commands

import (
	"context"
	"strings"

	"github.com/GriffinCanCode/WebShell/internal/shell"
)

func echoCommand() *shell.Command {
	return &shell.Command{
		Name:  "echo",
		Usage: "usage: echo [args...]",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			return shell.Success(strings.Join(req.Args, " ") + "\n")
		},
	}
}

func grepCommand() *shell.Command {
	return &shell.Command{
		Name:  "grep",
		Usage: "usage: grep <pattern>",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			if len(req.Args) < 1 {
				return shell.Failure("grep: missing pattern")
			}
			pattern := req.Args[0]

			var out strings.Builder
			for _, line := range strings.Split(req.Stdin, "\n") {
				if line == "" {
					continue
				}
				if strings.Contains(line, pattern) {
					out.WriteString(line)
					out.WriteByte('\n')
				}
			}
			return shell.Success(out.String())
		},
	}
}
