package commands

import (
	"context"
	"strings"

	"github.com/GriffinCanCode/WebShell/internal/shell"
)

// helpCommand lists whatever is registered at invocation time, so commands
// added after startup show up too.
func helpCommand(reg *shell.Registry) *shell.Command {
	return &shell.Command{
		Name:  "help",
		Usage: "usage: help",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			return shell.Success(strings.Join(reg.Names(), "\n") + "\n")
		},
	}
}
