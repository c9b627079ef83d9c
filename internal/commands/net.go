package commands

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/GriffinCanCode/WebShell/internal/shell"
)

func curlCommand(client *resty.Client) *shell.Command {
	return &shell.Command{
		Name:  "curl",
		Usage: "usage: curl <url>",
		Run: func(ctx context.Context, req *shell.Request) *shell.Result {
			if len(req.Args) < 1 {
				return shell.Failure("curl: missing url")
			}
			url := req.Args[0]

			resp, err := client.R().SetContext(ctx).Get(url)
			if err != nil {
				return shell.Failuref("curl: %v", err)
			}
			if resp.IsError() {
				return shell.Failuref("curl: %s returned %s", url, resp.Status())
			}
			return shell.Success(string(resp.Body()))
		},
	}
}
