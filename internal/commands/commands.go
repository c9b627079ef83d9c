package commands

import (
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GriffinCanCode/WebShell/internal/shell"
)

// NewHTTPClient creates the outbound HTTP client used by curl.
func NewHTTPClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("User-Agent", "WebShell/1.0")
}

// RegisterBuiltins registers all built-in commands on reg. A nil client
// gets a default 30s one.
func RegisterBuiltins(reg *shell.Registry, client *resty.Client) {
	if client == nil {
		client = NewHTTPClient(30 * time.Second)
	}

	reg.Register(echoCommand())
	reg.Register(pwdCommand())
	reg.Register(cdCommand())
	reg.Register(writeCommand())
	reg.Register(catCommand())
	reg.Register(lsCommand())
	reg.Register(rmCommand())
	reg.Register(statCommand())
	reg.Register(historyCommand())
	reg.Register(grepCommand())
	reg.Register(findCommand())
	reg.Register(curlCommand(client))
	reg.Register(helpCommand(reg))
}
