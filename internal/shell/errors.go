package shell

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a line is submitted while another is in flight
// on the same Executor.
var ErrBusy = errors.New("shell: a pipeline is already in flight")

// ParseError means the line was malformed; nothing executed and no history
// was recorded.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return "shell: parse error: " + e.Msg
}

func parseErrorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
