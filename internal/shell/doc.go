// Package shell implements the command pipeline core: a lexer for
// quote-aware tokenization, a registry mapping command names to handlers,
// and an executor that runs `|`-chained stages strictly left to right,
// piping stdout into the next stage's stdin and applying trailing
// redirection into the virtual filesystem.
//
// One line runs to completion per Executor; a concurrent submission fails
// with ErrBusy instead of interleaving. Handlers encode expected failures
// in their Result; panics are recovered into a fatal stage failure.
package shell
