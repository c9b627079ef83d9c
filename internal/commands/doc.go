// Package commands provides the built-in shell commands: echo, pwd, write,
// cat, ls, history, grep, find, curl and help.
//
// Each command encodes its expected failures in the returned Result and
// answers --help / -h with a fixed usage string through the executor.
package commands
