// Package builtin implements the commands run inside the interpreter
// process itself.
package builtin

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"

	"github.com/minsh-shell/minsh/core/env"
)

// StatusSlot is the shared last-foreground-status pseudo-variable.
type StatusSlot interface {
	LastStatus() string
	SetLastStatus(status string)
}

// Context carries the shell facilities a builtin may touch.
type Context struct {
	// Args is the full argv, Args[0] being the builtin name.
	Args   []string
	Env    env.Env
	Status StatusSlot
	Stderr io.Writer
}

// UsageErrorf reports a usage error and records status 1. The shell keeps
// running afterwards.
func (c *Context) UsageErrorf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stderr, "minsh: %s\n", fmt.Sprintf(format, args...))
	c.Status.SetLastStatus("1")
}

// ExitRequest asks the shell loop to terminate with Code. It travels as an
// error so builtins keep a uniform signature.
type ExitRequest struct {
	Code int
}

func (e *ExitRequest) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// Func is a builtin entry point.
type Func func(ctx *Context) error

var registry = make(map[string]Func)

func register(name string, fn Func) {
	registry[name] = fn
}

// Lookup returns the builtin registered under name. The set of builtins is
// closed; anything else is an external command.
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names lists the registered builtins.
func Names() []string {
	var names []string
	for name := range registry {
		names = append(names, name)
	}
	return names
}

var helpHeading = color.New(color.Bold)

// Command wraps a builtin with a getopt flag set and standard help output.
type Command struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (c *Command) Flags() *getopt.Set {
	if c.flags == nil {
		c.flags = getopt.New()
	}
	return c.flags
}

// PrintHelp writes help for the command to the given writer.
func (c *Command) PrintHelp(w io.Writer) {
	helpHeading.Fprint(w, "usage: ")
	fmt.Fprintln(w, c.Use)
	fmt.Fprintln(w, c.Short)
	fmt.Fprintln(w)
	helpHeading.Fprintln(w, "Flags:")
	c.Flags().PrintOptions(w)
}

// Run parses flags from ctx.Args and invokes callback with the remaining
// operands. Flag errors and --help are handled here; --help is not a usage
// error and leaves the status slot alone.
func (c *Command) Run(ctx *Context, callback func(args []string) error) error {
	opts := c.Flags()
	showHelp := opts.BoolLong("help", 'h', "show this help and exit")

	flagArgs, operands := splitOperands(ctx.Args)
	if err := opts.Getopt(flagArgs, nil); err != nil {
		ctx.UsageErrorf("%s: %v", ctx.Args[0], err)
		return nil
	}

	if *showHelp {
		c.PrintHelp(ctx.Stderr)
		return nil
	}

	return callback(append(opts.Args(), operands...))
}

// splitOperands ends flag parsing at the first operand so negative numbers
// like "exit -1" are not mistaken for flags. An operand is a bare "-",
// anything without a leading "-", or "-" followed by a digit. A "--"
// terminator is left for getopt, which already treats the rest as
// operands.
func splitOperands(args []string) (flags, operands []string) {
	for i := 1; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return args, nil
		}
		if a == "-" || a[0] != '-' || (a[1] >= '0' && a[1] <= '9') {
			return args[:i], args[i:]
		}
	}
	return args, nil
}
