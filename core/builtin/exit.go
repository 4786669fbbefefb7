package builtin

import "strconv"

// Exit implements the exit builtin. With no argument the shell terminates
// with the current status; with one integer argument it terminates with
// that code. A malformed integer is a recoverable usage error: the shell
// reports it, records status 1 and keeps running. Extra arguments are
// reported as a usage error but the shell still terminates when a valid
// code was given.
func Exit(ctx *Context) error {
	cmd := &Command{
		Use:   "exit [CODE]",
		Short: "Terminate the shell.",
	}

	return cmd.Run(ctx, func(args []string) error {
		if len(args) == 0 {
			return &ExitRequest{Code: statusCode(ctx.Status.LastStatus())}
		}

		if len(args) > 1 {
			ctx.UsageErrorf("exit: too many arguments")
		}

		// Base 0 accepts the usual decimal, octal and hex spellings.
		code, err := strconv.ParseInt(args[0], 0, 32)
		if err != nil {
			ctx.UsageErrorf("exit: %s: integer argument required", args[0])
			return nil
		}
		return &ExitRequest{Code: int(code)}
	})
}

// statusCode converts a recorded status string to an exit code, falling
// back to 0.
func statusCode(status string) int {
	code, err := strconv.ParseInt(status, 0, 32)
	if err != nil {
		return 0
	}
	return int(code)
}

func init() {
	register("exit", Exit)
}
