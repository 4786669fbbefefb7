package builtin

import "os"

// EnvHome names the variable consulted by cd without arguments.
const EnvHome = "HOME"

// Cd implements the cd builtin: no argument changes to $HOME, one argument
// changes to that path, anything more is a usage error. Success leaves the
// status slot untouched.
func Cd(ctx *Context) error {
	cmd := &Command{
		Use:   "cd [DIR]",
		Short: "Change the working directory.",
	}

	return cmd.Run(ctx, func(args []string) error {
		var target string
		switch len(args) {
		case 0:
			home, ok := ctx.Env.LookupEnv(EnvHome)
			if !ok || home == "" {
				ctx.UsageErrorf("cd: %s not set", EnvHome)
				return nil
			}
			target = home
		case 1:
			target = args[0]
		default:
			ctx.UsageErrorf("cd: too many arguments")
			return nil
		}

		if err := os.Chdir(target); err != nil {
			ctx.UsageErrorf("cd: %v", err)
		}
		return nil
	})
}

func init() {
	register("cd", Cd)
}
