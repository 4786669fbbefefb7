package cmd

import (
	"os"

	"github.com/abiosoft/readline"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/minsh-shell/minsh/core"
	"github.com/minsh-shell/minsh/core/config"
	"github.com/minsh-shell/minsh/core/env"
)

var cfgPath string

// exitCode carries the shell's exit status out of cobra; Execute passes it
// to os.Exit after the command returns.
var exitCode int

// rootCmd is the shell itself: interactive without arguments, script mode
// with one.
var rootCmd = &cobra.Command{
	Use:   "minsh [script]",
	Short: "A small line-oriented command interpreter.",
	Long: `minsh reads one line at a time, expands the parameters $$, $!, $? and
${name}, and runs the result as a builtin or a child process. Foreground
children are waited on; background children are tracked by PID and reaped
before each prompt.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		environ := env.OSEnv{}

		source, err := openSource(args, configuration, environ)
		if err != nil {
			return err
		}

		shell := core.New(configuration, environ, source, cmd.ErrOrStderr())
		shell.InstallSignalHandlers()
		defer shell.Close()

		exitCode = shell.Run()
		return nil
	},
}

// openSource picks the line source: the script file when one is named,
// readline on a terminal, otherwise plain line reads from stdin.
func openSource(args []string, configuration *config.Configuration, environ env.Env) (core.LineSource, error) {
	if len(args) == 1 {
		script, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		return core.NewScriptSource(script), nil
	}

	if readline.IsTerminal(int(os.Stdin.Fd())) {
		prompt := func() string {
			return environ.Getenv(configuration.PromptVar)
		}
		return core.NewReadlineSource(prompt, configuration.HistoryFile)
	}

	return core.NewScriptSource(os.Stdin), nil
}

func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(afero.NewOsFs(), cfgPath)
}

// Execute runs the root command and exits with the shell's status.
// This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")
}
