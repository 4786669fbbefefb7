package core

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsh-shell/minsh/core/config"
	"github.com/minsh-shell/minsh/core/env"
)

// envFromOS copies the real environment so spawned children behave
// normally while test mutations stay local.
func envFromOS() *env.MapEnv {
	return env.NewMapEnvFromList(os.Environ())
}

// runScript drives a Shell over the given input until it exits.
func runScript(t *testing.T, e env.Env, script string) (code int, stderr string, sh *Shell) {
	t.Helper()

	source := NewScriptSource(io.NopCloser(strings.NewReader(script)))
	var buf bytes.Buffer

	sh = New(config.Default(), e, source, &buf)
	code = sh.Run()
	return code, buf.String(), sh
}

func TestRunBlankAndCommentLines(t *testing.T) {
	code, stderr, _ := runScript(t, envFromOS(), "\n   \n# just a comment\nexit\n")

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
}

func TestRunImplicitExitUsesStatus(t *testing.T) {
	// EOF behaves as exit with the current ?.
	code, stderr, _ := runScript(t, envFromOS(), "sh -c exit\\ 4\n")

	assert.Equal(t, 4, code)
	assert.Empty(t, stderr)
}

func TestRunStatusExpansion(t *testing.T) {
	code, _, _ := runScript(t, envFromOS(), "sh -c exit\\ 4\nexit $?\n")

	assert.Equal(t, 4, code)
}

func TestRunSignaledStatus(t *testing.T) {
	e := envFromOS()
	// Expansion is single pass, so the $$ inside RAW reaches sh verbatim
	// and the child kills itself, not the shell.
	e.Setenv("RAW", "kill -9 $$")

	code, _, _ := runScript(t, e, "sh -c ${RAW}\nexit $?\n")

	assert.Equal(t, 128+9, code)
}

func TestRunRedirections(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")

	script := "echo hi > " + out + "\n" +
		"echo again >> " + out + "\n" +
		"exit $?\n"
	code, stderr, _ := runScript(t, envFromOS(), script)

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)

	contents, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hi\nagain\n", string(contents))
}

func TestRunBackgroundReap(t *testing.T) {
	code, stderr, sh := runScript(t, envFromOS(), "sh -c exit\\ 5 &\nsleep 1\n")

	assert.Equal(t, 0, code, "background exits never touch ?")
	assert.NotEmpty(t, sh.state.BackgroundPID())

	assert.Regexp(t, `(?m)^Child process \d+ done\. Exit status 5\.$`, stderr)
	assert.Equal(t, 1, strings.Count(stderr, "done. Exit status 5."),
		"exactly one notification per child")
}

func TestRunBackgroundPIDExpansion(t *testing.T) {
	script := "sleep 30 &\nkill -9 $!\nsleep 1\nexit $?\n"
	code, stderr, _ := runScript(t, envFromOS(), script)

	assert.Equal(t, 0, code)
	assert.Regexp(t, `(?m)^Child process \d+ done\. Signaled 9\.$`, stderr)
}

func TestRunStoppedForegroundChild(t *testing.T) {
	e := envFromOS()
	e.Setenv("STOPSELF", "kill -STOP $$")

	code, stderr, sh := runScript(t, e, "sh -c ${STOPSELF}\nsleep 1\nexit $?\n")

	// A stopped foreground child does not change ?; it is continued and
	// tracked like a background child from then on.
	assert.Equal(t, 0, code)
	assert.NotEmpty(t, sh.state.BackgroundPID())
	assert.Regexp(t, `(?m)^Child process \d+ stopped\. Continuing\.$`, stderr)
	assert.Regexp(t, `(?m)^Child process \d+ done\. Exit status 0\.$`, stderr)
}

func TestRunUnknownCommand(t *testing.T) {
	code, stderr, _ := runScript(t, envFromOS(), "minsh-no-such-command-xyz\nexit $?\n")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "minsh: minsh-no-such-command-xyz:")
}

func TestRunMissingRedirectTarget(t *testing.T) {
	code, stderr, _ := runScript(t, envFromOS(), "sh >\nexit $?\n")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "missing redirection target")
}

func TestRunBuiltinUsageError(t *testing.T) {
	code, stderr, _ := runScript(t, envFromOS(), "cd a b\nexit $?\n")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "cd: too many arguments")
}

func TestRunOnlyRedirectionIsSkipped(t *testing.T) {
	// A line that parses to an empty command executes nothing, so the
	// redirection target is never opened.
	out := filepath.Join(t.TempDir(), "never.txt")

	code, stderr, _ := runScript(t, envFromOS(), "> "+out+"\nexit\n")

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunOwnPIDExpansion(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pid.txt")

	code, _, sh := runScript(t, envFromOS(), "echo $$ > "+out+"\n")

	assert.Equal(t, 0, code)
	contents, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, sh.state.PID()+"\n", string(contents))
}
