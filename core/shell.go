// Package core wires the tokenizer, expander, parser and process
// substrate into the interpreter loop.
package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/minsh-shell/minsh/core/builtin"
	"github.com/minsh-shell/minsh/core/config"
	"github.com/minsh-shell/minsh/core/env"
	"github.com/minsh-shell/minsh/core/expand"
	"github.com/minsh-shell/minsh/core/parse"
	"github.com/minsh-shell/minsh/core/proc"
	"github.com/minsh-shell/minsh/core/token"
)

// Shell is the interpreter: one line source, one environment, one set of
// pseudo-variables. Exactly one foreground child is waited on at a time;
// background children are reaped before each new read.
type Shell struct {
	config *config.Configuration
	env    env.Env
	state  *State
	source LineSource
	stderr io.Writer

	signals chan os.Signal
}

// New assembles a Shell. stderr receives diagnostics and job
// notifications.
func New(cfg *config.Configuration, e env.Env, source LineSource, stderr io.Writer) *Shell {
	return &Shell{
		config: cfg,
		env:    e,
		state:  NewState(),
		source: source,
		stderr: stderr,
	}
}

// InstallSignalHandlers makes the shell itself immune to SIGINT and
// SIGTSTP. Handlers are installed with signal.Notify, not signal.Ignore,
// so children revert to default dispositions across exec.
func (s *Shell) InstallSignalHandlers() {
	s.signals = make(chan os.Signal, 1)
	signal.Notify(s.signals, syscall.SIGINT, syscall.SIGTSTP)
	go func() {
		for range s.signals {
			// Discard; an interrupt only unblocks the current read.
		}
	}()
}

// Close releases the signal handlers and the line source.
func (s *Shell) Close() error {
	if s.signals != nil {
		signal.Stop(s.signals)
		close(s.signals)
		s.signals = nil
	}
	return s.source.Close()
}

// Run drives the read-expand-parse-execute cycle until end of input or an
// exit builtin, returning the shell's exit code.
func (s *Shell) Run() int {
	for {
		s.reapBackground()

		line, err := s.source.ReadLine()
		switch {
		case err == io.EOF:
			// End of input is an implicit exit with the current status.
			return s.state.StatusCode()
		case errors.Is(err, ErrInterrupted):
			continue
		case err != nil:
			s.reportf("read: %v", err)
			return 1
		}

		words := token.SplitN(line, s.config.MaxWords)
		if len(words) == 0 {
			continue
		}

		params := shellParams{state: s.state, env: s.env}
		for i := range words {
			words[i] = expand.Expand(words[i], params)
		}

		cmd, err := parse.Parse(words)
		if errors.Is(err, parse.ErrEmptyCommand) {
			continue
		}
		if err != nil {
			s.reportf("%v", err)
			s.state.SetLastStatus("1")
			continue
		}

		if code, exited := s.execute(cmd); exited {
			return code
		}
	}
}

// execute dispatches one parsed command. The second result is true when an
// exit builtin ended the session.
func (s *Shell) execute(cmd *parse.Command) (int, bool) {
	if fn, ok := builtin.Lookup(cmd.Argv[0]); ok {
		err := fn(&builtin.Context{
			Args:   cmd.Argv,
			Env:    s.env,
			Status: s.state,
			Stderr: s.stderr,
		})

		var req *builtin.ExitRequest
		if errors.As(err, &req) {
			return req.Code, true
		}
		if err != nil {
			s.reportf("%s: %v", cmd.Argv[0], err)
			s.state.SetLastStatus("1")
		}
		return 0, false
	}

	handle, err := proc.Spawn(cmd.Argv, cmd.Redirs, s.env.Environ())
	if err != nil {
		s.reportf("%s: %v", cmd.Argv[0], err)
		s.state.SetLastStatus("1")
		return 0, false
	}

	if cmd.Background {
		s.state.SetBackgroundPID(strconv.Itoa(handle.PID))
		// One immediate non-blocking check so an instantly failing child
		// is not lost before the next sweep.
		if o, err := proc.Wait(handle.PID, proc.NonBlocking); err == nil && o.State != proc.Running {
			s.notify(o)
		}
		return 0, false
	}

	s.waitForeground(handle.PID)
	return 0, false
}

// waitForeground blocks until the child exits, dies or stops, then updates
// the pseudo-variables: exit code into ?, 128+signal into ?, or for a stop
// the child is continued, reported, and its PID recorded into ! since the
// shell will not block on it again.
func (s *Shell) waitForeground(pid int) {
	o, err := proc.Wait(pid, proc.Blocking)
	if err != nil {
		s.reportf("wait: %v", err)
		return
	}

	switch o.State {
	case proc.Exited:
		s.state.SetLastStatus(strconv.Itoa(o.Code))
	case proc.Signaled:
		s.state.SetLastStatus(strconv.Itoa(128 + o.Code))
	case proc.Stopped:
		if err := proc.Continue(o.PID); err != nil {
			s.reportf("kill: %v", err)
		}
		fmt.Fprintf(s.stderr, "Child process %d stopped. Continuing.\n", o.PID)
		s.state.SetBackgroundPID(strconv.Itoa(o.PID))
	}
}

// reapBackground drains every reapable child before a new prompt. The
// sweep is informational only: it never blocks and never touches ? or !.
func (s *Shell) reapBackground() {
	events, err := proc.Reap()
	if err != nil {
		s.reportf("wait: %v", err)
	}
	for _, o := range events {
		s.notify(o)
	}
}

// notify reports one asynchronous child event. The wording is a
// compatibility surface.
func (s *Shell) notify(o proc.Outcome) {
	switch o.State {
	case proc.Exited:
		fmt.Fprintf(s.stderr, "Child process %d done. Exit status %d.\n", o.PID, o.Code)
	case proc.Signaled:
		fmt.Fprintf(s.stderr, "Child process %d done. Signaled %d.\n", o.PID, o.Code)
	case proc.Stopped:
		if err := proc.Continue(o.PID); err != nil {
			s.reportf("kill: %v", err)
		}
		fmt.Fprintf(s.stderr, "Child process %d stopped. Continuing.\n", o.PID)
	}
}

func (s *Shell) reportf(format string, args ...interface{}) {
	fmt.Fprintf(s.stderr, "minsh: %s\n", fmt.Sprintf(format, args...))
}
