package core

import (
	"os"
	"strconv"

	"github.com/minsh-shell/minsh/core/env"
)

// State holds the three shell-visible pseudo-variables: the shell's own
// PID ($$), the last foreground status ($?) and the most recent background
// PID ($!).
//
// It is initialized once at startup and mutated only by the executor after
// a foreground wait or background spawn; the interpreter is single
// threaded so no locking is needed.
type State struct {
	pid           string
	status        string
	backgroundPID string
}

// NewState captures the current process's PID and the default status.
func NewState() *State {
	return &State{
		pid:    strconv.Itoa(os.Getpid()),
		status: "0",
	}
}

func (s *State) PID() string { return s.pid }

func (s *State) LastStatus() string          { return s.status }
func (s *State) SetLastStatus(status string) { s.status = status }

func (s *State) BackgroundPID() string       { return s.backgroundPID }
func (s *State) SetBackgroundPID(pid string) { s.backgroundPID = pid }

// StatusCode is the last foreground status as an exit code, 0 when it is
// empty or malformed. Used for the implicit exit at end of input.
func (s *State) StatusCode() int {
	code, err := strconv.ParseInt(s.status, 0, 32)
	if err != nil {
		return 0
	}
	return int(code)
}

// shellParams adapts State plus the environment substrate to the
// expansion lookup: the special forms resolve from State, ${name} from the
// environment.
type shellParams struct {
	state *State
	env   env.Env
}

func (p shellParams) Getenv(name string) string { return p.env.Getenv(name) }
func (p shellParams) PID() string               { return p.state.PID() }
func (p shellParams) LastStatus() string        { return p.state.LastStatus() }
func (p shellParams) BackgroundPID() string     { return p.state.BackgroundPID() }
