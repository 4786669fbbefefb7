// Package proc spawns external commands and collects their exit, signal
// and stop events.
//
// It is built on os.StartProcess and raw wait4 rather than os/exec because
// the shell must observe stop events (WUNTRACED) and reap children it did
// not start a waiter for.
package proc

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/minsh-shell/minsh/core/parse"
)

// State classifies a wait result.
type State int

const (
	// Running means a non-blocking wait found no reportable event.
	Running State = iota
	// Exited means the child terminated normally; Code is its exit status.
	Exited
	// Signaled means the child was killed by a signal; Code is the signal
	// number.
	Signaled
	// Stopped means the child was stopped by a signal; Code is the signal
	// number.
	Stopped
)

// Outcome is one observed child event.
type Outcome struct {
	PID   int
	State State
	Code  int
}

// Handle identifies a spawned child.
type Handle struct {
	PID int
}

// WaitMode selects between blocking and non-blocking waits.
type WaitMode int

const (
	Blocking WaitMode = iota
	NonBlocking
)

// Spawn starts argv as a child process with the given redirections applied
// and environ as its environment.
//
// An argv[0] containing a path separator is executed directly; anything
// else is resolved against PATH. The child runs with default signal
// dispositions. Spawn returns without waiting.
func Spawn(argv []string, redirs []parse.Redirection, environ []string) (*Handle, error) {
	path := argv[0]
	if !strings.ContainsRune(path, '/') {
		resolved, err := exec.LookPath(path)
		if err != nil {
			return nil, err
		}
		path = resolved
	}

	files := []*os.File{os.Stdin, os.Stdout, os.Stderr}
	var opened []*os.File
	closeOpened := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, r := range redirs {
		f, err := openRedirect(r)
		if err != nil {
			closeOpened()
			return nil, err
		}
		opened = append(opened, f)
		if r.Kind == parse.RedirRead {
			files[0] = f
		} else {
			files[1] = f
		}
	}

	p, err := os.StartProcess(path, argv, &os.ProcAttr{
		Env:   environ,
		Files: files,
	})
	closeOpened()
	if err != nil {
		return nil, err
	}

	pid := p.Pid
	// Track the child by PID only; waits go through wait4 below.
	p.Release()

	return &Handle{PID: pid}, nil
}

// openRedirect opens the target of a single redirection directive.
func openRedirect(r parse.Redirection) (*os.File, error) {
	switch r.Kind {
	case parse.RedirRead:
		return os.Open(r.Target)
	case parse.RedirWrite:
		return os.OpenFile(r.Target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0777)
	case parse.RedirAppend:
		return os.OpenFile(r.Target, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0777)
	default:
		return nil, fmt.Errorf("unknown redirection %q", r.Kind)
	}
}

// Wait collects the next event from the child identified by pid. Stops are
// reported as well as terminations. In NonBlocking mode a Running outcome
// means nothing was reportable.
func Wait(pid int, mode WaitMode) (Outcome, error) {
	flags := unix.WUNTRACED
	if mode == NonBlocking {
		flags |= unix.WNOHANG
	}

	var ws unix.WaitStatus
	for {
		wpid, err := unix.Wait4(pid, &ws, flags, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return Outcome{}, err
		}
		if wpid == 0 {
			return Outcome{State: Running}, nil
		}
		return outcomeFrom(wpid, ws), nil
	}
}

// Reap drains every reportable child in the caller's process group without
// blocking. Stopped children are included; continuing them is up to the
// caller.
func Reap() ([]Outcome, error) {
	var events []Outcome
	for {
		// pid 0 waits on any child in our own process group.
		o, err := Wait(0, NonBlocking)
		if err == unix.ECHILD {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		if o.State == Running {
			return events, nil
		}
		events = append(events, o)
	}
}

// Continue delivers SIGCONT to a stopped child.
func Continue(pid int) error {
	return unix.Kill(pid, unix.SIGCONT)
}

func outcomeFrom(pid int, ws unix.WaitStatus) Outcome {
	switch {
	case ws.Exited():
		return Outcome{PID: pid, State: Exited, Code: ws.ExitStatus()}
	case ws.Signaled():
		return Outcome{PID: pid, State: Signaled, Code: int(ws.Signal())}
	case ws.Stopped():
		return Outcome{PID: pid, State: Stopped, Code: int(ws.StopSignal())}
	default:
		return Outcome{PID: pid, State: Running}
	}
}
