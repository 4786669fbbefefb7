// Package parse classifies expanded words into a runnable command.
package parse

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCommand is returned when no argv remains after redirections
	// and the background marker are removed. Callers treat it as "nothing
	// to execute".
	ErrEmptyCommand = errors.New("empty command")

	// ErrMissingRedirectTarget is returned when a redirection operator is
	// the last word of the line.
	ErrMissingRedirectTarget = errors.New("missing redirection target")
)

// RedirKind is the direction of a redirection directive.
type RedirKind int

const (
	// RedirRead binds an existing file to stdin.
	RedirRead RedirKind = iota
	// RedirWrite truncates or creates the target and binds it to stdout.
	RedirWrite
	// RedirAppend appends to or creates the target and binds it to stdout.
	RedirAppend
)

func (k RedirKind) String() string {
	switch k {
	case RedirRead:
		return "<"
	case RedirWrite:
		return ">"
	case RedirAppend:
		return ">>"
	default:
		return "?"
	}
}

// Redirection is a single direction + target pair.
type Redirection struct {
	Kind   RedirKind
	Target string
}

// Command is the parsed form of one input line.
type Command struct {
	Argv       []string
	Redirs     []Redirection
	Background bool
}

// Parse splits words into argv, redirection directives and the background
// flag. The operators <, > and >> each consume the following word as their
// target. A trailing & marks the command for background execution.
func Parse(words []string) (*Command, error) {
	cmd := &Command{}

	for i := 0; i < len(words); i++ {
		var kind RedirKind
		switch words[i] {
		case "<":
			kind = RedirRead
		case ">":
			kind = RedirWrite
		case ">>":
			kind = RedirAppend
		default:
			cmd.Argv = append(cmd.Argv, words[i])
			continue
		}

		if i+1 >= len(words) {
			return nil, fmt.Errorf("%s: %w", words[i], ErrMissingRedirectTarget)
		}
		i++
		cmd.Redirs = append(cmd.Redirs, Redirection{Kind: kind, Target: words[i]})
	}

	if n := len(cmd.Argv); n > 0 && cmd.Argv[n-1] == "&" {
		cmd.Argv = cmd.Argv[:n-1]
		cmd.Background = true
	}

	if len(cmd.Argv) == 0 {
		return nil, ErrEmptyCommand
	}

	return cmd, nil
}
