package core

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/abiosoft/readline"
)

// ErrInterrupted reports that a read was interrupted; the caller restarts
// the prompt cycle rather than treating it as an error.
var ErrInterrupted = errors.New("interrupted")

// LineSource yields raw input lines. ReadLine returns io.EOF at end of
// input and ErrInterrupted when the read was canceled by an interrupt.
type LineSource interface {
	ReadLine() (string, error)
	Interactive() bool
	Close() error
}

// PromptFunc produces the prompt for the next read.
type PromptFunc func() string

// ReadlineSource reads from an interactive terminal. The prompt and line
// editing output go to stderr, keeping stdout for command output.
type ReadlineSource struct {
	rl     *readline.Instance
	prompt PromptFunc
}

var _ LineSource = (*ReadlineSource)(nil)

// NewReadlineSource sets up a terminal line reader. historyFile may be
// empty to disable persistent history.
func NewReadlineSource(prompt PromptFunc, historyFile string) (*ReadlineSource, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile: historyFile,
		Stdin:       os.Stdin,
		Stdout:      os.Stderr,
		Stderr:      os.Stderr,
	})
	if err != nil {
		return nil, err
	}

	return &ReadlineSource{rl: rl, prompt: prompt}, nil
}

func (r *ReadlineSource) ReadLine() (string, error) {
	r.rl.SetPrompt(r.prompt())

	line, err := r.rl.Readline()
	switch {
	case err == readline.ErrInterrupt:
		return "", ErrInterrupted
	case err != nil:
		return "", err
	}
	return line, nil
}

func (r *ReadlineSource) Interactive() bool { return true }

func (r *ReadlineSource) Close() error { return r.rl.Close() }

// ScriptSource reads lines from a file or any other non-interactive
// stream. No prompt is shown.
type ScriptSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

var _ LineSource = (*ScriptSource)(nil)

// maxLineBytes bounds a single input line. The scanner's default 64KiB
// token limit is far below what scripts legitimately produce.
const maxLineBytes = 1 << 30

// NewScriptSource reads lines from r until EOF.
func NewScriptSource(r io.ReadCloser) *ScriptSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, bufio.MaxScanTokenSize), maxLineBytes)
	return &ScriptSource{
		scanner: scanner,
		closer:  r,
	}
}

func (s *ScriptSource) ReadLine() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *ScriptSource) Interactive() bool { return false }

func (s *ScriptSource) Close() error { return s.closer.Close() }
