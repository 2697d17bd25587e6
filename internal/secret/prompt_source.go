package secret

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Terminal is the masked-input channel used by PromptSource.
type Terminal interface {
	// IsTerminal reports whether interactive input is possible.
	IsTerminal() bool
	// ReadPassword reads one line without echoing it.
	ReadPassword() ([]byte, error)
}

// PromptSource asks the operator for a secret on a terminal with echo disabled.
type PromptSource struct {
	Prompt   string
	Terminal Terminal
	Out      io.Writer
}

// NewPromptSource builds a prompt bound to the given input file (normally os.Stdin),
// writing the prompt to out.
func NewPromptSource(prompt string, in *os.File, out io.Writer) *PromptSource {
	return &PromptSource{
		Prompt:   prompt,
		Terminal: fileTerminal{f: in},
		Out:      out,
	}
}

// Name implements Source.
func (s *PromptSource) Name() string {
	return "prompt"
}

// Lookup implements Source. It blocks until the operator submits a line and
// returns ErrUnavailable without reading when input is not a terminal.
func (s *PromptSource) Lookup(context.Context) (string, error) {
	if s.Terminal == nil || !s.Terminal.IsTerminal() {
		return "", ErrUnavailable
	}

	out := s.Out
	if out == nil {
		out = os.Stderr
	}
	_, _ = fmt.Fprint(out, s.Prompt)
	value, err := s.Terminal.ReadPassword()
	// echo is off, so the operator's newline was swallowed
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(value), nil
}

type fileTerminal struct {
	f *os.File
}

func (t fileTerminal) IsTerminal() bool {
	return t.f != nil && term.IsTerminal(int(t.f.Fd()))
}

func (t fileTerminal) ReadPassword() ([]byte, error) {
	return term.ReadPassword(int(t.f.Fd()))
}
