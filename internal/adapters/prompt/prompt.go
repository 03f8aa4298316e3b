// Package prompt asks the user questions on the terminal with promptui.
package prompt

import (
	"errors"
	"io"

	"github.com/manifoldco/promptui"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/zerr"
)

// Prompter implements ports.Prompter.
type Prompter struct {
	stdin  io.ReadCloser
	stdout io.WriteCloser
}

// New creates a Prompter on the process terminal.
func New() *Prompter {
	return &Prompter{}
}

// NewWithIO creates a Prompter reading answers from in and drawing on out.
func NewWithIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{stdin: io.NopCloser(in), stdout: nopWriteCloser{out}}
}

// Confirm asks a yes/no question. Answering no is not an error.
func (p *Prompter) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     p.stdin,
		Stdout:    p.stdout,
	}
	_, err := prompt.Run()
	return confirmResult(label, err)
}

// Select asks the user to pick one of items.
func (p *Prompter) Select(label string, items []string) (int, error) {
	sel := promptui.Select{
		Label:  label,
		Items:  items,
		Size:   min(len(items), 10),
		Stdin:  p.stdin,
		Stdout: p.stdout,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return -1, wrap(err, label)
	}
	return idx, nil
}

// Prompt asks for a line of text, offering def as the editable default.
func (p *Prompter) Prompt(label, def string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Stdin:     p.stdin,
		Stdout:    p.stdout,
	}
	answer, err := prompt.Run()
	if err != nil {
		return "", wrap(err, label)
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func confirmResult(label string, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, wrap(err, label)
	}
}

func wrap(err error, label string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrPromptFailed.Error()), "prompt", label)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
