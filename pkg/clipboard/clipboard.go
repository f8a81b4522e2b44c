// Package clipboard copies rendered snippets with a chain of fallbacks: the
// system clipboard, then an OSC 52 escape sequence for terminals (works over
// SSH and inside tmux), then printing the snippet for the user to select and
// copy by hand. The first method that succeeds ends the chain.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kataras/figma-textstyle/pkg/logging"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-isatty"
	"go.uber.org/multierr"
)

var (
	// ErrEmpty is returned when there is nothing to copy.
	ErrEmpty = errors.New("nothing to copy")
	// ErrUnsupported is returned by System when no clipboard utility exists.
	ErrUnsupported = errors.New("system clipboard unavailable")
	// ErrNotTerminal is returned by OSC52 when the output is not a terminal.
	ErrNotTerminal = errors.New("output is not a terminal")
)

// Method is one way of getting text to the user's clipboard.
type Method interface {
	Name() string
	Copy(ctx context.Context, text string) error
}

// Chain tries its methods in order.
type Chain struct {
	Methods []Method
	Logger  logging.Logger // nil = no logging
}

// New returns the standard chain writing terminal output to out.
func New(out io.Writer) *Chain {
	return &Chain{
		Methods: []Method{
			&System{},
			&OSC52{Out: out},
			&Manual{Out: out},
		},
	}
}

// Copy hands text to the first method that accepts it and returns that
// method's name. It fails only when every method failed.
func (c *Chain) Copy(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", ErrEmpty
	}

	var errs error
	for _, m := range c.Methods {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		err := m.Copy(ctx, text)
		if err == nil {
			return m.Name(), nil
		}
		c.warnf("Copy via %s failed: %v", m.Name(), err)
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", m.Name(), err))
	}
	if errs == nil {
		return "", errors.New("no clipboard method configured")
	}
	return "", errs
}

func (c *Chain) warnf(f string, a ...any) {
	if c.Logger != nil {
		c.Logger.Warnf(f, a...)
	}
}

// System writes to the operating system clipboard (pbcopy, xclip, xsel,
// wl-copy or the Windows API).
type System struct {
	// write replaces clipboard.WriteAll in tests.
	write func(string) error
}

// Name implements Method.
func (s *System) Name() string { return "system clipboard" }

// Copy implements Method.
func (s *System) Copy(_ context.Context, text string) error {
	if s.write != nil {
		return s.write(text)
	}
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// OSC52 asks the terminal emulator to set the clipboard.
type OSC52 struct {
	Out io.Writer
	// Force skips the terminal check.
	Force bool
}

// Name implements Method.
func (o *OSC52) Name() string { return "terminal (OSC 52)" }

// Copy implements Method.
func (o *OSC52) Copy(_ context.Context, text string) error {
	if o.Out == nil || (!o.Force && !isTerminal(o.Out)) {
		return ErrNotTerminal
	}

	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(os.Getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(o.Out)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Manual shows the text so the user can select and copy it.
type Manual struct {
	Out io.Writer
	// Show, when set, replaces the default plain output.
	Show func(text string) error
}

// Name implements Method.
func (m *Manual) Name() string { return "manual selection" }

// Copy implements Method.
func (m *Manual) Copy(_ context.Context, text string) error {
	if m.Show != nil {
		return m.Show(text)
	}
	if m.Out == nil {
		return errors.New("no output to show the snippet on")
	}
	_, err := fmt.Fprintf(m.Out, "Select the snippet below and copy it (Ctrl+C / Cmd+C):\n\n%s\n\n", text)
	return err
}
