package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kataras/figma-textstyle/pkg/host"

	"go.uber.org/multierr"
)

// ErrNotMutable is returned by ResizeMeasurer for elements it cannot relayout.
var ErrNotMutable = errors.New("text element cannot be relaid out")

// ResizeMeasurer measures the natural single-line height of a text element
// by temporarily laying it out as one auto-sized line at the top of the page.
//
// The element is moved out of its parent (so auto-layout constraints do not
// apply), its CAP_HEIGHT trim is dropped, it is switched to
// WIDTH_AND_HEIGHT sizing and its line breaks are removed. Each mutation
// registers its undo; undos run in reverse order on every return path.
type ResizeMeasurer struct {
	Page host.Container
}

// MeasureLineHeight implements host.LineHeightMeasurer. A restore failure is
// reported as an error even when the height was read.
func (m *ResizeMeasurer) MeasureLineHeight(ctx context.Context, node host.TextNode) (height float64, err error) {
	mt, ok := node.(host.MutableText)
	if !ok || m.Page == nil {
		return 0, ErrNotMutable
	}

	if err := mt.LoadFont(ctx); err != nil {
		return 0, fmt.Errorf("load font: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var undo restoreStack
	defer func() {
		if rerr := undo.unwind(); rerr != nil {
			err = multierr.Append(err, rerr)
		}
	}()

	parent := mt.Parent()
	index := 0
	if parent != nil {
		if i := parent.IndexOf(mt); i >= 0 {
			index = i
		}
	}
	x, y := mt.Position()
	width, boxHeight := mt.Size()
	autoResize := mt.AutoResize()
	trim, trimOK := mt.LeadingTrim()
	text := mt.Characters()

	if err := m.Page.AppendChild(mt); err != nil {
		return 0, fmt.Errorf("move to page: %w", err)
	}
	undo.push("restore parent", func() error {
		var err error
		if parent != nil {
			err = parent.InsertChild(index, mt)
		}
		return multierr.Append(err, mt.SetPosition(x, y))
	})

	if trimOK && trim == host.LeadingTrimCapHeight {
		if err := mt.SetLeadingTrim(host.LeadingTrimNone); err != nil {
			return 0, fmt.Errorf("clear leading trim: %w", err)
		}
		undo.push("restore leading trim", func() error {
			return mt.SetLeadingTrim(trim)
		})
	}

	if err := mt.SetAutoResize(host.AutoResizeWidthAndHeight); err != nil {
		return 0, fmt.Errorf("auto-size text: %w", err)
	}
	undo.push("restore auto-resize", func() error {
		if err := mt.SetAutoResize(autoResize); err != nil {
			return err
		}
		switch autoResize {
		case host.AutoResizeHeight:
			_, h := mt.Size()
			return mt.Resize(width, h)
		case host.AutoResizeNone:
			return mt.Resize(width, boxHeight)
		}
		return nil
	})

	if strings.Contains(text, "\n") {
		if err := mt.SetCharacters(strings.ReplaceAll(text, "\n", "")); err != nil {
			return 0, fmt.Errorf("strip line breaks: %w", err)
		}
		undo.push("restore characters", func() error {
			return mt.SetCharacters(text)
		})
	}

	_, height = mt.Size()
	return height, nil
}

type restoreStep struct {
	name string
	fn   func() error
}

type restoreStack []restoreStep

func (s *restoreStack) push(name string, fn func() error) {
	*s = append(*s, restoreStep{name: name, fn: fn})
}

// unwind runs every step, last pushed first, and keeps going on failure.
func (s *restoreStack) unwind() error {
	var err error
	steps := *s
	for i := len(steps) - 1; i >= 0; i-- {
		if e := steps[i].fn(); e != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", steps[i].name, e))
		}
	}
	*s = nil
	return err
}
