// Package host declares the narrow interfaces through which the exporter talks
// to the design tool: selection, text attribute reading, text mutation for
// line-height measurement, and font loading.
//
// Every attribute getter returns an ok flag; ok == false is the host's
// "mixed" marker (the attribute differs across character ranges).
package host

import "context"

// NodeTypeText is the node type of text elements.
const NodeTypeText = "TEXT"

// Node is any selectable element of a document.
type Node interface {
	ID() string
	Name() string
	Type() string
}

// Unit is the unit of a letter-spacing or line-height value.
type Unit string

// Units reported by the host.
const (
	UnitPixels  Unit = "PIXELS"
	UnitPercent Unit = "PERCENT"
	UnitAuto    Unit = "AUTO"
)

// LetterSpacing is a letter-spacing value as declared on a text element.
type LetterSpacing struct {
	Value float64
	Unit  Unit
}

// LineHeight is a line-height value as declared on a text element.
// Value is meaningless when Unit is UnitAuto.
type LineHeight struct {
	Value float64
	Unit  Unit
}

// TextAlign is the host's horizontal alignment keyword.
type TextAlign string

// Horizontal alignments.
const (
	AlignLeft      TextAlign = "LEFT"
	AlignCenter    TextAlign = "CENTER"
	AlignRight     TextAlign = "RIGHT"
	AlignJustified TextAlign = "JUSTIFIED"
)

// TextNode exposes the typography attributes of a text element.
type TextNode interface {
	Node

	FontSize() (float64, bool)
	FontWeight() (float64, bool)
	FontFamily() (string, bool)
	LetterSpacing() (LetterSpacing, bool)
	LineHeight() (LineHeight, bool)
	TextAlignHorizontal() (TextAlign, bool)
	HasMissingFont() bool
}

// LineHeightMeasurer returns the rendered height of a single line of the
// given text element, in device units. It is only consulted for elements
// whose line height is automatic.
type LineHeightMeasurer interface {
	MeasureLineHeight(ctx context.Context, node TextNode) (float64, error)
}

// MeasurerFunc adapts a function to LineHeightMeasurer.
type MeasurerFunc func(ctx context.Context, node TextNode) (float64, error)

// MeasureLineHeight calls f.
func (f MeasurerFunc) MeasureLineHeight(ctx context.Context, node TextNode) (float64, error) {
	return f(ctx, node)
}

// SelectionProvider yields the current selection and notifies on changes.
type SelectionProvider interface {
	// Selection returns the currently selected elements, in selection order.
	Selection(ctx context.Context) ([]Node, error)
	// Changes fires once per selection change. The channel is closed when
	// the provider stops.
	Changes() <-chan struct{}
}

// FirstText returns the first text element of nodes, or nil.
func FirstText(nodes []Node) TextNode {
	for _, n := range nodes {
		if n == nil || n.Type() != NodeTypeText {
			continue
		}
		if tn, ok := n.(TextNode); ok {
			return tn
		}
	}
	return nil
}
