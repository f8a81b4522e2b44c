package host

import "context"

// AutoResize is the sizing mode of a text box.
type AutoResize string

// Text box sizing modes.
const (
	AutoResizeNone           AutoResize = "NONE"
	AutoResizeHeight         AutoResize = "HEIGHT"
	AutoResizeWidthAndHeight AutoResize = "WIDTH_AND_HEIGHT"
	AutoResizeTruncate       AutoResize = "TRUNCATE"
)

// LeadingTrim is the vertical trim mode of a text box.
type LeadingTrim string

// Vertical trim modes.
const (
	LeadingTrimNone      LeadingTrim = "NONE"
	LeadingTrimCapHeight LeadingTrim = "CAP_HEIGHT"
)

// Container is an element that can hold children: a frame, a group or the page.
type Container interface {
	// IndexOf returns the position of child, or -1.
	IndexOf(child Node) int
	// InsertChild places child at index, detaching it from its current parent.
	InsertChild(index int, child Node) error
	// AppendChild places child last, detaching it from its current parent.
	AppendChild(child Node) error
}

// MutableText is a text element whose layout can be changed and reverted.
// It is only needed by measurers that resolve automatic line heights on a
// live document.
type MutableText interface {
	TextNode

	// LoadFont makes the element's font available for layout.
	LoadFont(ctx context.Context) error

	Parent() Container
	Position() (x, y float64)
	SetPosition(x, y float64) error
	Size() (width, height float64)
	Resize(width, height float64) error

	Characters() string
	SetCharacters(s string) error

	AutoResize() AutoResize
	SetAutoResize(mode AutoResize) error

	// LeadingTrim reports false when the trim is mixed.
	LeadingTrim() (LeadingTrim, bool)
	SetLeadingTrim(mode LeadingTrim) error
}
