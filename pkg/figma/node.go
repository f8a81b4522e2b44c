package figma

import (
	"context"
	"errors"
	"strconv"

	"github.com/kataras/figma-textstyle/pkg/host"
)

// element is a non-text node of the document tree.
type element struct {
	node *Node
}

func (e element) ID() string   { return e.node.ID }
func (e element) Name() string { return e.node.Name }
func (e element) Type() string { return e.node.Type }

// TextNode adapts a REST API text node to host.TextNode.
//
// The REST API reports letter spacing in pixels; it is exposed as a
// percentage of the font size. A property that a character style override
// sets to a different value reads as mixed.
type TextNode struct {
	node      *Node
	styleName string
}

var _ host.TextNode = (*TextNode)(nil)

// NewTextNode wraps n. styles resolves the node's published text style
// name and may be nil.
func NewTextNode(n *Node, styles map[string]Style) *TextNode {
	t := &TextNode{node: n}
	if key, ok := n.Styles["text"]; ok {
		t.styleName = styles[key].Name
	}
	return t
}

func (t *TextNode) ID() string   { return t.node.ID }
func (t *TextNode) Name() string { return t.node.Name }
func (t *TextNode) Type() string { return t.node.Type }

// Characters returns the text content.
func (t *TextNode) Characters() string { return t.node.Characters }

// StyleName returns the name of the published text style applied to the
// node, or "" when none is.
func (t *TextNode) StyleName() string { return t.styleName }

// HasMissingFont implements host.TextNode. Fonts are resolved server side.
func (t *TextNode) HasMissingFont() bool { return false }

func (t *TextNode) style() TypeStyle {
	if t.node.Style == nil {
		return TypeStyle{}
	}
	return *t.node.Style
}

// overrides returns the override table entries that are applied to at
// least one character.
func (t *TextNode) overrides() []StyleOverride {
	if len(t.node.CharacterStyleOverrides) == 0 || len(t.node.StyleOverrideTable) == 0 {
		return nil
	}

	seen := make(map[int]struct{})
	var out []StyleOverride
	for _, idx := range t.node.CharacterStyleOverrides {
		if idx == 0 {
			continue
		}
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		if o, ok := t.node.StyleOverrideTable[strconv.Itoa(idx)]; ok {
			out = append(out, o)
		}
	}
	return out
}

func differsFloat(base float64, get func(StyleOverride) *float64, overrides []StyleOverride) bool {
	for _, o := range overrides {
		if v := get(o); v != nil && *v != base {
			return true
		}
	}
	return false
}

func differsString(base string, get func(StyleOverride) *string, overrides []StyleOverride) bool {
	for _, o := range overrides {
		if v := get(o); v != nil && *v != base {
			return true
		}
	}
	return false
}

// FontSize implements host.TextNode.
func (t *TextNode) FontSize() (float64, bool) {
	s := t.style()
	if differsFloat(s.FontSize, func(o StyleOverride) *float64 { return o.FontSize }, t.overrides()) {
		return 0, false
	}
	return s.FontSize, true
}

// FontWeight implements host.TextNode.
func (t *TextNode) FontWeight() (float64, bool) {
	s := t.style()
	if differsFloat(s.FontWeight, func(o StyleOverride) *float64 { return o.FontWeight }, t.overrides()) {
		return 0, false
	}
	return s.FontWeight, true
}

// FontFamily implements host.TextNode.
func (t *TextNode) FontFamily() (string, bool) {
	s := t.style()
	if differsString(s.FontFamily, func(o StyleOverride) *string { return o.FontFamily }, t.overrides()) {
		return "", false
	}
	return s.FontFamily, true
}

// LetterSpacing implements host.TextNode.
func (t *TextNode) LetterSpacing() (host.LetterSpacing, bool) {
	s := t.style()
	if differsFloat(s.LetterSpacing, func(o StyleOverride) *float64 { return o.LetterSpacing }, t.overrides()) {
		return host.LetterSpacing{}, false
	}
	if s.FontSize <= 0 {
		return host.LetterSpacing{Value: s.LetterSpacing, Unit: host.UnitPixels}, true
	}
	return host.LetterSpacing{Value: s.LetterSpacing / s.FontSize * 100, Unit: host.UnitPercent}, true
}

// LineHeight implements host.TextNode.
func (t *TextNode) LineHeight() (host.LineHeight, bool) {
	s := t.style()
	overrides := t.overrides()

	if differsString(s.LineHeightUnit, func(o StyleOverride) *string { return o.LineHeightUnit }, overrides) {
		return host.LineHeight{}, false
	}

	switch s.LineHeightUnit {
	case LineHeightPixels:
		if differsFloat(s.LineHeightPx, func(o StyleOverride) *float64 { return o.LineHeightPx }, overrides) {
			return host.LineHeight{}, false
		}
		return host.LineHeight{Value: s.LineHeightPx, Unit: host.UnitPixels}, true
	case LineHeightFontSizePercent:
		if differsFloat(s.LineHeightPercentFontSize, func(o StyleOverride) *float64 { return o.LineHeightPercentFontSize }, overrides) {
			return host.LineHeight{}, false
		}
		return host.LineHeight{Value: s.LineHeightPercentFontSize, Unit: host.UnitPercent}, true
	default:
		return host.LineHeight{Unit: host.UnitAuto}, true
	}
}

// TextAlignHorizontal implements host.TextNode.
func (t *TextNode) TextAlignHorizontal() (host.TextAlign, bool) {
	s := t.style()
	if differsString(s.TextAlignHorizontal, func(o StyleOverride) *string { return o.TextAlignHorizontal }, t.overrides()) {
		return "", false
	}
	return host.TextAlign(s.TextAlignHorizontal), true
}

// Flatten returns root followed by every text node beneath it, depth-first.
// Text nodes are returned as *TextNode.
func Flatten(root *Node, styles map[string]Style) []host.Node {
	if root == nil {
		return nil
	}

	var out []host.Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Type == host.NodeTypeText {
			out = append(out, NewTextNode(n, styles))
		} else if n == root {
			out = append(out, element{node: n})
		}
		for i := range n.Children {
			walk(&n.Children[i])
		}
	}
	walk(root)
	return out
}

// ErrNoResolvedLineHeight is returned by IntrinsicMeasurer for nodes the API
// did not resolve a pixel line height for.
var ErrNoResolvedLineHeight = errors.New("no resolved line height")

// IntrinsicMeasurer measures automatic line heights of REST text nodes. The
// API already resolves them to pixels, so nothing is mutated.
type IntrinsicMeasurer struct{}

// MeasureLineHeight implements host.LineHeightMeasurer.
func (IntrinsicMeasurer) MeasureLineHeight(_ context.Context, node host.TextNode) (float64, error) {
	t, ok := node.(*TextNode)
	if !ok {
		return 0, ErrNoResolvedLineHeight
	}
	if px := t.style().LineHeightPx; px > 0 {
		return px, nil
	}
	return 0, ErrNoResolvedLineHeight
}
