package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/kataras/figma-textstyle/pkg/host"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeasureFixture(autoResize host.AutoResize, trim host.LeadingTrim, chars string) (*mutableText, *page, *page, *[]string) {
	journal := &[]string{}
	root := &page{name: "page", journal: journal}
	frame := &page{name: "frame", journal: journal}

	sibling := &fakeText{name: "sibling"}
	node := &mutableText{
		fakeText: fakeText{
			name:       "Heading",
			size:       num(20),
			family:     str("Inter"),
			weight:     num(400),
			lineHeight: &host.LineHeight{Unit: host.UnitAuto},
		},
		parent:      frame,
		x:           10,
		y:           20,
		w:           200,
		h:           80,
		chars:       chars,
		autoResize:  autoResize,
		trim:        trim,
		lineHeightP: 24,
		journal:     journal,
	}
	frame.children = []host.Node{sibling, node}

	return node, root, frame, journal
}

func TestResizeMeasurerRestoresInReverseOrder(t *testing.T) {
	node, root, frame, journal := newMeasureFixture(host.AutoResizeNone, host.LeadingTrimCapHeight, "Hello\nWorld")
	m := &ResizeMeasurer{Page: root}

	h, err := m.MeasureLineHeight(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, 24.0, h)

	assert.Equal(t, []string{
		"load font",
		"append page",
		"trim NONE",
		"auto-resize WIDTH_AND_HEIGHT",
		`characters "HelloWorld"`,
		// restore
		`characters "Hello\nWorld"`,
		"auto-resize NONE",
		"resize 200,80",
		"trim CAP_HEIGHT",
		"insert frame@1",
		"position 10,20",
	}, *journal)

	assert.Equal(t, frame, node.parent)
	assert.Equal(t, 1, frame.IndexOf(node))
	assert.Empty(t, root.children)
	assert.Equal(t, "Hello\nWorld", node.chars)
	assert.Equal(t, host.AutoResizeNone, node.autoResize)
	assert.Equal(t, host.LeadingTrimCapHeight, node.trim)
}

func TestResizeMeasurerSkipsUnneededSteps(t *testing.T) {
	node, root, _, journal := newMeasureFixture(host.AutoResizeHeight, host.LeadingTrimNone, "Single line")
	m := &ResizeMeasurer{Page: root}

	h, err := m.MeasureLineHeight(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, 24.0, h)

	assert.Equal(t, []string{
		"load font",
		"append page",
		"auto-resize WIDTH_AND_HEIGHT",
		"auto-resize HEIGHT",
		"resize 200,24",
		"insert frame@1",
		"position 10,20",
	}, *journal)
}

func TestResizeMeasurerRestoresOnFailure(t *testing.T) {
	node, root, frame, journal := newMeasureFixture(host.AutoResizeNone, host.LeadingTrimCapHeight, "Hello\nWorld")
	node.failOn = map[string]error{`characters "HelloWorld"`: errors.New("read only")}
	m := &ResizeMeasurer{Page: root}

	_, err := m.MeasureLineHeight(context.Background(), node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strip line breaks")

	assert.Equal(t, []string{
		"load font",
		"append page",
		"trim NONE",
		"auto-resize WIDTH_AND_HEIGHT",
		"auto-resize NONE",
		"resize 200,80",
		"trim CAP_HEIGHT",
		"insert frame@1",
		"position 10,20",
	}, *journal)
	assert.Equal(t, frame, node.parent)
}

func TestResizeMeasurerReportsRestoreFailures(t *testing.T) {
	node, root, _, _ := newMeasureFixture(host.AutoResizeNone, host.LeadingTrimCapHeight, "Hello")
	node.failOn = map[string]error{"trim CAP_HEIGHT": errors.New("locked")}
	m := &ResizeMeasurer{Page: root}

	h, err := m.MeasureLineHeight(context.Background(), node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restore leading trim")
	assert.Equal(t, 24.0, h)

	// Steps after the failing one still ran.
	assert.Equal(t, 10.0, node.x)
	assert.Equal(t, host.AutoResizeNone, node.autoResize)
}

func TestResizeMeasurerFontLoadFailure(t *testing.T) {
	node, root, _, journal := newMeasureFixture(host.AutoResizeNone, host.LeadingTrimNone, "Hello")
	node.failOn = map[string]error{"load font": errors.New("offline")}
	m := &ResizeMeasurer{Page: root}

	_, err := m.MeasureLineHeight(context.Background(), node)
	require.Error(t, err)
	assert.Empty(t, *journal)
}

func TestResizeMeasurerRejectsReadOnlyNodes(t *testing.T) {
	m := &ResizeMeasurer{Page: &page{journal: &[]string{}}}
	_, err := m.MeasureLineHeight(context.Background(), &fakeText{})
	assert.ErrorIs(t, err, ErrNotMutable)
}

func TestExtractWithResizeMeasurer(t *testing.T) {
	node, root, _, _ := newMeasureFixture(host.AutoResizeNone, host.LeadingTrimNone, "Hello\nWorld")
	e := &Extractor{Measurer: &ResizeMeasurer{Page: root}}

	got := e.Extract(context.Background(), node, 16)
	assert.Equal(t, "1.2", got.LineHeight)
	assert.Equal(t, "1.25rem", got.FontSize)
}
