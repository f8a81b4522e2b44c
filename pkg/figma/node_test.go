package figma

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kataras/figma-textstyle/pkg/extractor"
	"github.com/kataras/figma-textstyle/pkg/host"
)

func decodeNode(t *testing.T, raw string) *Node {
	t.Helper()
	var n Node
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		t.Fatalf("decode node: %v", err)
	}
	return &n
}

const headingJSON = `{
	"id": "1:2",
	"name": "Heading",
	"type": "TEXT",
	"characters": "Hello",
	"styles": {"text": "S:1"},
	"style": {
		"fontFamily": "Inter",
		"fontWeight": 700,
		"fontSize": 24,
		"letterSpacing": 0.75,
		"lineHeightPx": 36,
		"lineHeightPercentFontSize": 150,
		"lineHeightUnit": "FONT_SIZE_%",
		"textAlignHorizontal": "CENTER"
	}
}`

func TestTextNodeAttributes(t *testing.T) {
	n := NewTextNode(decodeNode(t, headingJSON), map[string]Style{"S:1": {Name: "Heading/H1", StyleType: "TEXT"}})

	if n.ID() != "1:2" || n.Name() != "Heading" || n.Type() != host.NodeTypeText {
		t.Errorf("identity = %s %s %s", n.ID(), n.Name(), n.Type())
	}
	if n.StyleName() != "Heading/H1" {
		t.Errorf("StyleName() = %q", n.StyleName())
	}
	if n.Characters() != "Hello" {
		t.Errorf("Characters() = %q", n.Characters())
	}
	if v, ok := n.FontSize(); !ok || v != 24 {
		t.Errorf("FontSize() = %v, %v", v, ok)
	}
	if v, ok := n.FontWeight(); !ok || v != 700 {
		t.Errorf("FontWeight() = %v, %v", v, ok)
	}
	if v, ok := n.FontFamily(); !ok || v != "Inter" {
		t.Errorf("FontFamily() = %v, %v", v, ok)
	}
	if v, ok := n.LetterSpacing(); !ok || v.Unit != host.UnitPercent || v.Value != 3.125 {
		t.Errorf("LetterSpacing() = %+v, %v", v, ok)
	}
	if v, ok := n.LineHeight(); !ok || v != (host.LineHeight{Value: 150, Unit: host.UnitPercent}) {
		t.Errorf("LineHeight() = %+v, %v", v, ok)
	}
	if v, ok := n.TextAlignHorizontal(); !ok || v != host.AlignCenter {
		t.Errorf("TextAlignHorizontal() = %v, %v", v, ok)
	}
	if n.HasMissingFont() {
		t.Error("HasMissingFont() = true")
	}

	got := extractor.Extract(context.Background(), n, 16, IntrinsicMeasurer{})
	want := extractor.StyleRecord{
		FontSize:      "1.5rem",
		FontWeight:    "bold",
		FontFamily:    "Inter",
		LetterSpacing: "0.03em",
		LineHeight:    "1.5",
		TextAlign:     "center",
	}
	if got != want {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestTextNodeLineHeightUnits(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  host.LineHeight
	}{
		{"pixels", `{"fontSize":16,"lineHeightPx":20,"lineHeightUnit":"PIXELS"}`, host.LineHeight{Value: 20, Unit: host.UnitPixels}},
		{"percent of font size", `{"fontSize":16,"lineHeightPercentFontSize":125,"lineHeightUnit":"FONT_SIZE_%"}`, host.LineHeight{Value: 125, Unit: host.UnitPercent}},
		{"intrinsic", `{"fontSize":16,"lineHeightPx":19.36,"lineHeightUnit":"INTRINSIC_%"}`, host.LineHeight{Unit: host.UnitAuto}},
		{"missing unit", `{"fontSize":16}`, host.LineHeight{Unit: host.UnitAuto}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewTextNode(decodeNode(t, `{"id":"1:1","type":"TEXT","style":`+tt.style+`}`), nil)
			got, ok := n.LineHeight()
			if !ok || got != tt.want {
				t.Errorf("LineHeight() = %+v, %v, want %+v", got, ok, tt.want)
			}
		})
	}
}

func TestTextNodeMixed(t *testing.T) {
	const base = `"style":{"fontFamily":"Inter","fontWeight":400,"fontSize":16,"letterSpacing":0,"lineHeightPx":24,"lineHeightUnit":"PIXELS","textAlignHorizontal":"LEFT"}`

	tests := []struct {
		name      string
		overrides string
		mixed     string
	}{
		{"weight", `"characterStyleOverrides":[0,0,1],"styleOverrideTable":{"1":{"fontWeight":700}}`, "weight"},
		{"family", `"characterStyleOverrides":[1],"styleOverrideTable":{"1":{"fontFamily":"Roboto"}}`, "family"},
		{"size", `"characterStyleOverrides":[0,2],"styleOverrideTable":{"2":{"fontSize":20}}`, "size"},
		{"spacing", `"characterStyleOverrides":[1],"styleOverrideTable":{"1":{"letterSpacing":1}}`, "spacing"},
		{"line height value", `"characterStyleOverrides":[1],"styleOverrideTable":{"1":{"lineHeightPx":30}}`, "lineHeight"},
		{"line height unit", `"characterStyleOverrides":[1],"styleOverrideTable":{"1":{"lineHeightUnit":"INTRINSIC_%"}}`, "lineHeight"},
		{"same value is not mixed", `"characterStyleOverrides":[1],"styleOverrideTable":{"1":{"fontWeight":400}}`, ""},
		{"unused entry is not mixed", `"characterStyleOverrides":[0,0],"styleOverrideTable":{"1":{"fontWeight":700}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewTextNode(decodeNode(t, `{"id":"1:1","type":"TEXT",`+base+`,`+tt.overrides+`}`), nil)

			_, sizeOK := n.FontSize()
			_, weightOK := n.FontWeight()
			_, familyOK := n.FontFamily()
			_, spacingOK := n.LetterSpacing()
			_, lineHeightOK := n.LineHeight()
			_, alignOK := n.TextAlignHorizontal()

			got := map[string]bool{
				"size":       !sizeOK,
				"weight":     !weightOK,
				"family":     !familyOK,
				"spacing":    !spacingOK,
				"lineHeight": !lineHeightOK,
				"align":      !alignOK,
			}
			for prop, mixed := range got {
				if mixed != (prop == tt.mixed) {
					t.Errorf("%s mixed = %v", prop, mixed)
				}
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	root := decodeNode(t, `{
		"id": "1:0", "type": "FRAME", "name": "Card",
		"children": [
			{"id": "1:1", "type": "RECTANGLE"},
			{"id": "1:2", "type": "GROUP", "children": [{"id": "1:3", "type": "TEXT", "name": "Title"}]},
			{"id": "1:4", "type": "TEXT", "name": "Body"}
		]
	}`)

	nodes := Flatten(root, nil)
	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID())
	}
	want := []string{"1:0", "1:3", "1:4"}
	if len(ids) != len(want) {
		t.Fatalf("Flatten() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Flatten()[%d] = %s, want %s", i, ids[i], want[i])
		}
	}

	first := host.FirstText(nodes)
	if first == nil || first.Name() != "Title" {
		t.Errorf("FirstText() = %v, want Title", first)
	}

	if host.FirstText(Flatten(decodeNode(t, `{"id":"2:0","type":"FRAME"}`), nil)) != nil {
		t.Error("FirstText() of a frame without text should be nil")
	}
	if Flatten(nil, nil) != nil {
		t.Error("Flatten(nil) should be nil")
	}
}

func TestIntrinsicMeasurer(t *testing.T) {
	n := NewTextNode(decodeNode(t, `{"id":"1:1","type":"TEXT","style":{"fontSize":16,"lineHeightPx":19.36,"lineHeightUnit":"INTRINSIC_%"}}`), nil)

	h, err := IntrinsicMeasurer{}.MeasureLineHeight(context.Background(), n)
	if err != nil || h != 19.36 {
		t.Errorf("MeasureLineHeight() = %v, %v", h, err)
	}

	rec := extractor.Extract(context.Background(), n, 16, IntrinsicMeasurer{})
	if rec.LineHeight != "1.21" {
		t.Errorf("Extract() line height = %q, want 1.21", rec.LineHeight)
	}

	empty := NewTextNode(decodeNode(t, `{"id":"1:2","type":"TEXT","style":{"fontSize":16}}`), nil)
	if _, err := (IntrinsicMeasurer{}).MeasureLineHeight(context.Background(), empty); !errors.Is(err, ErrNoResolvedLineHeight) {
		t.Errorf("MeasureLineHeight() error = %v, want ErrNoResolvedLineHeight", err)
	}
}
