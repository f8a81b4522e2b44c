package extractor

import (
	"context"

	"github.com/kataras/figma-textstyle/pkg/host"
	"github.com/kataras/figma-textstyle/pkg/logging"
	"github.com/kataras/figma-textstyle/pkg/numfmt"
)

const (
	// DefaultBasePixelSize is the root font size used when none is configured.
	DefaultBasePixelSize = 16
	// FallbackLineHeight is used for automatic line heights that cannot be measured.
	FallbackLineHeight = 1.2
	// Mixed is emitted for a font family that varies across the text.
	Mixed = "mixed"
)

// StyleRecord is the normalized typography of one text element. Every field
// is always set; ambiguous attributes degrade to documented defaults.
type StyleRecord struct {
	FontSize      string `json:"fontSize"`      // e.g. "1.5rem"
	FontWeight    string `json:"fontWeight"`    // e.g. "bold"
	FontFamily    string `json:"fontFamily"`    // raw family name
	LetterSpacing string `json:"letterSpacing"` // e.g. "0.02em"
	LineHeight    string `json:"lineHeight"`    // unitless ratio, e.g. "1.5"
	TextAlign     string `json:"textAlign"`     // left, center, right or justify
}

var weightNames = map[int]string{
	100: "thin",
	200: "extralight",
	300: "light",
	400: "normal",
	500: "medium",
	600: "semibold",
	700: "bold",
	800: "extrabold",
	900: "black",
}

var weightNumbers = func() map[string]int {
	m := make(map[string]int, len(weightNames))
	for n, name := range weightNames {
		m[name] = n
	}
	return m
}()

// WeightName maps a numeric font weight to its CSS keyword. Weights off the
// 100..900 grid map to "normal".
func WeightName(weight float64) string {
	if weight != float64(int(weight)) {
		return "normal"
	}
	if name, ok := weightNames[int(weight)]; ok {
		return name
	}
	return "normal"
}

// WeightNumber is the reverse of WeightName. Unknown names map to 400.
func WeightNumber(name string) int {
	if n, ok := weightNumbers[name]; ok {
		return n
	}
	return 400
}

// PxToRem converts a pixel size to rem, rounded to three decimals and
// printed without trailing zeros ("1.5rem", "1rem").
func PxToRem(px float64, basePixelSize int) string {
	if basePixelSize <= 0 {
		basePixelSize = DefaultBasePixelSize
	}
	return numfmt.Minimal(numfmt.ToFixed(px/float64(basePixelSize), 3)) + "rem"
}

// LetterSpacingToEm converts a percentage letter spacing to em with two
// decimals. Any other unit yields "0em".
func LetterSpacingToEm(ls host.LetterSpacing) string {
	if ls.Unit != host.UnitPercent {
		return "0em"
	}
	return numfmt.ToFixed(ls.Value/100, 2) + "em"
}

// FormatLineHeight prints a line height ratio with at most two decimals.
func FormatLineHeight(ratio float64) string {
	return numfmt.TrimZeros(numfmt.ToFixed(ratio, 2))
}

// TextAlign maps the host alignment keyword to CSS. Mixed or unknown
// alignments are "left".
func TextAlign(a host.TextAlign, ok bool) string {
	if !ok {
		return "left"
	}
	switch a {
	case host.AlignCenter:
		return "center"
	case host.AlignRight:
		return "right"
	case host.AlignJustified:
		return "justify"
	default:
		return "left"
	}
}

// Extractor turns text elements into StyleRecords.
type Extractor struct {
	// Measurer resolves automatic line heights. A nil Measurer makes every
	// automatic line height fall back to FallbackLineHeight.
	Measurer host.LineHeightMeasurer
	Logger   logging.Logger // nil = no logging
}

// Extract is a shortcut for an Extractor with the given measurer.
func Extract(ctx context.Context, node host.TextNode, basePixelSize int, m host.LineHeightMeasurer) StyleRecord {
	e := &Extractor{Measurer: m}
	return e.Extract(ctx, node, basePixelSize)
}

// Extract reads the typography of node. It never fails.
func (e *Extractor) Extract(ctx context.Context, node host.TextNode, basePixelSize int) StyleRecord {
	if basePixelSize <= 0 {
		basePixelSize = DefaultBasePixelSize
	}

	fontSize, ok := node.FontSize()
	if !ok || fontSize <= 0 {
		fontSize = float64(basePixelSize)
	}

	weight := "normal"
	if w, ok := node.FontWeight(); ok {
		weight = WeightName(w)
	}

	family, ok := node.FontFamily()
	if !ok {
		family = Mixed
	}

	spacing := "0em"
	if ls, ok := node.LetterSpacing(); ok {
		spacing = LetterSpacingToEm(ls)
	}

	align, alignOK := node.TextAlignHorizontal()

	return StyleRecord{
		FontSize:      PxToRem(fontSize, basePixelSize),
		FontWeight:    weight,
		FontFamily:    family,
		LetterSpacing: spacing,
		LineHeight:    FormatLineHeight(e.lineHeightRatio(ctx, node, fontSize)),
		TextAlign:     TextAlign(align, alignOK),
	}
}

func (e *Extractor) lineHeightRatio(ctx context.Context, node host.TextNode, fontSize float64) float64 {
	lh, ok := node.LineHeight()
	if !ok {
		return 1
	}

	switch lh.Unit {
	case host.UnitPercent:
		return lh.Value / 100
	case host.UnitPixels:
		return lh.Value / fontSize
	case host.UnitAuto:
		return e.autoLineHeight(ctx, node, fontSize)
	default:
		return 1
	}
}

func (e *Extractor) autoLineHeight(ctx context.Context, node host.TextNode, fontSize float64) float64 {
	if node.HasMissingFont() {
		e.infof("missing font on %q, using line-height %g", node.Name(), FallbackLineHeight)
		return FallbackLineHeight
	}
	if e.Measurer == nil {
		return FallbackLineHeight
	}

	height, err := e.Measurer.MeasureLineHeight(ctx, node)
	if err != nil {
		e.warnf("measure line-height of %q: %v", node.Name(), err)
		return FallbackLineHeight
	}
	if height <= 0 {
		e.warnf("measured line-height of %q is %g, using %g", node.Name(), height, FallbackLineHeight)
		return FallbackLineHeight
	}
	return height / fontSize
}

func (e *Extractor) infof(f string, a ...any) {
	if e.Logger != nil {
		e.Logger.Infof(f, a...)
	}
}

func (e *Extractor) warnf(f string, a ...any) {
	if e.Logger != nil {
		e.Logger.Warnf(f, a...)
	}
}
