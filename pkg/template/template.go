// Package template renders a StyleRecord through the snippet mini-language.
//
// A template is free text with placeholders of the form $name or
// $name(unit), where name is one of size, weight, family, spacing,
// lineHeight or textAlign. Text outside placeholders is copied verbatim:
//
//	+text($size(rem), $weight, $family)
//	letter-spacing: $spacing(em)
//	line-height: $lineHeight
//
// Rendering is a pure function of its inputs.
package template

import (
	"regexp"
	"strings"

	"github.com/kataras/figma-textstyle/pkg/extractor"
	"github.com/kataras/figma-textstyle/pkg/numfmt"
)

// DefaultUnit is the unit of a placeholder written without parentheses.
const DefaultUnit = "default"

// Placeholder names.
const (
	Size       = "size"
	Weight     = "weight"
	Family     = "family"
	Spacing    = "spacing"
	LineHeight = "lineHeight"
	TextAlign  = "textAlign"
)

var placeholderRe = regexp.MustCompile(`\$(size|weight|family|spacing|lineHeight|textAlign)(?:\(([^)]+)\))?`)

// Placeholder is one match of the template scan.
type Placeholder struct {
	Raw   string // the matched text, e.g. "$size(px)"
	Name  string // e.g. "size"
	Unit  string // e.g. "px", DefaultUnit when omitted
	Start int    // byte offset of Raw in the template
	End   int
}

// Parse scans tpl left to right and returns its placeholders in order.
func Parse(tpl string) []Placeholder {
	matches := placeholderRe.FindAllStringSubmatchIndex(tpl, -1)
	out := make([]Placeholder, 0, len(matches))
	for _, m := range matches {
		p := Placeholder{
			Raw:   tpl[m[0]:m[1]],
			Name:  tpl[m[2]:m[3]],
			Unit:  DefaultUnit,
			Start: m[0],
			End:   m[1],
		}
		if m[4] >= 0 {
			p.Unit = tpl[m[4]:m[5]]
		}
		out = append(out, p)
	}
	return out
}

// Options control unit conversion and elision.
type Options struct {
	BasePixelSize         int
	SkipZeroLetterSpacing bool
}

// Render substitutes every placeholder of tpl with the matching value of
// style, converted to the placeholder's unit.
//
// When opts.SkipZeroLetterSpacing is set and the letter spacing is exactly
// zero, every template line holding a $spacing placeholder is dropped
// together with its line break, including any other text on that line.
func Render(tpl string, style extractor.StyleRecord, aliases map[string]string, opts Options) string {
	if opts.BasePixelSize <= 0 {
		opts.BasePixelSize = extractor.DefaultBasePixelSize
	}

	if opts.SkipZeroLetterSpacing && numfmt.ParseLeading(strings.TrimSuffix(style.LetterSpacing, "em")) == 0 {
		tpl = dropSpacingLines(tpl)
	}

	c := converter{style: style, aliases: aliases, base: float64(opts.BasePixelSize)}
	return placeholderRe.ReplaceAllStringFunc(tpl, func(raw string) string {
		m := placeholderRe.FindStringSubmatch(raw)
		unit := DefaultUnit
		if m[2] != "" {
			unit = m[2]
		}
		return c.convert(m[1], unit)
	})
}

func dropSpacingLines(tpl string) string {
	lines := strings.SplitAfter(tpl, "\n")
	var sb strings.Builder
	sb.Grow(len(tpl))
	for _, line := range lines {
		if hasSpacing(line) {
			continue
		}
		sb.WriteString(line)
	}
	return sb.String()
}

func hasSpacing(line string) bool {
	for _, m := range placeholderRe.FindAllStringSubmatch(line, -1) {
		if m[1] == Spacing {
			return true
		}
	}
	return false
}
