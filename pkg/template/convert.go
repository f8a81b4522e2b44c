package template

import (
	"strconv"
	"strings"

	"github.com/kataras/figma-textstyle/pkg/extractor"
	"github.com/kataras/figma-textstyle/pkg/numfmt"
)

type converter struct {
	style   extractor.StyleRecord
	aliases map[string]string
	base    float64
}

func (c converter) convert(name, unit string) string {
	switch name {
	case Size:
		return ConvertSize(c.style.FontSize, unit, c.base)
	case Weight:
		return ConvertWeight(c.style.FontWeight, unit)
	case Family:
		return FamilyReference(c.style.FontFamily, c.aliases)
	case Spacing:
		return ConvertSpacing(c.style.LetterSpacing, unit, c.base)
	case LineHeight:
		return ConvertLineHeight(c.style.LineHeight, unit, c.base)
	case TextAlign:
		return c.style.TextAlign
	}
	return ""
}

// ConvertSize converts a rem font size ("1.5rem") to px, rem or a unitless
// number. Other units return value unchanged.
func ConvertSize(value, unit string, base float64) string {
	rem := numfmt.ParseLeading(strings.TrimSuffix(value, "rem"))
	switch unit {
	case "px":
		return numfmt.ToFixed(rem*base, 0) + "px"
	case "unitless":
		return numfmt.ToFixed(rem, 3)
	default:
		return value
	}
}

// ConvertWeight returns the weight keyword, or its number for the "num" and
// "number" units.
func ConvertWeight(value, unit string) string {
	switch unit {
	case "num", "number":
		return strconv.Itoa(extractor.WeightNumber(value))
	default:
		return value
	}
}

// FamilyReference returns the registered alias of family verbatim, or the
// family name in single quotes.
func FamilyReference(family string, aliases map[string]string) string {
	if alias, ok := aliases[family]; ok && alias != "" {
		return alias
	}
	return "'" + family + "'"
}

// ConvertSpacing converts an em letter spacing ("0.02em") to %, px or a
// unitless number. Other units return value unchanged.
func ConvertSpacing(value, unit string, base float64) string {
	em := numfmt.ParseLeading(strings.TrimSuffix(value, "em"))
	switch unit {
	case "%":
		return numfmt.ToFixed(em*100, 1) + "%"
	case "px":
		return numfmt.ToFixed(em*base, 1) + "px"
	case "unitless":
		return numfmt.ToFixed(em, 2)
	default:
		return value
	}
}

// ConvertLineHeight converts a unitless line height ratio to % or px.
// Other units return value unchanged.
//
// The px conversion scales by the base pixel size, not by the element's
// own font size.
func ConvertLineHeight(value, unit string, base float64) string {
	n := numfmt.ParseLeading(value)
	switch unit {
	case "%":
		return numfmt.ToFixed(n*100, 0) + "%"
	case "px":
		return numfmt.ToFixed(n*base, 0) + "px"
	default:
		return value
	}
}
