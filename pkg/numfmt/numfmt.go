// Package numfmt formats and parses the decimal strings that travel between
// the style extractor and the template renderer. The rules follow the ones a
// browser applies to Number.prototype.toFixed and parseFloat, so snippets
// rendered here are byte-identical to the ones the Figma plugin produced.
package numfmt

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

var ten = big.NewInt(10)

// ToFixed formats v with exactly digits decimals. Rounding is done on the
// exact binary value of v and ties go away from zero, so
// ToFixed(2.5, 0) is "3" while ToFixed(1.005, 2) is "1.00".
func ToFixed(v float64, digits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if digits < 0 {
		digits = 0
	}

	neg := v < 0
	r := new(big.Rat).SetFloat64(math.Abs(v))
	scale := new(big.Int).Exp(ten, big.NewInt(int64(digits)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))
	r.Add(r, big.NewRat(1, 2))
	n := new(big.Int).Quo(r.Num(), r.Denom())

	s := n.String()
	if digits > 0 {
		if len(s) <= digits {
			s = strings.Repeat("0", digits-len(s)+1) + s
		}
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

// Format returns the shortest decimal representation of v ("1.5", "16", "0").
func Format(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Minimal re-parses a decimal string and prints it in its shortest form,
// dropping trailing zeros: "1.500" becomes "1.5", "2.000" becomes "2".
func Minimal(s string) string {
	return Format(ParseLeading(s))
}

// TrimZeros strips trailing zeros and a dangling decimal point from a fixed
// formatted number: "1.50" becomes "1.5", "1.00" becomes "1".
func TrimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// ParseLeading parses the longest decimal prefix of s, ignoring leading
// white space and anything after the number ("1.5rem" yields 1.5).
// It returns NaN when s does not start with a number.
func ParseLeading(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\f\v")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return math.NaN()
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}

	// Out of range values come back as ±Inf together with an error.
	v, _ := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	return v
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
