package mycounter

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalLiteral matches the decimal forms accepted by ParseNumericOr.
// Go's strconv.ParseFloat is more permissive ("inf", "nan", hex floats,
// underscores), so input is checked against this first.
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumericOr converts an attribute string to a number, returning def
// when the string is empty, blank, not a number, or evaluates to NaN.
//
// Accepted forms:
//   - decimal literals with optional sign, fraction and exponent ("-3", "1.", ".5", "2e3")
//   - "Infinity", "+Infinity", "-Infinity"
//   - unsigned integer literals with a 0x, 0o or 0b prefix
//
// Decimal literals outside the float64 range saturate to ±Inf.
func ParseNumericOr(raw string, def float64) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		var base int
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseRadix(s[2:], base, def)
		}
	}

	if !decimalLiteral.MatchString(s) {
		return def
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return def
	}
	if math.IsNaN(f) {
		return def
	}
	return f
}

// parseRadix parses unsigned digits in the given base. Values that overflow
// uint64 are accumulated in float64 so large literals still resolve.
func parseRadix(digits string, base int, def float64) float64 {
	if digits == "" {
		return def
	}
	if n, err := strconv.ParseUint(digits, base, 64); err == nil {
		return float64(n)
	}

	var f float64
	for _, r := range digits {
		d, err := strconv.ParseUint(string(r), base, 8)
		if err != nil {
			return def
		}
		f = f*float64(base) + float64(d)
	}
	return f
}

// Clamp constrains v to [min, max]. NaN is treated as 0.
//
// The lower bound is applied first, so when min > max the result is max.
func Clamp(v, min, max float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	return math.Min(math.Max(v, min), max)
}

// FormatNumber returns the canonical string form of v: integers have no
// fractional part, very large and very small magnitudes use exponent form
// without zero padding, and infinities are spelled out.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		if exp == "" {
			exp = "0"
		}
		return mantissa + "e" + sign + exp
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
