// src/money/money.go
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a loosely formatted monetary string ("R$ 1.234,56", "1234.56", "1234,56")
// into a non-negative decimal magnitude. Empty, unparseable or malformed input yields zero.
func Parse(s string) decimal.Decimal {
	cleaned := stripNonNumeric(s)
	if cleaned == "" {
		return decimal.Zero
	}

	normalized, ok := normalizeSeparators(cleaned)
	if !ok || normalized == "" || normalized == "." {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero
	}
	return value.Abs()
}

// ParseOK behaves like Parse but also reports whether the input carried a usable number.
func ParseOK(s string) (decimal.Decimal, bool) {
	cleaned := stripNonNumeric(s)
	if cleaned == "" {
		return decimal.Zero, false
	}
	normalized, ok := normalizeSeparators(cleaned)
	if !ok {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}
	return value.Abs(), true
}

// stripNonNumeric keeps digits and the two separator characters only.
func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeSeparators rewrites the string so that "." is the only (decimal) separator.
//
// With both separators present the right-most one is the decimal separator. With a single kind
// present it is a decimal separator unless it repeats, or it is a lone dot followed by exactly
// three digits ("1.500" is one thousand five hundred in the Brazilian convention).
func normalizeSeparators(s string) (string, bool) {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimalSep, thousandsSep := ",", "."
		if lastDot > lastComma {
			decimalSep, thousandsSep = ".", ","
		}
		if strings.Count(s, decimalSep) > 1 {
			return "", false
		}
		s = strings.ReplaceAll(s, thousandsSep, "")
		return strings.Replace(s, decimalSep, ".", 1), true

	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", ""), true
		}
		return strings.Replace(s, ",", ".", 1), true

	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			return strings.ReplaceAll(s, ".", ""), true
		}
		if len(s)-lastDot-1 == 3 && lastDot > 0 {
			return strings.Replace(s, ".", "", 1), true
		}
		return s, true
	}
	return s, true
}

// ToCents converts an amount to integer cents, rounding half away from zero.
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromCents is the inverse of ToCents.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders an amount in the Brazilian display convention, e.g. "R$ 1.234,56".
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	return sign + "R$ " + grouped.String() + "," + fracPart
}

// String renders an amount at the I/O boundary with two decimal places and a dot separator.
func String(d decimal.Decimal) string {
	return d.StringFixed(2)
}
