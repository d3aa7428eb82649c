package amount

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)

	// Smallest magnitude that still renders as digits; anything nonzero
	// below this shows the sentinel instead of a misleading "0.00".
	minDisplayable = decimal.New(1, -6) // 0.000001
)

// SmallValueSentinel is returned by FormatReadable for nonzero amounts
// below display resolution.
const SmallValueSentinel = "< 0.000001"

// Options controls display formatting.
type Options struct {
	// AddSymbol appends a space and the asset symbol to the output.
	AddSymbol bool
}

// FormatWithSuffix renders a non-negative decimal as a short display
// string with a K/M/B magnitude suffix and exactly two fractional digits.
// The integer portion is comma-grouped.
//
// The suffix branch is selected before rounding, so a value just under a
// boundary stays in its branch: 999999 formats as "1,000.00K", not
// "1.00M". Rounding is half away from zero at two fractional digits.
//
// Precondition: h is non-negative. Negative input is the caller's
// responsibility; FormatReadable handles signs by formatting |h|.
func FormatWithSuffix(h decimal.Decimal) string {
	switch {
	case h.GreaterThanOrEqual(billion):
		return groupThousands(h.Shift(-9).StringFixed(2)) + "B"
	case h.GreaterThanOrEqual(million):
		return groupThousands(h.Shift(-6).StringFixed(2)) + "M"
	case h.GreaterThanOrEqual(thousand):
		return groupThousands(h.Shift(-3).StringFixed(2)) + "K"
	default:
		return groupThousands(h.StringFixed(2))
	}
}

// FormatReadable renders a human-readable amount as a display string:
//
//   - zero formats as "0.00"
//   - nonzero |h| below 0.000001 formats as the small-value sentinel,
//     preserving the signal that a nonzero balance exists
//   - anything else goes through FormatWithSuffix on |h|, with a minus
//     sign prefixed for negative amounts
//
// With opts.AddSymbol the symbol is appended after a single space.
func FormatReadable(h decimal.Decimal, symbol string, opts Options) string {
	var out string
	switch {
	case h.IsZero():
		out = "0.00"
	case h.Abs().LessThan(minDisplayable):
		out = SmallValueSentinel
	default:
		out = FormatWithSuffix(h.Abs())
		if h.IsNegative() {
			out = "-" + out
		}
	}

	if opts.AddSymbol && symbol != "" {
		out += " " + symbol
	}
	return out
}

// FormatCents renders an amount expressed in minor currency units (cents)
// as a dollar display string: the amount is divided by 100 and pushed
// through the FormatReadable pipeline with a "$" marker in place of an
// asset symbol. The sign precedes the marker: -150 cents is "-$1.50".
func FormatCents(cents decimal.Decimal) string {
	s := FormatReadable(cents.Shift(-2), "", Options{})
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

// groupThousands inserts comma separators into the integer portion of a
// plain fixed-point string produced by StringFixed.
func groupThousands(s string) string {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	if len(intPart) > 3 {
		var b strings.Builder
		b.Grow(len(intPart) + len(intPart)/3)
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	if hasFrac {
		return intPart + "." + fracPart
	}
	return intPart
}
