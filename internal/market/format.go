package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatNumber renders v with thousands separators and at most places
// fractional digits, dropping trailing zeros ("67234.5" -> "67,234.5").
func FormatNumber(v float64, places int32) string {
	s := decimal.NewFromFloat(v).Round(places).String()
	return groupThousands(s)
}

// FormatUSD renders a price the way the dashboard shows it: "$67,234.5".
func FormatUSD(v float64) string {
	return "$" + FormatNumber(v, 2)
}

// FormatChange renders a signed percentage with two decimals: "+2.34%".
func FormatChange(pct float64) string {
	d := decimal.NewFromFloat(pct)
	sign := ""
	if !d.IsNegative() {
		sign = "+"
	}
	return sign + d.StringFixed(2) + "%"
}

// FormatBillions buckets a raw USD amount into billions: "$28.5B".
func FormatBillions(v float64) string {
	return "$" + decimal.NewFromFloat(v).Div(decimal.NewFromInt(1_000_000_000)).StringFixed(1) + "B"
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if hasFrac {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
