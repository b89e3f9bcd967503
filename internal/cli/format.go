package cli

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatAmount renders v rounded to two decimals with thousands separators,
// e.g. 1055.5555 becomes "1,055.56". Rounding is for display only.
func FormatAmount(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// beyond int64 range; leave ungrouped
		return sign + fixed
	}
	return sign + humanize.Comma(n) + "." + frac
}
