package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses an amount string into cents. Both decimal conventions
// are accepted: "1,234.56" and "1.234,56" are the same value, as are "10.00"
// and "10,00". The last separator in the string is taken as the decimal
// point.
func parseAmount(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "€")
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, " ", "")

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	if lastComma > lastDot {
		// Comma-decimal: dots are thousands separators.
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
