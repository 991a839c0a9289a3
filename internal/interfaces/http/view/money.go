package view

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes every formatted baht amount
const CurrencySymbol = "฿"

var thaiPrinter = message.NewPrinter(language.Thai)

// FormatTHB formats an amount as Thai baht with grouping and two decimals,
// e.g. ฿1,234.50. Negative amounts carry the sign before the symbol.
func FormatTHB(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	f, _ := amount.Round(2).Float64()
	return sign + CurrencySymbol + thaiPrinter.Sprint(number.Decimal(f, number.Scale(2)))
}
