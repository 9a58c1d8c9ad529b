package dashboard

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount with Indian digit grouping (12,34,567).
// Fractions are dropped, matching how the headline cards show money.
func FormatINR(amount float64) string {
	return inr.Sprintf("%d", int64(amount))
}
