package handlers

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "2006-01-02"

// formatAmount renders an amount in rupees with two decimals and the
// locale's digit grouping, e.g. "Rs. 12,500.00".
func formatAmount(locale string, amount float64) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag).Sprintf("Rs. %.2f", amount)
}
