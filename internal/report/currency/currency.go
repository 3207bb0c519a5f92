// Package currency provides display helpers for currency codes used in
// reports. Amounts stay float64 until they hit a renderer; these helpers
// only format.
package currency

import (
	"fmt"
	"strings"
)

var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "C$",
	"AUD": "A$",
	"CHF": "CHF",
	"CNY": "¥",
	"INR": "₹",
}

var displayNames = map[string]string{
	"EUR": "Euro",
	"USD": "US Dollar",
	"GBP": "British Pound",
	"JPY": "Japanese Yen",
	"CAD": "Canadian Dollar",
	"AUD": "Australian Dollar",
	"CHF": "Swiss Franc",
	"CNY": "Chinese Yuan",
	"INR": "Indian Rupee",
}

// Symbol returns the currency symbol for a code, or the code itself when
// unknown.
func Symbol(code string) string {
	if s, ok := symbols[strings.ToUpper(code)]; ok {
		return s
	}
	return code
}

// DisplayName returns a human-readable currency name for headers and
// labels.
func DisplayName(code string) string {
	if n, ok := displayNames[strings.ToUpper(code)]; ok {
		return n
	}
	return code
}

// Format renders an amount with its currency symbol and two decimals.
func Format(amount float64, code string) string {
	return fmt.Sprintf("%s%.2f", Symbol(code), amount)
}

// CellFormat returns the spreadsheet number format string for a currency.
func CellFormat(code string) string {
	return fmt.Sprintf("%s#,##0.00", Symbol(code))
}
