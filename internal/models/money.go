package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyTokens = []string{"CHF", "EUR", "USD", "GBP", "$", "€", "£"}

// ParseAmount parses a statement amount into an exact decimal.
// Currency symbols, spaces and thousands separators are removed. A value in
// parentheses is negative. With decimalComma set, "1.234,56" is read as
// 1234.56; otherwise commas are treated as thousands separators.
func ParseAmount(amountStr string, decimalComma bool) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	if amount == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(amount, "(") && strings.HasSuffix(amount, ")") {
		negative = true
		amount = strings.TrimSuffix(strings.TrimPrefix(amount, "("), ")")
	}

	for _, token := range currencyTokens {
		amount = strings.ReplaceAll(amount, token, "")
	}
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, "\u00a0", "")
	amount = strings.ReplaceAll(amount, "'", "")

	if decimalComma {
		amount = strings.ReplaceAll(amount, ".", "")
		amount = strings.ReplaceAll(amount, ",", ".")
	} else {
		amount = strings.ReplaceAll(amount, ",", "")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount string '%s': %w", amountStr, err)
	}
	if negative {
		dec = dec.Neg()
	}
	return dec, nil
}

// CanonicalAmount renders an amount in the form used for storage and exact
// comparison. Trailing zeros are dropped so 10.00 and 10 compare equal.
func CanonicalAmount(d decimal.Decimal) string {
	return d.String()
}

// FormatAmount renders an amount with two decimal places for display.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
