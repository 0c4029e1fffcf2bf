package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCurrency accepts three-letter alphabetic ISO-style codes.
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return Errorf(ErrValidation, "invalid currency code %q", code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return Errorf(ErrValidation, "invalid currency code %q", code)
		}
	}
	return nil
}

// MaxAmountScale is the number of decimal places balance columns store.
const MaxAmountScale = 8

func RequirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return Errorf(ErrValidation, "amount must be greater than zero")
	}
	return ValidateScale(amount)
}

// ValidateScale rejects amounts that storage would round. Trailing zeros
// do not count.
func ValidateScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return Errorf(ErrValidation, "amount %s has more than %d decimal places", amount, MaxAmountScale)
	}
	return nil
}
