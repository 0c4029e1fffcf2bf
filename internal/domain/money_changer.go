package domain

import "github.com/shopspring/decimal"

// MoneyChanger is a physical exchange desk that prices at the market rate
// plus its markup.
type MoneyChanger struct {
	ID                  string
	Name                string
	Location            string
	Rating              float64
	MarkupPercent       decimal.Decimal
	OperatingHours      map[string]string
	SupportedCurrencies []string
}

func (c MoneyChanger) Supports(currency string) bool {
	for _, code := range c.SupportedCurrencies {
		if NormalizeCurrency(code) == currency {
			return true
		}
	}
	return false
}
