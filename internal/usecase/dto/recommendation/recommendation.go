package recommendationdto

import "github.com/shopspring/decimal"

type RecommendationInput struct {
	FromCurrency string
	ToCurrency   string
	Amount       decimal.Decimal
}

type ChangerQuote struct {
	ID               string
	Name             string
	Location         string
	Rating           float64
	MarkupPercent    decimal.Decimal
	OperatingHours   map[string]string
	Rate             decimal.Decimal
	ConvertedAmount  decimal.Decimal
	SavingsVsHighest decimal.Decimal
}

type RecommendationOutput struct {
	FromCurrency string
	FromSymbol   string
	ToCurrency   string
	ToSymbol     string
	Amount       decimal.Decimal
	BaseRate     decimal.Decimal
	Changers     []ChangerQuote
}
