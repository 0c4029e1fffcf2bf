package exchangedto

import "github.com/shopspring/decimal"

type Quote struct {
	FromCurrency    string
	ToCurrency      string
	Rate            decimal.Decimal
	FromAmount      decimal.Decimal
	ToAmount        decimal.Decimal
	Delivery        *string
	DigitalDelivery bool
}

type Commit struct {
	Message       string
	TransactionID string
	Success       bool
}

// ExchangeOutput carries exactly one of Quote or Commit.
type ExchangeOutput struct {
	Quote  *Quote
	Commit *Commit
}
