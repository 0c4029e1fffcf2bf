package exchangedto

import "github.com/shopspring/decimal"

type ExchangeInput struct {
	OwnerID         string
	FromCurrency    string
	ToCurrency      string
	Amount          decimal.Decimal
	Confirm         bool
	DeliveryAddress *string
	DigitalDelivery bool
}
