package settlementdto

import "github.com/shopspring/decimal"

type ReturnMoneyInput struct {
	OwnerID  string
	BankName string
	Currency string
}

type ReturnMoneyOutput struct {
	ConvertedAmount decimal.Decimal
	HomeCurrency    string
	Success         bool
}
