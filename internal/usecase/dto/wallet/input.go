package walletdto

import "github.com/shopspring/decimal"

type DepositInput struct {
	OwnerID  string
	Currency string
	Amount   decimal.Decimal
}

type LinkBankAccountInput struct {
	OwnerID       string
	BankName      string
	AccountNumber string
	HolderName    string
}
