package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type BalanceResponse struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type WalletResponse struct {
	Success bool              `json:"success"`
	UID     string            `json:"uid"`
	Data    []BalanceResponse `json:"data"`
}

type PoolResponse struct {
	Success bool              `json:"success"`
	ID      string            `json:"id"`
	Data    []BalanceResponse `json:"data"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type QuoteResponse struct {
	Success         bool            `json:"success"`
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Rate            decimal.Decimal `json:"rate"`
	FromAmount      decimal.Decimal `json:"fromAmount"`
	ToAmount        decimal.Decimal `json:"toAmount"`
	Delivery        *string         `json:"delivery"`
	DigitalDelivery bool            `json:"digitalDelivery"`
}

type CommitResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}

type BankAccountResponse struct {
	ID            string          `json:"id"`
	BankName      string          `json:"bankName"`
	AccountNumber string          `json:"accountNumber"`
	HolderName    string          `json:"holderName"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type LinkBankResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    BankAccountResponse `json:"data"`
}

type BankAccountsResponse struct {
	Success bool                  `json:"success"`
	Data    []BankAccountResponse `json:"data"`
}

type ReturnMoneyResponse struct {
	Success         bool            `json:"success"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Currency        string          `json:"currency"`
}

type TransactionResponse struct {
	ID              string          `json:"id"`
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	FromAmount      decimal.Decimal `json:"fromAmount"`
	ToAmount        decimal.Decimal `json:"toAmount"`
	Rate            decimal.Decimal `json:"rate"`
	DeliveryAddress *string         `json:"deliveryAddress"`
	DigitalDelivery bool            `json:"digitalDelivery"`
	Status          string          `json:"status"`
	Type            string          `json:"type"`
	Delivered       bool            `json:"delivered"`
	Confirmed       bool            `json:"confirmed"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type HistoryResponse struct {
	Success bool                  `json:"success"`
	Data    []TransactionResponse `json:"data"`
}

type CurrencyResponse struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	NamePlural    string `json:"namePlural"`
	Symbol        string `json:"symbol"`
	SymbolNative  string `json:"symbolNative"`
	DecimalDigits int32  `json:"decimalDigits"`
}

type CurrenciesResponse struct {
	Success bool                        `json:"success"`
	Data    map[string]CurrencyResponse `json:"data"`
}

type ChangerRateResponse struct {
	ID               string            `json:"id"`
	MoneyChanger     string            `json:"moneyChanger"`
	Location         string            `json:"location"`
	Rating           float64           `json:"rating"`
	MarkupPercentage decimal.Decimal   `json:"markupPercentage"`
	OperatingHours   map[string]string `json:"operatingHours"`
	Rate             decimal.Decimal   `json:"rate"`
	ConvertedAmount  decimal.Decimal   `json:"convertedAmount"`
	SavingsVsHighest decimal.Decimal   `json:"savingsVsHighest"`
}

type RecommendationResponse struct {
	Success      bool                  `json:"success"`
	Message      string                `json:"message"`
	FromCurrency string                `json:"fromCurrency"`
	FromSymbol   string                `json:"fromSymbol"`
	ToCurrency   string                `json:"toCurrency"`
	ToSymbol     string                `json:"toSymbol"`
	Amount       decimal.Decimal       `json:"amount"`
	BaseRate     decimal.Decimal       `json:"baseRate"`
	Data         []ChangerRateResponse `json:"data"`
}
