package request

import (
	"strings"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/shopspring/decimal"
)

type ExchangeRequest struct {
	UID          string           `json:"uid"`
	FromCurrency string           `json:"fromCurrency"`
	ToCurrency   string           `json:"toCurrency"`
	Amount       *decimal.Decimal `json:"amount"`
	ToDigital    *bool            `json:"toDigital"`
	Delivery     *string          `json:"delivery,omitempty"`
	Confirm      bool             `json:"confirm,omitempty"`
}

func (r *ExchangeRequest) Validate() error {
	return requireFields(
		field{"uid", r.UID != ""},
		field{"fromCurrency", r.FromCurrency != ""},
		field{"toCurrency", r.ToCurrency != ""},
		field{"amount", r.Amount != nil},
		field{"toDigital", r.ToDigital != nil},
	)
}

type RecommendationRequest struct {
	FromCurrency string           `json:"fromCurrency"`
	ToCurrency   string           `json:"toCurrency"`
	Amount       *decimal.Decimal `json:"amount"`
}

func (r *RecommendationRequest) Validate() error {
	return requireFields(
		field{"fromCurrency", r.FromCurrency != ""},
		field{"toCurrency", r.ToCurrency != ""},
		field{"amount", r.Amount != nil},
	)
}

type CreateWalletRequest struct {
	UID string `json:"uid"`
}

func (r *CreateWalletRequest) Validate() error {
	return requireFields(field{"uid", r.UID != ""})
}

type DepositRequest struct {
	UID      string           `json:"uid"`
	Currency string           `json:"currency"`
	Amount   *decimal.Decimal `json:"amount"`
}

func (r *DepositRequest) Validate() error {
	return requireFields(
		field{"uid", r.UID != ""},
		field{"currency", r.Currency != ""},
		field{"amount", r.Amount != nil},
	)
}

type LinkBankRequest struct {
	UID           string `json:"uid"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	HolderName    string `json:"holderName"`
}

func (r *LinkBankRequest) Validate() error {
	return requireFields(
		field{"uid", r.UID != ""},
		field{"bankName", r.BankName != ""},
		field{"accountNumber", r.AccountNumber != ""},
		field{"holderName", r.HolderName != ""},
	)
}

type ReturnMoneyRequest struct {
	UID      string `json:"uid"`
	BankName string `json:"bankName"`
	Currency string `json:"currency"`
}

func (r *ReturnMoneyRequest) Validate() error {
	return requireFields(
		field{"uid", r.UID != ""},
		field{"bankName", r.BankName != ""},
		field{"currency", r.Currency != ""},
	)
}

type field struct {
	name    string
	present bool
}

func requireFields(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return domain.Errorf(domain.ErrValidation, "missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
