package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BankLink is an external bank account used as a withdrawal destination.
// Balance is a running total in the home currency.
type BankLink struct {
	ID            string
	OwnerID       string
	BankName      string
	AccountNumber string
	HolderName    string
	Balance       decimal.Decimal
	CreatedAt     time.Time
}

type BankLinkRepository interface {
	CreateBankLink(ctx context.Context, link *BankLink) error
	// GetBankLinkByName matches bankName case-insensitively.
	GetBankLinkByName(ctx context.Context, ownerID, bankName string) (*BankLink, error)
	GetBankLinksByOwnerID(ctx context.Context, ownerID string) ([]*BankLink, error)
	CreditBankLink(ctx context.Context, linkID string, amount decimal.Decimal) error
}
