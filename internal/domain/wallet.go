package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Balance struct {
	Currency string
	Amount   decimal.Decimal
}

// Wallet is a per-user multi-currency balance record. Currency codes are
// unique within Balances and every amount is non-negative.
type Wallet struct {
	OwnerID   string
	Balances  []Balance
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Amount returns the balance of currency, zero when the slot is absent.
func (w *Wallet) Amount(currency string) decimal.Decimal {
	currency = NormalizeCurrency(currency)
	for _, b := range w.Balances {
		if b.Currency == currency {
			return b.Amount
		}
	}
	return decimal.Zero
}

// LiquidityPool is the single shared reserve used as counterparty for
// physically delivered conversions.
type LiquidityPool struct {
	ID        string
	Balances  []Balance
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *LiquidityPool) Amount(currency string) decimal.Decimal {
	currency = NormalizeCurrency(currency)
	for _, b := range p.Balances {
		if b.Currency == currency {
			return b.Amount
		}
	}
	return decimal.Zero
}

type WalletRepository interface {
	CreateWallet(ctx context.Context, ownerID string, currencies []string) (*Wallet, error)
	GetWallet(ctx context.Context, ownerID string) (*Wallet, error)
	Balance(ctx context.Context, ownerID, currency string) (decimal.Decimal, error)
	Credit(ctx context.Context, ownerID, currency string, amount decimal.Decimal) error
	Debit(ctx context.Context, ownerID, currency string, amount decimal.Decimal) error
	// Drain zeroes the currency slot and returns the amount it held.
	Drain(ctx context.Context, ownerID, currency string) (decimal.Decimal, error)
}

type PoolRepository interface {
	InitPool(ctx context.Context, reserve map[string]decimal.Decimal) (*LiquidityPool, error)
	GetPool(ctx context.Context) (*LiquidityPool, error)
	Balance(ctx context.Context, currency string) (decimal.Decimal, error)
	Credit(ctx context.Context, currency string, amount decimal.Decimal) error
	Debit(ctx context.Context, currency string, amount decimal.Decimal) error
	// Swap credits in and debits out as one step. Nothing is applied when
	// the out balance is short.
	Swap(ctx context.Context, inCurrency string, inAmount decimal.Decimal, outCurrency string, outAmount decimal.Decimal) error
}
