package memory

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/shopspring/decimal"
)

type WalletRepository struct {
	mu      sync.Mutex
	wallets map[string]*balanceSet
	now     func() time.Time
}

func NewWalletRepository() *WalletRepository {
	return &WalletRepository{wallets: make(map[string]*balanceSet), now: time.Now}
}

func (r *WalletRepository) CreateWallet(_ context.Context, ownerID string, currencies []string) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.wallets[ownerID]; exists {
		return nil, domain.ErrWalletExists
	}
	now := r.now()
	set := newBalanceSet(now)
	for _, currency := range currencies {
		currency = domain.NormalizeCurrency(currency)
		if _, dup := set.amounts[currency]; dup {
			continue
		}
		set.order = append(set.order, currency)
		set.amounts[currency] = decimal.Zero
	}
	r.wallets[ownerID] = set
	return toWallet(ownerID, set), nil
}

func (r *WalletRepository) GetWallet(_ context.Context, ownerID string) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.wallets[ownerID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return toWallet(ownerID, set), nil
}

func (r *WalletRepository) Balance(_ context.Context, ownerID, currency string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.wallets[ownerID]
	if !ok {
		return decimal.Zero, domain.ErrWalletNotFound
	}
	return set.get(domain.NormalizeCurrency(currency)), nil
}

func (r *WalletRepository) Credit(_ context.Context, ownerID, currency string, amount decimal.Decimal) error {
	if err := domain.RequirePositive(amount); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.wallets[ownerID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	set.credit(domain.NormalizeCurrency(currency), amount, r.now())
	return nil
}

func (r *WalletRepository) Debit(_ context.Context, ownerID, currency string, amount decimal.Decimal) error {
	if err := domain.RequirePositive(amount); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.wallets[ownerID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	return set.debit(domain.NormalizeCurrency(currency), amount, r.now())
}

func (r *WalletRepository) Drain(_ context.Context, ownerID, currency string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.wallets[ownerID]
	if !ok {
		return decimal.Zero, domain.ErrWalletNotFound
	}
	currency = domain.NormalizeCurrency(currency)
	amount := set.get(currency)
	if amount.IsPositive() {
		set.amounts[currency] = decimal.Zero
		set.updatedAt = r.now()
	}
	return amount, nil
}

func toWallet(ownerID string, set *balanceSet) *domain.Wallet {
	return &domain.Wallet{
		OwnerID:   ownerID,
		Balances:  set.snapshot(),
		CreatedAt: set.createdAt,
		UpdatedAt: set.updatedAt,
	}
}
