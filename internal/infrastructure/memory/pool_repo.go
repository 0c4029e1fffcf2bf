package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/shopspring/decimal"
)

const poolID = "main"

// PoolRepository guards the single pool with one mutex.
type PoolRepository struct {
	mu   sync.Mutex
	pool *balanceSet
	now  func() time.Time
}

func NewPoolRepository() *PoolRepository {
	return &PoolRepository{now: time.Now}
}

func (r *PoolRepository) InitPool(_ context.Context, reserve map[string]decimal.Decimal) (*domain.LiquidityPool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool != nil {
		return nil, domain.ErrPoolExists
	}

	currencies := make([]string, 0, len(reserve))
	for currency := range reserve {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	set := newBalanceSet(r.now())
	for _, currency := range currencies {
		code := domain.NormalizeCurrency(currency)
		if _, dup := set.amounts[code]; !dup {
			set.order = append(set.order, code)
		}
		set.amounts[code] = set.amounts[code].Add(reserve[currency])
	}
	r.pool = set
	return r.toPool(), nil
}

func (r *PoolRepository) GetPool(_ context.Context) (*domain.LiquidityPool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool == nil {
		return nil, domain.ErrPoolNotFound
	}
	return r.toPool(), nil
}

func (r *PoolRepository) Balance(_ context.Context, currency string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool == nil {
		return decimal.Zero, domain.ErrPoolNotFound
	}
	return r.pool.get(domain.NormalizeCurrency(currency)), nil
}

func (r *PoolRepository) Credit(_ context.Context, currency string, amount decimal.Decimal) error {
	if err := domain.RequirePositive(amount); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool == nil {
		return domain.ErrPoolNotFound
	}
	r.pool.credit(domain.NormalizeCurrency(currency), amount, r.now())
	return nil
}

func (r *PoolRepository) Debit(_ context.Context, currency string, amount decimal.Decimal) error {
	if err := domain.RequirePositive(amount); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool == nil {
		return domain.ErrPoolNotFound
	}
	return r.pool.debit(domain.NormalizeCurrency(currency), amount, r.now())
}

func (r *PoolRepository) Swap(_ context.Context, inCurrency string, inAmount decimal.Decimal, outCurrency string, outAmount decimal.Decimal) error {
	if err := domain.RequirePositive(inAmount); err != nil {
		return err
	}
	if err := domain.RequirePositive(outAmount); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool == nil {
		return domain.ErrPoolNotFound
	}
	in, out := domain.NormalizeCurrency(inCurrency), domain.NormalizeCurrency(outCurrency)
	available := r.pool.get(out)
	if in == out {
		available = available.Add(inAmount)
	}
	if available.LessThan(outAmount) {
		return domain.Errorf(domain.ErrInsufficientFunds, "insufficient %s balance: have %s, need %s", out, available, outAmount)
	}
	now := r.now()
	r.pool.credit(in, inAmount, now)
	return r.pool.debit(out, outAmount, now)
}

func (r *PoolRepository) toPool() *domain.LiquidityPool {
	return &domain.LiquidityPool{
		ID:        poolID,
		Balances:  r.pool.snapshot(),
		CreatedAt: r.pool.createdAt,
		UpdatedAt: r.pool.updatedAt,
	}
}
