// Package memory holds process-local repositories. They back the "memory"
// storage driver and the use case tests.
package memory

import (
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/shopspring/decimal"
)

// balanceSet keeps currency slots in insertion order. Slots are never removed.
type balanceSet struct {
	order     []string
	amounts   map[string]decimal.Decimal
	createdAt time.Time
	updatedAt time.Time
}

func newBalanceSet(now time.Time) *balanceSet {
	return &balanceSet{amounts: make(map[string]decimal.Decimal), createdAt: now, updatedAt: now}
}

func (s *balanceSet) get(currency string) decimal.Decimal {
	return s.amounts[currency]
}

func (s *balanceSet) credit(currency string, amount decimal.Decimal, now time.Time) {
	if _, ok := s.amounts[currency]; !ok {
		s.order = append(s.order, currency)
	}
	s.amounts[currency] = s.amounts[currency].Add(amount)
	s.updatedAt = now
}

func (s *balanceSet) debit(currency string, amount decimal.Decimal, now time.Time) error {
	current := s.amounts[currency]
	if current.LessThan(amount) {
		return domain.Errorf(domain.ErrInsufficientFunds, "insufficient %s balance: have %s, need %s", currency, current, amount)
	}
	s.amounts[currency] = current.Sub(amount)
	s.updatedAt = now
	return nil
}

func (s *balanceSet) snapshot() []domain.Balance {
	out := make([]domain.Balance, 0, len(s.order))
	for _, currency := range s.order {
		out = append(out, domain.Balance{Currency: currency, Amount: s.amounts[currency]})
	}
	return out
}
