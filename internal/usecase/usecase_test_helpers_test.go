package usecase

import (
	"context"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/shopspring/decimal"
)

// stubRates serves fixed rates keyed "FROM/TO".
type stubRates struct {
	rates      map[string]decimal.Decimal
	currencies map[string]domain.CurrencyInfo
	err        error
	calls      int
}

func (s *stubRates) Rate(_ context.Context, from, to string) (decimal.Decimal, error) {
	s.calls++
	if s.err != nil {
		return decimal.Zero, s.err
	}
	rate, ok := s.rates[from+"/"+to]
	if !ok {
		return decimal.Zero, domain.Errorf(domain.ErrUpstream, "no rate for %s/%s", from, to)
	}
	return rate, nil
}

func (s *stubRates) Currencies(context.Context) (map[string]domain.CurrencyInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.currencies, nil
}

func (s *stubRates) ProviderName() string { return "stub" }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
