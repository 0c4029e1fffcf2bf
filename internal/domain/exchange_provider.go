package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type CurrencyInfo struct {
	Code          string
	Name          string
	NamePlural    string
	Symbol        string
	SymbolNative  string
	DecimalDigits int32
}

// ExchangeRateProvider is an upstream pricing service.
type ExchangeRateProvider interface {
	GetRate(ctx context.Context, from, to string) (decimal.Decimal, error)
	GetCurrencies(ctx context.Context) (map[string]CurrencyInfo, error)
	GetName() string
}

// RateSource is what the coordinator and settlement consume: a rate lookup
// that either yields a positive rate or fails with ErrUpstream.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}
