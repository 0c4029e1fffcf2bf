package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type countingRates struct {
	calls atomic.Int32
	err   error
}

func (c *countingRates) Rate(context.Context, string, string) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("not used")
}

func (c *countingRates) Currencies(context.Context) (map[string]domain.CurrencyInfo, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return map[string]domain.CurrencyInfo{"USD": {Code: "USD"}}, nil
}

func (c *countingRates) ProviderName() string { return "counting" }

func TestCurrencyRefreshRunsImmediately(t *testing.T) {
	rates := &countingRates{}
	bt := NewBackgroundTasks(rates, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bt.startCurrencyRefresh(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return rates.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestRefreshCurrenciesToleratesUpstreamFailure(t *testing.T) {
	rates := &countingRates{err: domain.Errorf(domain.ErrUpstream, "down")}
	bt := NewBackgroundTasks(rates, nil)

	assert.NotPanics(t, func() { bt.refreshCurrencies(context.Background()) })
	assert.Equal(t, int32(1), rates.calls.Load())
}
