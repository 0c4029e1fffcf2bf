package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase"
	settlementdto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/settlement"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type countingRates struct {
	rate  decimal.Decimal
	err   error
	calls int
}

func (c *countingRates) Rate(context.Context, string, string) (decimal.Decimal, error) {
	c.calls++
	return c.rate, c.err
}

// failingBankLinks fails every credit.
type failingBankLinks struct {
	*memory.BankLinkRepository
}

func (failingBankLinks) CreditBankLink(context.Context, string, decimal.Decimal) error {
	return domain.Internal("credit bank link", errors.New("disk full"))
}

type fixture struct {
	wallets *memory.WalletRepository
	banks   *memory.BankLinkRepository
	rates   *countingRates
	metrics *metrics.WalletMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		wallets: memory.NewWalletRepository(),
		banks:   memory.NewBankLinkRepository(),
		rates:   &countingRates{rate: dec("90.5")},
		metrics: metrics.NewWalletMetrics(prometheus.NewRegistry()),
	}
	_, err := f.wallets.CreateWallet(ctx, "u1", []string{"USD", "EUR", "INR"})
	require.NoError(t, err)
	require.NoError(t, f.banks.CreateBankLink(ctx, &domain.BankLink{ID: "b1", OwnerID: "u1", BankName: "Acme Bank"}))
	return f
}

func (f *fixture) usecase(banks domain.BankLinkRepository) *DefaultSettlementUsecase {
	if banks == nil {
		banks = f.banks
	}
	return NewDefaultSettlementUsecase(f.wallets, banks, f.rates, usecase.NewOwnerLocks(),
		Config{HomeCurrency: "inr", AmountScale: 2, CompensateTimeout: time.Second}, nil, f.metrics)
}

func (f *fixture) bankBalance(t *testing.T) decimal.Decimal {
	t.Helper()
	link, err := f.banks.GetBankLinkByName(context.Background(), "u1", "Acme Bank")
	require.NoError(t, err)
	return link.Balance
}

func TestReturnMoney_ZeroBalanceIsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.usecase(nil).ReturnMoney(context.Background(), &settlementdto.ReturnMoneyInput{
		OwnerID: "u1", BankName: "Acme Bank", Currency: "EUR",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "no convertible balance available for EUR")
	assert.Equal(t, 0, f.rates.calls)
	assert.True(t, f.bankBalance(t).IsZero())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.SettlementsTotal.WithLabelValues("EUR", metrics.ResultRejected)))
}

func TestReturnMoney_ConvertsWholeBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.wallets.Credit(ctx, "u1", "EUR", dec("10")))

	out, err := f.usecase(nil).ReturnMoney(ctx, &settlementdto.ReturnMoneyInput{
		OwnerID: "u1", BankName: "acme BANK", Currency: "eur",
	})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "905", out.ConvertedAmount.String())
	assert.Equal(t, "INR", out.HomeCurrency)

	bal, err := f.wallets.Balance(ctx, "u1", "EUR")
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
	assert.Equal(t, "905", f.bankBalance(t).String())
	assert.Equal(t, 1, f.rates.calls)
}

func TestReturnMoney_HomeCurrencySkipsRateCall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.wallets.Credit(ctx, "u1", "INR", dec("1500.25")))

	out, err := f.usecase(nil).ReturnMoney(ctx, &settlementdto.ReturnMoneyInput{
		OwnerID: "u1", BankName: "Acme Bank", Currency: "INR",
	})
	require.NoError(t, err)
	assert.Equal(t, "1500.25", out.ConvertedAmount.String())
	assert.Equal(t, 0, f.rates.calls)
}

func TestReturnMoney_UnknownBankMutatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.wallets.Credit(ctx, "u1", "USD", dec("5")))

	_, err := f.usecase(nil).ReturnMoney(ctx, &settlementdto.ReturnMoneyInput{
		OwnerID: "u1", BankName: "Nope Bank", Currency: "USD",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	bal, _ := f.wallets.Balance(ctx, "u1", "USD")
	assert.Equal(t, "5", bal.String())
	assert.Equal(t, 0, f.rates.calls)
}

func TestReturnMoney_UpstreamFailureMutatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.wallets.Credit(ctx, "u1", "USD", dec("5")))
	f.rates.err = domain.Errorf(domain.ErrUpstream, "rate provider unavailable")

	_, err := f.usecase(nil).ReturnMoney(ctx, &settlementdto.ReturnMoneyInput{
		OwnerID: "u1", BankName: "Acme Bank", Currency: "USD",
	})
	require.ErrorIs(t, err, domain.ErrUpstream)

	bal, _ := f.wallets.Balance(ctx, "u1", "USD")
	assert.Equal(t, "5", bal.String())
}

func TestReturnMoney_BankCreditFailureRestoresSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.wallets.Credit(ctx, "u1", "USD", dec("5")))

	_, err := f.usecase(failingBankLinks{f.banks}).ReturnMoney(ctx, &settlementdto.ReturnMoneyInput{
		OwnerID: "u1", BankName: "Acme Bank", Currency: "USD",
	})
	require.ErrorIs(t, err, domain.ErrInternal)

	bal, _ := f.wallets.Balance(ctx, "u1", "USD")
	assert.Equal(t, "5", bal.String())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CompensationsTotal.WithLabelValues("wallet_restore", metrics.ResultSuccess)))
}

func TestReturnMoney_MissingWallet(t *testing.T) {
	f := newFixture(t)
	_, err := f.usecase(nil).ReturnMoney(context.Background(), &settlementdto.ReturnMoneyInput{
		OwnerID: "ghost", BankName: "Acme Bank", Currency: "USD",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
