package exchange

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase"
	exchangedto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

type fixedRates struct {
	mu    sync.Mutex
	rates map[string]decimal.Decimal
	err   error
	calls int
}

func (f *fixedRates) Rate(_ context.Context, from, to string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	rate, ok := f.rates[from+"/"+to]
	if !ok {
		return decimal.Zero, domain.Errorf(domain.ErrUpstream, "no rate for %s/%s", from, to)
	}
	return rate, nil
}

// MockLedger is a mock implementation of usecase.LedgerUsecase
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Append(ctx context.Context, tx *domain.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockLedger) History(ctx context.Context, ownerID string) ([]*domain.Transaction, error) {
	args := m.Called(ctx, ownerID)
	return nil, args.Error(1)
}

type captureAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (c *captureAudit) LogSettlementEvent(_ context.Context, event domain.AuditEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *captureAudit) stages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Stage+":"+e.Details["step"])
	}
	return out
}

type chanPublisher struct {
	ch chan *domain.Transaction
}

func (p *chanPublisher) PublishTransactionCommitted(_ context.Context, tx *domain.Transaction) error {
	p.ch <- tx
	return nil
}

type fixture struct {
	wallets *memory.WalletRepository
	pool    *memory.PoolRepository
	txs     *memory.TransactionRepository
	rates   *fixedRates
	audit   *captureAudit
	events  *chanPublisher
	states  []State
	uc      *DefaultExchangeUsecase
}

func newFixture(t *testing.T, ledger usecase.LedgerUsecase) *fixture {
	t.Helper()
	f := &fixture{
		wallets: memory.NewWalletRepository(),
		pool:    memory.NewPoolRepository(),
		txs:     memory.NewTransactionRepository(),
		rates:   &fixedRates{rates: map[string]decimal.Decimal{"USD/EUR": dec("0.9")}},
		audit:   &captureAudit{},
		events:  &chanPublisher{ch: make(chan *domain.Transaction, 16)},
	}
	if ledger == nil {
		ledger = usecase.NewDefaultLedgerUsecase(f.txs)
	}
	f.uc = NewDefaultExchangeUsecase(
		f.wallets, f.pool, ledger, f.rates, usecase.NewOwnerLocks(),
		Config{AmountScale: 2, CompensateTimeout: time.Second},
		WithAuditLogger(f.audit),
		WithEventPublisher(f.events),
		WithStateHook(func(_ string, s State) { f.states = append(f.states, s) }),
	)

	ctx := context.Background()
	_, err := f.wallets.CreateWallet(ctx, "u1", []string{"USD"})
	require.NoError(t, err)
	require.NoError(t, f.wallets.Credit(ctx, "u1", "USD", dec("100")))
	return f
}

func (f *fixture) wallet(t *testing.T) *domain.Wallet {
	t.Helper()
	w, err := f.wallets.GetWallet(context.Background(), "u1")
	require.NoError(t, err)
	return w
}

func (f *fixture) initPool(t *testing.T, reserve map[string]decimal.Decimal) {
	t.Helper()
	_, err := f.pool.InitPool(context.Background(), reserve)
	require.NoError(t, err)
}

func (f *fixture) poolAmount(t *testing.T, currency string) decimal.Decimal {
	t.Helper()
	bal, err := f.pool.Balance(context.Background(), currency)
	require.NoError(t, err)
	return bal
}

func exchangeInput(confirm bool, address *string) *exchangedto.ExchangeInput {
	return &exchangedto.ExchangeInput{
		OwnerID:         "u1",
		FromCurrency:    "usd",
		ToCurrency:      "eur",
		Amount:          dec("50"),
		Confirm:         confirm,
		DeliveryAddress: address,
	}
}

func TestExchange_QuoteMutatesNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.initPool(t, map[string]decimal.Decimal{"EUR": dec("1000")})

	for i := 0; i < 3; i++ {
		out, err := f.uc.Exchange(context.Background(), exchangeInput(false, strPtr("1 Main St")))
		require.NoError(t, err)
		require.NotNil(t, out.Quote)
		assert.Nil(t, out.Commit)
		assert.Equal(t, "45", out.Quote.ToAmount.String())
		assert.Equal(t, "0.9", out.Quote.Rate.String())
		assert.Equal(t, "1 Main St", *out.Quote.Delivery)
	}

	w := f.wallet(t)
	assert.Equal(t, "100", w.Amount("USD").String())
	assert.Len(t, w.Balances, 1)
	assert.Equal(t, "1000", f.poolAmount(t, "EUR").String())
	assert.True(t, f.poolAmount(t, "USD").IsZero())
	assert.Equal(t, 0, f.txs.Len())
	assert.Equal(t, []State{StateRequested, StateValidated, StateQuoted}, f.states[:3])
}

func TestExchange_DigitalCommit(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.uc.Exchange(context.Background(), exchangeInput(true, nil))
	require.NoError(t, err)
	require.NotNil(t, out.Commit)
	assert.True(t, out.Commit.Success)
	assert.NotEmpty(t, out.Commit.TransactionID)

	w := f.wallet(t)
	assert.Equal(t, "50", w.Amount("USD").String())
	assert.Equal(t, "45", w.Amount("EUR").String())

	history, err := f.txs.GetTransactionsByOwnerID(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Delivered)
	assert.True(t, history[0].Confirmed)
	assert.Equal(t, domain.TransactionStatusCompleted, history[0].Status)
	assert.Equal(t, out.Commit.TransactionID, history[0].ID)
	assert.Equal(t, []State{StateRequested, StateValidated, StateSettling, StateCommitted}, f.states)

	select {
	case tx := <-f.events.ch:
		assert.Equal(t, history[0].ID, tx.ID)
	case <-time.After(time.Second):
		t.Fatal("transaction event was not published")
	}
}

func TestExchange_DeliveryCommitGoesThroughPool(t *testing.T) {
	f := newFixture(t, nil)
	f.initPool(t, map[string]decimal.Decimal{"EUR": dec("1000"), "USD": decimal.Zero})

	out, err := f.uc.Exchange(context.Background(), exchangeInput(true, strPtr("221B Baker St")))
	require.NoError(t, err)
	require.NotNil(t, out.Commit)

	assert.Equal(t, "955", f.poolAmount(t, "EUR").String())
	assert.Equal(t, "50", f.poolAmount(t, "USD").String())

	w := f.wallet(t)
	assert.Equal(t, "50", w.Amount("USD").String())
	assert.True(t, w.Amount("EUR").IsZero())

	history, err := f.txs.GetTransactionsByOwnerID(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Delivered)
	assert.Equal(t, "221B Baker St", *history[0].DeliveryAddress)
}

func TestExchange_PoolShortfallIsCompensated(t *testing.T) {
	f := newFixture(t, nil)
	f.initPool(t, map[string]decimal.Decimal{"EUR": dec("10")})

	_, err := f.uc.Exchange(context.Background(), exchangeInput(true, strPtr("221B Baker St")))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.Equal(t, "100", f.wallet(t).Amount("USD").String())
	assert.Equal(t, "10", f.poolAmount(t, "EUR").String())
	assert.True(t, f.poolAmount(t, "USD").IsZero())
	assert.Equal(t, 0, f.txs.Len())

	assert.Equal(t, []string{
		domain.AuditStageCompensated + ":wallet_refund",
		domain.AuditStageRejected + ":",
	}, f.audit.stages())
	assert.Equal(t, StateRejected, f.states[len(f.states)-1])
}

func TestExchange_MissingPoolIsCompensated(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.uc.Exchange(context.Background(), exchangeInput(true, strPtr("221B Baker St")))
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "100", f.wallet(t).Amount("USD").String())
}

func TestExchange_LedgerFailureIsCompensated(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("Append", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	f := newFixture(t, ledger)

	_, err := f.uc.Exchange(context.Background(), exchangeInput(true, nil))
	require.ErrorIs(t, err, domain.ErrInternal)
	assert.Contains(t, err.Error(), "append transaction")

	w := f.wallet(t)
	assert.Equal(t, "100", w.Amount("USD").String())
	assert.True(t, w.Amount("EUR").IsZero())
	ledger.AssertNumberOfCalls(t, "Append", 1)
	assert.Contains(t, f.audit.stages(), domain.AuditStageCompensated+":wallet_reverse_credit")
}

func TestExchange_CompensationSurvivesRequestCancellation(t *testing.T) {
	ledger := new(MockLedger)
	ctx, cancel := context.WithCancel(context.Background())
	ledger.On("Append", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(context.Canceled)
	f := newFixture(t, ledger)

	_, err := f.uc.Exchange(ctx, exchangeInput(true, nil))
	require.ErrorIs(t, err, domain.ErrInternal)
	assert.Equal(t, "100", f.wallet(t).Amount("USD").String())
}

func TestExchange_PoolReversalIsAtomic(t *testing.T) {
	ledger := new(MockLedger)
	f := newFixture(t, ledger)
	f.initPool(t, map[string]decimal.Decimal{"EUR": dec("1000")})
	// another buyer takes the USD the swap just added before the ledger fails
	ledger.On("Append", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			require.NoError(t, f.pool.Debit(context.Background(), "USD", dec("50")))
		}).
		Return(errors.New("connection reset"))

	_, err := f.uc.Exchange(context.Background(), exchangeInput(true, strPtr("221B Baker St")))
	require.ErrorIs(t, err, domain.ErrInternal)

	// the reversal could not apply, so nothing is refunded on top of it
	assert.Equal(t, "955", f.poolAmount(t, "EUR").String())
	assert.True(t, f.poolAmount(t, "USD").IsZero())
	assert.Equal(t, "50", f.wallet(t).Amount("USD").String())
	assert.Equal(t, []string{
		domain.AuditStageCompensationFailed + ":pool_reverse_swap",
		domain.AuditStageRejected + ":",
	}, f.audit.stages())
}

func TestExchange_PoolReversalRestoresBothSlots(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("Append", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	f := newFixture(t, ledger)
	f.initPool(t, map[string]decimal.Decimal{"EUR": dec("1000")})

	_, err := f.uc.Exchange(context.Background(), exchangeInput(true, strPtr("221B Baker St")))
	require.ErrorIs(t, err, domain.ErrInternal)

	assert.Equal(t, "1000", f.poolAmount(t, "EUR").String())
	assert.True(t, f.poolAmount(t, "USD").IsZero())
	assert.Equal(t, "100", f.wallet(t).Amount("USD").String())
	assert.Equal(t, []string{
		domain.AuditStageCompensated + ":pool_reverse_swap",
		domain.AuditStageCompensated + ":wallet_refund",
		domain.AuditStageRejected + ":",
	}, f.audit.stages())
}

func TestExchange_RejectedBeforeMutation(t *testing.T) {
	cases := []struct {
		name  string
		input func() *exchangedto.ExchangeInput
		kind  error
	}{
		{"identity conversion", func() *exchangedto.ExchangeInput {
			in := exchangeInput(true, nil)
			in.ToCurrency = "USD"
			return in
		}, domain.ErrValidation},
		{"non-positive amount", func() *exchangedto.ExchangeInput {
			in := exchangeInput(true, nil)
			in.Amount = dec("-5")
			return in
		}, domain.ErrValidation},
		{"bad currency", func() *exchangedto.ExchangeInput {
			in := exchangeInput(true, nil)
			in.FromCurrency = "US"
			return in
		}, domain.ErrValidation},
		{"missing uid", func() *exchangedto.ExchangeInput {
			in := exchangeInput(true, nil)
			in.OwnerID = " "
			return in
		}, domain.ErrValidation},
		{"insufficient balance", func() *exchangedto.ExchangeInput {
			in := exchangeInput(true, nil)
			in.Amount = dec("100.01")
			return in
		}, domain.ErrInsufficientFunds},
		{"missing wallet", func() *exchangedto.ExchangeInput {
			in := exchangeInput(true, nil)
			in.OwnerID = "ghost"
			return in
		}, domain.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			_, err := f.uc.Exchange(context.Background(), tc.input())
			require.ErrorIs(t, err, tc.kind)
			assert.Equal(t, 0, f.rates.calls, "rate is not fetched for invalid input")
			assert.Equal(t, "100", f.wallet(t).Amount("USD").String())
			assert.Equal(t, []State{StateRequested, StateRejected}, f.states)
		})
	}
}

func TestExchange_UpstreamFailureAbortsBeforeMutation(t *testing.T) {
	f := newFixture(t, nil)
	f.rates.err = domain.Errorf(domain.ErrUpstream, "rate provider unavailable")

	_, err := f.uc.Exchange(context.Background(), exchangeInput(true, nil))
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, "100", f.wallet(t).Amount("USD").String())
	assert.Equal(t, 0, f.txs.Len())
}

func TestExchange_ConvertedAmountRoundingToZero(t *testing.T) {
	f := newFixture(t, nil)
	f.rates.rates["USD/EUR"] = dec("0.0001")

	in := exchangeInput(true, nil)
	in.Amount = dec("1")
	_, err := f.uc.Exchange(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "100", f.wallet(t).Amount("USD").String())
}

func TestExchange_ConcurrentCommitsNeverOverdraw(t *testing.T) {
	f := newFixture(t, nil)
	f.uc.hook = nil

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := exchangeInput(true, nil)
			in.Amount = dec("20")
			if _, err := f.uc.Exchange(context.Background(), in); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	w := f.wallet(t)
	assert.True(t, w.Amount("USD").IsZero())
	assert.Equal(t, "90", w.Amount("EUR").String())
	assert.Equal(t, 5, f.txs.Len())
}
