package exchange

import (
	"context"
	"strings"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase"
	exchangedto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/exchange"
	"github.com/shopspring/decimal"
)

const (
	kindQuote  = "quote"
	kindCommit = "commit"

	deliveryDigital  = "digital"
	deliveryPhysical = "delivery"

	operationExchange = "exchange"
)

type ExchangeUsecase interface {
	Exchange(ctx context.Context, input *exchangedto.ExchangeInput) (*exchangedto.ExchangeOutput, error)
}

// EventPublisher announces committed transactions.
type EventPublisher interface {
	PublishTransactionCommitted(ctx context.Context, tx *domain.Transaction) error
}

// StateHook observes every state a run enters.
type StateHook func(ownerID string, state State)

type Config struct {
	// AmountScale is the number of decimal places converted amounts are rounded to.
	AmountScale       int32
	CompensateTimeout time.Duration
	PublishTimeout    time.Duration
}

type DefaultExchangeUsecase struct {
	walletRepo domain.WalletRepository
	poolRepo   domain.PoolRepository
	ledger     usecase.LedgerUsecase
	rates      domain.RateSource
	locks      *usecase.OwnerLocks
	cfg        Config

	audit   domain.AuditLogger
	events  EventPublisher
	metrics *metrics.WalletMetrics
	hook    StateHook
}

type Option func(*DefaultExchangeUsecase)

func WithAuditLogger(audit domain.AuditLogger) Option {
	return func(uc *DefaultExchangeUsecase) { uc.audit = audit }
}

func WithEventPublisher(events EventPublisher) Option {
	return func(uc *DefaultExchangeUsecase) { uc.events = events }
}

func WithMetrics(m *metrics.WalletMetrics) Option {
	return func(uc *DefaultExchangeUsecase) { uc.metrics = m }
}

func WithStateHook(hook StateHook) Option {
	return func(uc *DefaultExchangeUsecase) { uc.hook = hook }
}

func NewDefaultExchangeUsecase(
	walletRepo domain.WalletRepository,
	poolRepo domain.PoolRepository,
	ledger usecase.LedgerUsecase,
	rates domain.RateSource,
	locks *usecase.OwnerLocks,
	cfg Config,
	opts ...Option,
) *DefaultExchangeUsecase {
	if cfg.CompensateTimeout <= 0 {
		cfg.CompensateTimeout = 10 * time.Second
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 10 * time.Second
	}
	uc := &DefaultExchangeUsecase{
		walletRepo: walletRepo,
		poolRepo:   poolRepo,
		ledger:     ledger,
		rates:      rates,
		locks:      locks,
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// request is a validated ExchangeInput.
type request struct {
	ownerID  string
	from     string
	to       string
	amount   decimal.Decimal
	confirm  bool
	address  *string
	digital  bool
	delivery string
}

func (r *request) physical() bool { return r.address != nil }

func (r *request) kind() string {
	if r.confirm {
		return kindCommit
	}
	return kindQuote
}

func (uc *DefaultExchangeUsecase) Exchange(ctx context.Context, input *exchangedto.ExchangeInput) (*exchangedto.ExchangeOutput, error) {
	req := normalize(input)
	r := newRun(req.ownerID, uc.hook)

	if err := uc.validate(ctx, req); err != nil {
		return nil, uc.reject(ctx, r, req, err)
	}
	r.to(StateValidated)

	// Rate is fetched before any lock or mutation.
	rate, err := uc.rates.Rate(ctx, req.from, req.to)
	if err != nil {
		return nil, uc.reject(ctx, r, req, err)
	}
	toAmount := req.amount.Mul(rate).Round(uc.cfg.AmountScale)
	if !toAmount.IsPositive() {
		return nil, uc.reject(ctx, r, req, domain.Errorf(domain.ErrValidation,
			"converted amount rounds to zero: %s %s at rate %s", req.amount, req.from, rate))
	}

	if !req.confirm {
		r.to(StateQuoted)
		uc.metrics.RecordExchange(kindQuote, req.delivery, metrics.ResultSuccess)
		return &exchangedto.ExchangeOutput{Quote: &exchangedto.Quote{
			FromCurrency:    req.from,
			ToCurrency:      req.to,
			Rate:            rate,
			FromAmount:      req.amount,
			ToAmount:        toAmount,
			Delivery:        req.address,
			DigitalDelivery: req.digital,
		}}, nil
	}

	commit, err := uc.settle(ctx, r, req, rate, toAmount)
	if err != nil {
		return nil, err
	}
	return &exchangedto.ExchangeOutput{Commit: commit}, nil
}

func normalize(input *exchangedto.ExchangeInput) *request {
	req := &request{
		ownerID:  strings.TrimSpace(input.OwnerID),
		from:     domain.NormalizeCurrency(input.FromCurrency),
		to:       domain.NormalizeCurrency(input.ToCurrency),
		amount:   input.Amount,
		confirm:  input.Confirm,
		digital:  input.DigitalDelivery,
		delivery: deliveryDigital,
	}
	if input.DeliveryAddress != nil {
		if address := strings.TrimSpace(*input.DeliveryAddress); address != "" {
			req.address = &address
			req.delivery = deliveryPhysical
		}
	}
	return req
}

// validate runs every check that can fail without mutating anything.
func (uc *DefaultExchangeUsecase) validate(ctx context.Context, req *request) error {
	if req.ownerID == "" {
		return domain.Errorf(domain.ErrValidation, "uid is required")
	}
	if err := domain.ValidateCurrency(req.from); err != nil {
		return err
	}
	if err := domain.ValidateCurrency(req.to); err != nil {
		return err
	}
	if req.from == req.to {
		return domain.Errorf(domain.ErrValidation, "fromCurrency and toCurrency must differ")
	}
	if err := domain.RequirePositive(req.amount); err != nil {
		return err
	}

	balance, err := uc.walletRepo.Balance(ctx, req.ownerID, req.from)
	if err != nil {
		return err
	}
	if balance.LessThan(req.amount) {
		return domain.Errorf(domain.ErrInsufficientFunds,
			"insufficient %s balance: have %s, need %s", req.from, balance, req.amount)
	}
	return nil
}
