// internal/usecase/exchange_rate_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/cache"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

const currenciesCacheKey = "currencies"

type ExchangeRateService interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
	Currencies(ctx context.Context) (map[string]domain.CurrencyInfo, error)
	ProviderName() string
}

// SharedRateCache is a cross-instance rate cache (Redis in production).
// GetRate also reports how long the entry has left to live; zero or less
// means the lifetime is unknown.
type SharedRateCache interface {
	GetRate(ctx context.Context, from, to string) (decimal.Decimal, time.Duration, bool, error)
	SetRate(ctx context.Context, from, to string, rate decimal.Decimal) error
}

type RateGatewayConfig struct {
	Timeout       time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	RateTTL       time.Duration
	RateCacheSize int
	CurrencyTTL   time.Duration
}

type DefaultExchangeRateService struct {
	provider   domain.ExchangeRateProvider
	cfg        RateGatewayConfig
	rates      *cache.TTLCache[string, decimal.Decimal]
	currencies *cache.TTLCache[string, map[string]domain.CurrencyInfo]
	shared     SharedRateCache
	metrics    *metrics.WalletMetrics
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

type RateServiceOption func(*rateServiceOptions)

type rateServiceOptions struct {
	shared  SharedRateCache
	metrics *metrics.WalletMetrics
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

func WithSharedRateCache(shared SharedRateCache) RateServiceOption {
	return func(o *rateServiceOptions) { o.shared = shared }
}

func WithRateMetrics(m *metrics.WalletMetrics) RateServiceOption {
	return func(o *rateServiceOptions) { o.metrics = m }
}

func WithRateClock(now func() time.Time) RateServiceOption {
	return func(o *rateServiceOptions) { o.now = now }
}

func WithRetrySleep(sleep func(ctx context.Context, d time.Duration) error) RateServiceOption {
	return func(o *rateServiceOptions) { o.sleep = sleep }
}

func NewDefaultExchangeRateService(provider domain.ExchangeRateProvider, cfg RateGatewayConfig, opts ...RateServiceOption) *DefaultExchangeRateService {
	o := rateServiceOptions{now: time.Now, sleep: sleepContext}
	for _, opt := range opts {
		opt(&o)
	}

	return &DefaultExchangeRateService{
		provider:   provider,
		cfg:        cfg,
		rates:      cache.NewTTLCache[string, decimal.Decimal](cfg.RateCacheSize, cfg.RateTTL, cache.WithClock(o.now)),
		currencies: cache.NewTTLCache[string, map[string]domain.CurrencyInfo](1, cfg.CurrencyTTL, cache.WithClock(o.now)),
		shared:     o.shared,
		metrics:    o.metrics,
		now:        o.now,
		sleep:      o.sleep,
	}
}

func (s *DefaultExchangeRateService) ProviderName() string {
	return s.provider.GetName()
}

// Rate returns a positive rate for from/to or an ErrUpstream error. It never
// falls back to a default rate.
func (s *DefaultExchangeRateService) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = domain.NormalizeCurrency(from), domain.NormalizeCurrency(to)
	cacheKey := fmt.Sprintf("%s/%s", from, to)

	if rate, ok := s.rates.Get(cacheKey); ok {
		s.metrics.RecordCacheLookup("rate", true)
		return rate, nil
	}
	s.metrics.RecordCacheLookup("rate", false)

	if s.shared != nil {
		rate, remaining, ok, err := s.shared.GetRate(ctx, from, to)
		switch {
		case err != nil:
			slog.Warn("shared rate cache read failed", "pair", cacheKey, "error", err)
		case ok:
			s.metrics.RecordCacheLookup("shared", true)
			s.keepShared(cacheKey, rate, remaining)
			return rate, nil
		default:
			s.metrics.RecordCacheLookup("shared", false)
		}
	}

	var rate decimal.Decimal
	err := s.callUpstream(ctx, "rate", func(ctx context.Context) error {
		r, err := s.provider.GetRate(ctx, from, to)
		if err != nil {
			return err
		}
		if !r.IsPositive() {
			return fmt.Errorf("non-positive rate %s", r)
		}
		rate = r
		return nil
	})
	if err != nil {
		slog.Error("rate lookup failed", "pair", cacheKey, "provider", s.provider.GetName(), "error", err)
		return decimal.Zero, domain.Errorf(domain.ErrUpstream, "rate provider unavailable for %s: %v", cacheKey, err)
	}

	s.rates.Set(cacheKey, rate)
	if s.shared != nil {
		if err := s.shared.SetRate(ctx, from, to, rate); err != nil {
			slog.Warn("shared rate cache write failed", "pair", cacheKey, "error", err)
		}
	}
	return rate, nil
}

// keepShared copies a shared-cache hit into the local cache stamped with the
// time it was originally fetched, so the local copy expires with the shared
// one. Entries without a known lifetime are not kept.
func (s *DefaultExchangeRateService) keepShared(cacheKey string, rate decimal.Decimal, remaining time.Duration) {
	if remaining <= 0 {
		return
	}
	if remaining > s.cfg.RateTTL {
		remaining = s.cfg.RateTTL
	}
	s.rates.SetAt(cacheKey, rate, s.now().Add(remaining-s.cfg.RateTTL))
}

// Currencies returns supported-currency metadata, memoized for CurrencyTTL.
func (s *DefaultExchangeRateService) Currencies(ctx context.Context) (map[string]domain.CurrencyInfo, error) {
	currencies, hit, err := s.currencies.GetOrLoad(currenciesCacheKey, func() (map[string]domain.CurrencyInfo, error) {
		var loaded map[string]domain.CurrencyInfo
		err := s.callUpstream(ctx, "currencies", func(ctx context.Context) error {
			c, err := s.provider.GetCurrencies(ctx)
			if err != nil {
				return err
			}
			loaded = c
			return nil
		})
		return loaded, err
	})
	s.metrics.RecordCacheLookup("currencies", hit)
	if err != nil {
		slog.Error("currency metadata lookup failed", "provider", s.provider.GetName(), "error", err)
		return nil, domain.Errorf(domain.ErrUpstream, "failed to fetch supported currencies: %v", err)
	}
	return currencies, nil
}

// callUpstream runs call with a per-attempt timeout and retries transient
// failures with linear backoff.
func (s *DefaultExchangeRateService) callUpstream(ctx context.Context, op string, call func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if sleepErr := s.sleep(ctx, time.Duration(attempt)*s.cfg.RetryBackoff); sleepErr != nil {
				return err
			}
		}

		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if s.cfg.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		}
		started := time.Now()
		err = call(callCtx)
		cancel()

		if err == nil {
			s.metrics.RecordRateRequest(s.provider.GetName(), metrics.ResultSuccess, time.Since(started).Seconds())
			return nil
		}
		s.metrics.RecordRateRequest(s.provider.GetName(), metrics.ResultFailed, time.Since(started).Seconds())

		if ctx.Err() != nil || !isTransient(err) {
			return err
		}
		slog.Warn("upstream call failed, retrying", "op", op, "attempt", attempt+1, "error", err)
	}
	return err
}

func isTransient(err error) bool {
	var retryable interface{ Retryable() bool }
	if errors.As(err, &retryable) {
		return retryable.Retryable()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
