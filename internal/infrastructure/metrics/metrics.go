package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
	ResultHit      = "hit"
	ResultMiss     = "miss"
)

// WalletMetrics holds the service's Prometheus collectors. A nil
// *WalletMetrics is valid and records nothing.
type WalletMetrics struct {
	// Конвертации: котировки и подтверждённые сделки
	ExchangesTotal      *prometheus.CounterVec
	ExchangeAmountTotal *prometheus.CounterVec
	CompensationsTotal  *prometheus.CounterVec

	// Вывод на банковский счёт
	SettlementsTotal      *prometheus.CounterVec
	SettlementAmountTotal *prometheus.CounterVec

	// Курсы
	RateRequestsTotal   *prometheus.CounterVec
	RateRequestDuration *prometheus.HistogramVec
	RateCacheLookups    *prometheus.CounterVec

	PoolBalance *prometheus.GaugeVec
}

func NewWalletMetrics(reg prometheus.Registerer) *WalletMetrics {
	factory := promauto.With(reg)

	return &WalletMetrics{
		ExchangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_exchanges_total",
				Help: "Exchange requests by kind (quote/commit), delivery mode and result",
			},
			[]string{"kind", "delivery", "result"},
		),
		ExchangeAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_exchange_amount_total",
				Help: "Committed exchange volume in source currency units",
			},
			[]string{"from_currency", "to_currency"},
		),
		CompensationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_compensations_total",
				Help: "Compensating mutations applied after a failed settlement step",
			},
			[]string{"step", "result"},
		),
		SettlementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_settlements_total",
				Help: "Return-money settlements by source currency and result",
			},
			[]string{"currency", "result"},
		),
		SettlementAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_settlement_amount_total",
				Help: "Amount credited to linked bank accounts in home currency",
			},
			[]string{"home_currency"},
		),
		RateRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_gateway_requests_total",
				Help: "Upstream pricing calls by provider and result",
			},
			[]string{"provider", "result"},
		),
		RateRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rate_gateway_request_duration_seconds",
				Help:    "Upstream pricing call latency",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms, 20ms, 40ms...
			},
			[]string{"provider"},
		),
		RateCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_gateway_cache_lookups_total",
				Help: "Rate gateway cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
		PoolBalance: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "liquidity_pool_balance",
				Help: "Liquidity pool reserve per currency",
			},
			[]string{"currency"},
		),
	}
}

func (m *WalletMetrics) RecordExchange(kind, delivery, result string) {
	if m == nil {
		return
	}
	m.ExchangesTotal.WithLabelValues(kind, delivery, result).Inc()
}

func (m *WalletMetrics) RecordExchangeAmount(from, to string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.ExchangeAmountTotal.WithLabelValues(from, to).Add(amount.InexactFloat64())
}

func (m *WalletMetrics) RecordCompensation(step, result string) {
	if m == nil {
		return
	}
	m.CompensationsTotal.WithLabelValues(step, result).Inc()
}

func (m *WalletMetrics) RecordSettlement(currency, result string) {
	if m == nil {
		return
	}
	m.SettlementsTotal.WithLabelValues(currency, result).Inc()
}

func (m *WalletMetrics) RecordSettlementAmount(homeCurrency string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.SettlementAmountTotal.WithLabelValues(homeCurrency).Add(amount.InexactFloat64())
}

func (m *WalletMetrics) RecordRateRequest(provider, result string, seconds float64) {
	if m == nil {
		return
	}
	m.RateRequestsTotal.WithLabelValues(provider, result).Inc()
	m.RateRequestDuration.WithLabelValues(provider).Observe(seconds)
}

func (m *WalletMetrics) RecordCacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.RateCacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *WalletMetrics) SetPoolBalance(currency string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.PoolBalance.WithLabelValues(currency).Set(amount.InexactFloat64())
}
