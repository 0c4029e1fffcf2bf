package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRate_ParsesLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		assert.Equal(t, "USD", r.URL.Query().Get("base_currency"))
		assert.Equal(t, "EUR", r.URL.Query().Get("currencies"))
		_, _ = w.Write([]byte(`{"data":{"EUR":0.9}}`))
	}))
	defer srv.Close()

	p := NewFreeCurrencyProvider(srv.URL+"/", "secret", time.Second)
	rate, err := p.GetRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "0.9", rate.String())
}

func TestGetRate_MissingCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	p := NewFreeCurrencyProvider(srv.URL, "k", time.Second)
	_, err := p.GetRate(context.Background(), "USD", "EUR")
	assert.ErrorContains(t, err, "missing")
}

func TestGetRate_NonPositiveRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"EUR":0}}`))
	}))
	defer srv.Close()

	p := NewFreeCurrencyProvider(srv.URL, "k", time.Second)
	_, err := p.GetRate(context.Background(), "USD", "EUR")
	assert.ErrorContains(t, err, "non-positive")
}

func TestGetRate_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewFreeCurrencyProvider(srv.URL, "k", time.Second)
	_, err := p.GetRate(context.Background(), "USD", "EUR")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.True(t, statusErr.Retryable())
}

func TestGetCurrencies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/currencies", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"JPY":{"symbol":"¥","name":"Japanese Yen","symbol_native":"￥","decimal_digits":0,"rounding":0,"code":"JPY","name_plural":"Japanese yen"}}}`))
	}))
	defer srv.Close()

	p := NewFreeCurrencyProvider(srv.URL, "k", time.Second)
	currencies, err := p.GetCurrencies(context.Background())
	require.NoError(t, err)
	require.Contains(t, currencies, "JPY")
	assert.Equal(t, int32(0), currencies["JPY"].DecimalDigits)
	assert.Equal(t, "Japanese Yen", currencies["JPY"].Name)
}
