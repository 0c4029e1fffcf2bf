// internal/infrastructure/exchange_providers/freecurrency_provider.go
package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/shopspring/decimal"
)

// StatusError is returned when the pricing API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("currency API returned status: %d", e.StatusCode)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type FreeCurrencyProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

type latestResponse struct {
	Data map[string]decimal.Decimal `json:"data"`
}

type currencyItem struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	SymbolNative  string `json:"symbol_native"`
	DecimalDigits int32  `json:"decimal_digits"`
	Rounding      int32  `json:"rounding"`
	Code          string `json:"code"`
	NamePlural    string `json:"name_plural"`
}

type currenciesResponse struct {
	Data map[string]currencyItem `json:"data"`
}

// NewFreeCurrencyProvider talks to a freecurrencyapi.com v1 compatible API.
// The http client timeout is a backstop; callers bound each call with ctx.
func NewFreeCurrencyProvider(baseURL, apiKey string, timeout time.Duration) *FreeCurrencyProvider {
	return &FreeCurrencyProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (p *FreeCurrencyProvider) GetName() string {
	return "freecurrencyapi"
}

func (p *FreeCurrencyProvider) GetRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("apikey", p.apiKey)
	params.Set("base_currency", from)
	params.Set("currencies", to)

	var body latestResponse
	if err := p.get(ctx, "/latest", params, &body); err != nil {
		return decimal.Zero, err
	}

	rate, ok := body.Data[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("rate %s/%s missing in response", from, to)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive rate %s for %s/%s", rate, from, to)
	}
	return rate, nil
}

func (p *FreeCurrencyProvider) GetCurrencies(ctx context.Context) (map[string]domain.CurrencyInfo, error) {
	params := url.Values{}
	params.Set("apikey", p.apiKey)

	var body currenciesResponse
	if err := p.get(ctx, "/currencies", params, &body); err != nil {
		return nil, err
	}

	currencies := make(map[string]domain.CurrencyInfo, len(body.Data))
	for code, item := range body.Data {
		code = domain.NormalizeCurrency(code)
		currencies[code] = domain.CurrencyInfo{
			Code:          code,
			Name:          item.Name,
			NamePlural:    item.NamePlural,
			Symbol:        item.Symbol,
			SymbolNative:  item.SymbolNative,
			DecimalDigits: item.DecimalDigits,
		}
	}
	return currencies, nil
}

func (p *FreeCurrencyProvider) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s%s?%s", p.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call currency API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse currency API response: %w", err)
	}
	return nil
}
