package usecase

import (
	"context"
	"testing"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	recommendationdto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/recommendation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChangers() []domain.MoneyChanger {
	return []domain.MoneyChanger{
		{ID: "mc1", Name: "Global Exchange", MarkupPercent: dec("2.5"), SupportedCurrencies: []string{"USD", "EUR", "GBP"}},
		{ID: "mc2", Name: "City Forex", MarkupPercent: dec("2.0"), SupportedCurrencies: []string{"usd", "eur"}},
		{ID: "mc3", Name: "Harbour Desk", MarkupPercent: dec("1.0"), SupportedCurrencies: []string{"USD", "SGD"}},
	}
}

func testCurrencies() map[string]domain.CurrencyInfo {
	return map[string]domain.CurrencyInfo{
		"USD": {Code: "USD", Symbol: "$", DecimalDigits: 2},
		"EUR": {Code: "EUR", Symbol: "€", DecimalDigits: 2},
		"JPY": {Code: "JPY", Symbol: "¥", DecimalDigits: 0},
	}
}

func TestRecommend_SortsByRateAndComputesSavings(t *testing.T) {
	rates := &stubRates{
		rates:      map[string]decimal.Decimal{"USD/EUR": dec("10")},
		currencies: testCurrencies(),
	}
	uc := NewDefaultRecommendationUsecase(rates, testChangers())

	out, err := uc.Recommend(context.Background(), &recommendationdto.RecommendationInput{
		FromCurrency: "usd",
		ToCurrency:   "eur",
		Amount:       dec("100"),
	})
	require.NoError(t, err)

	require.Len(t, out.Changers, 2, "changer without EUR is skipped")
	assert.Equal(t, "mc2", out.Changers[0].ID)
	assert.Equal(t, "10.2", out.Changers[0].Rate.String())
	assert.Equal(t, "1020", out.Changers[0].ConvertedAmount.String())
	assert.Equal(t, "5", out.Changers[0].SavingsVsHighest.String())

	assert.Equal(t, "mc1", out.Changers[1].ID)
	assert.Equal(t, "10.25", out.Changers[1].Rate.String())
	assert.True(t, out.Changers[1].SavingsVsHighest.IsZero())
	assert.Equal(t, "€", out.ToSymbol)
}

func TestRecommend_RoundsToTargetDigits(t *testing.T) {
	rates := &stubRates{
		rates:      map[string]decimal.Decimal{"USD/JPY": dec("151.37")},
		currencies: testCurrencies(),
	}
	changers := []domain.MoneyChanger{{ID: "mc1", MarkupPercent: dec("2.5"), SupportedCurrencies: []string{"USD", "JPY"}}}
	uc := NewDefaultRecommendationUsecase(rates, changers)

	out, err := uc.Recommend(context.Background(), &recommendationdto.RecommendationInput{
		FromCurrency: "USD", ToCurrency: "JPY", Amount: dec("10"),
	})
	require.NoError(t, err)
	require.Len(t, out.Changers, 1)
	// 151.37 * 1.025 = 155.15425
	assert.Equal(t, "155", out.Changers[0].Rate.String())
	assert.Equal(t, "1552", out.Changers[0].ConvertedAmount.String())
}

func TestRecommend_UnsupportedCurrency(t *testing.T) {
	rates := &stubRates{currencies: testCurrencies()}
	uc := NewDefaultRecommendationUsecase(rates, testChangers())

	_, err := uc.Recommend(context.Background(), &recommendationdto.RecommendationInput{
		FromCurrency: "USD", ToCurrency: "XYZ", Amount: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, rates.calls)
}

func TestRecommend_UpstreamFailure(t *testing.T) {
	rates := &stubRates{currencies: testCurrencies(), rates: map[string]decimal.Decimal{}}
	uc := NewDefaultRecommendationUsecase(rates, testChangers())

	_, err := uc.Recommend(context.Background(), &recommendationdto.RecommendationInput{
		FromCurrency: "USD", ToCurrency: "EUR", Amount: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
