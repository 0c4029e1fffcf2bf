package usecase

import (
	"context"
	"sort"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	recommendationdto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/recommendation"
	"github.com/shopspring/decimal"
)

type RecommendationUsecase interface {
	Recommend(ctx context.Context, input *recommendationdto.RecommendationInput) (*recommendationdto.RecommendationOutput, error)
	Currencies(ctx context.Context) (map[string]domain.CurrencyInfo, error)
}

type DefaultRecommendationUsecase struct {
	rates    ExchangeRateService
	changers []domain.MoneyChanger
}

func NewDefaultRecommendationUsecase(rates ExchangeRateService, changers []domain.MoneyChanger) *DefaultRecommendationUsecase {
	return &DefaultRecommendationUsecase{rates: rates, changers: changers}
}

func (uc *DefaultRecommendationUsecase) Currencies(ctx context.Context) (map[string]domain.CurrencyInfo, error) {
	return uc.rates.Currencies(ctx)
}

// Recommend prices amount at every money changer that handles both
// currencies, cheapest rate first.
func (uc *DefaultRecommendationUsecase) Recommend(ctx context.Context, input *recommendationdto.RecommendationInput) (*recommendationdto.RecommendationOutput, error) {
	from := domain.NormalizeCurrency(input.FromCurrency)
	to := domain.NormalizeCurrency(input.ToCurrency)
	if err := domain.RequirePositive(input.Amount); err != nil {
		return nil, err
	}

	supported, err := uc.rates.Currencies(ctx)
	if err != nil {
		return nil, err
	}
	fromInfo, ok := supported[from]
	if !ok {
		return nil, domain.Errorf(domain.ErrValidation, "unsupported currency %q", from)
	}
	toInfo, ok := supported[to]
	if !ok {
		return nil, domain.Errorf(domain.ErrValidation, "unsupported currency %q", to)
	}

	baseRate, err := uc.rates.Rate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	digits := toInfo.DecimalDigits
	hundred := decimal.NewFromInt(100)
	quotes := make([]recommendationdto.ChangerQuote, 0, len(uc.changers))
	for _, changer := range uc.changers {
		if !changer.Supports(from) || !changer.Supports(to) {
			continue
		}
		rate := baseRate.Mul(decimal.NewFromInt(1).Add(changer.MarkupPercent.Div(hundred)))
		quotes = append(quotes, recommendationdto.ChangerQuote{
			ID:              changer.ID,
			Name:            changer.Name,
			Location:        changer.Location,
			Rating:          changer.Rating,
			MarkupPercent:   changer.MarkupPercent,
			OperatingHours:  changer.OperatingHours,
			Rate:            rate.Round(digits),
			ConvertedAmount: input.Amount.Mul(rate).Round(digits),
		})
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Rate.LessThan(quotes[j].Rate)
	})

	if len(quotes) > 0 {
		highest := quotes[0].ConvertedAmount
		for _, q := range quotes[1:] {
			highest = decimal.Max(highest, q.ConvertedAmount)
		}
		for i := range quotes {
			quotes[i].SavingsVsHighest = highest.Sub(quotes[i].ConvertedAmount).Round(digits)
		}
	}

	return &recommendationdto.RecommendationOutput{
		FromCurrency: from,
		FromSymbol:   fromInfo.Symbol,
		ToCurrency:   to,
		ToSymbol:     toInfo.Symbol,
		Amount:       input.Amount,
		BaseRate:     baseRate,
		Changers:     quotes,
	}, nil
}
