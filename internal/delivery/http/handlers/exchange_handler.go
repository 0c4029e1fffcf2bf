package handlers

import (
	"net/http"

	walletRequest "github.com/LavaJover/shvark-wallet-service/internal/delivery/http/dto/wallet/request"
	walletResponse "github.com/LavaJover/shvark-wallet-service/internal/delivery/http/dto/wallet/response"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase"
	exchangedto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/exchange"
	recommendationdto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/recommendation"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase/exchange"
)

type ExchangeHandler struct {
	exchangeUsecase       exchange.ExchangeUsecase
	recommendationUsecase usecase.RecommendationUsecase
}

func NewExchangeHandler(
	exchangeUsecase exchange.ExchangeUsecase,
	recommendationUsecase usecase.RecommendationUsecase,
) *ExchangeHandler {
	return &ExchangeHandler{
		exchangeUsecase:       exchangeUsecase,
		recommendationUsecase: recommendationUsecase,
	}
}

// POST /exchange
// Without confirm the response is a quote and nothing is mutated.
func (h *ExchangeHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	var req walletRequest.ExchangeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.exchangeUsecase.Exchange(r.Context(), &exchangedto.ExchangeInput{
		OwnerID:         req.UID,
		FromCurrency:    req.FromCurrency,
		ToCurrency:      req.ToCurrency,
		Amount:          *req.Amount,
		Confirm:         req.Confirm,
		DeliveryAddress: req.Delivery,
		DigitalDelivery: *req.ToDigital,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if out.Commit != nil {
		writeJSON(w, http.StatusOK, walletResponse.CommitResponse{
			Success:       out.Commit.Success,
			Message:       out.Commit.Message,
			TransactionID: out.Commit.TransactionID,
		})
		return
	}
	q := out.Quote
	writeJSON(w, http.StatusOK, walletResponse.QuoteResponse{
		Success:         true,
		FromCurrency:    q.FromCurrency,
		ToCurrency:      q.ToCurrency,
		Rate:            q.Rate,
		FromAmount:      q.FromAmount,
		ToAmount:        q.ToAmount,
		Delivery:        q.Delivery,
		DigitalDelivery: q.DigitalDelivery,
	})
}

// POST /exchange/recommendation
func (h *ExchangeHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req walletRequest.RecommendationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.recommendationUsecase.Recommend(r.Context(), &recommendationdto.RecommendationInput{
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		Amount:       *req.Amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := make([]walletResponse.ChangerRateResponse, 0, len(out.Changers))
	for _, c := range out.Changers {
		data = append(data, walletResponse.ChangerRateResponse{
			ID:               c.ID,
			MoneyChanger:     c.Name,
			Location:         c.Location,
			Rating:           c.Rating,
			MarkupPercentage: c.MarkupPercent,
			OperatingHours:   c.OperatingHours,
			Rate:             c.Rate,
			ConvertedAmount:  c.ConvertedAmount,
			SavingsVsHighest: c.SavingsVsHighest,
		})
	}
	message := "Exchange rates retrieved successfully"
	if len(data) == 0 {
		message = "No money changers support this currency pair"
	}
	writeJSON(w, http.StatusOK, walletResponse.RecommendationResponse{
		Success:      true,
		Message:      message,
		FromCurrency: out.FromCurrency,
		FromSymbol:   out.FromSymbol,
		ToCurrency:   out.ToCurrency,
		ToSymbol:     out.ToSymbol,
		Amount:       out.Amount,
		BaseRate:     out.BaseRate,
		Data:         data,
	})
}

// GET /currencies
func (h *ExchangeHandler) Currencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.recommendationUsecase.Currencies(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := make(map[string]walletResponse.CurrencyResponse, len(currencies))
	for code, info := range currencies {
		data[code] = walletResponse.CurrencyResponse{
			Code:          info.Code,
			Name:          info.Name,
			NamePlural:    info.NamePlural,
			Symbol:        info.Symbol,
			SymbolNative:  info.SymbolNative,
			DecimalDigits: info.DecimalDigits,
		}
	}
	writeJSON(w, http.StatusOK, walletResponse.CurrenciesResponse{Success: true, Data: data})
}
