package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	walletResponse "github.com/LavaJover/shvark-wallet-service/internal/delivery/http/dto/wallet/response"
	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

func init() {
	// amounts and rates go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type validator interface {
	Validate() error
}

// decodeJSON reads exactly one JSON object into dst, rejecting unknown
// fields, and then checks dst's required fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst validator) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Errorf(domain.ErrValidation, "request body is empty")
		}
		return domain.Errorf(domain.ErrValidation, "invalid request body: %v", err)
	}
	if dec.More() {
		return domain.Errorf(domain.ErrValidation, "request body must contain a single JSON object")
	}
	return dst.Validate()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// statusFor maps an error kind to its HTTP status and public name.
func statusFor(err error) (int, string) {
	switch domain.Kind(err) {
	case domain.ErrValidation:
		return http.StatusBadRequest, "ValidationError"
	case domain.ErrInsufficientFunds:
		return http.StatusBadRequest, "InsufficientFunds"
	case domain.ErrConflict:
		return http.StatusBadRequest, "ConflictError"
	case domain.ErrNotFound:
		return http.StatusNotFound, "NotFoundError"
	case domain.ErrUpstream:
		return http.StatusBadGateway, "UpstreamError"
	default:
		return http.StatusInternalServerError, "InternalError"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, name := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal server error"
	}
	writeJSON(w, status, walletResponse.ErrorResponse{
		Success: false,
		Message: message,
		Error:   name,
	})
}

func toBalances(balances []domain.Balance) []walletResponse.BalanceResponse {
	out := make([]walletResponse.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, walletResponse.BalanceResponse{Currency: b.Currency, Amount: b.Amount})
	}
	return out
}

func toBankAccount(link *domain.BankLink) walletResponse.BankAccountResponse {
	return walletResponse.BankAccountResponse{
		ID:            link.ID,
		BankName:      link.BankName,
		AccountNumber: link.AccountNumber,
		HolderName:    link.HolderName,
		Balance:       link.Balance,
		CreatedAt:     link.CreatedAt,
	}
}
