package handlers

import (
	"net/http"

	walletRequest "github.com/LavaJover/shvark-wallet-service/internal/delivery/http/dto/wallet/request"
	walletResponse "github.com/LavaJover/shvark-wallet-service/internal/delivery/http/dto/wallet/response"
	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase"
	walletdto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/wallet"
	settlementdto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/settlement"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase/settlement"
)

type WalletHandler struct {
	walletUsecase     usecase.WalletUsecase
	bankLinkUsecase   usecase.BankLinkUsecase
	ledgerUsecase     usecase.LedgerUsecase
	settlementUsecase settlement.SettlementUsecase
}

func NewWalletHandler(
	walletUsecase usecase.WalletUsecase,
	bankLinkUsecase usecase.BankLinkUsecase,
	ledgerUsecase usecase.LedgerUsecase,
	settlementUsecase settlement.SettlementUsecase,
) *WalletHandler {
	return &WalletHandler{
		walletUsecase:     walletUsecase,
		bankLinkUsecase:   bankLinkUsecase,
		ledgerUsecase:     ledgerUsecase,
		settlementUsecase: settlementUsecase,
	}
}

// POST /wallet
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest.CreateWalletRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	wallet, err := h.walletUsecase.CreateWallet(r.Context(), req.UID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, walletResponse.WalletResponse{
		Success: true,
		UID:     wallet.OwnerID,
		Data:    toBalances(wallet.Balances),
	})
}

// GET /wallet?uid=
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.walletUsecase.GetWallet(r.Context(), r.URL.Query().Get("uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, walletResponse.WalletResponse{
		Success: true,
		UID:     wallet.OwnerID,
		Data:    toBalances(wallet.Balances),
	})
}

// POST /wallet/deposit
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req walletRequest.DepositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	wallet, err := h.walletUsecase.Deposit(r.Context(), &walletdto.DepositInput{
		OwnerID:  req.UID,
		Currency: req.Currency,
		Amount:   *req.Amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, walletResponse.WalletResponse{
		Success: true,
		UID:     wallet.OwnerID,
		Data:    toBalances(wallet.Balances),
	})
}

// POST /wallet/bank
func (h *WalletHandler) LinkBank(w http.ResponseWriter, r *http.Request) {
	var req walletRequest.LinkBankRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	link, err := h.bankLinkUsecase.LinkBankAccount(r.Context(), &walletdto.LinkBankAccountInput{
		OwnerID:       req.UID,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, walletResponse.LinkBankResponse{
		Success: true,
		Message: "Bank account linked successfully",
		Data:    toBankAccount(link),
	})
}

// GET /wallet/banks?uid=
func (h *WalletHandler) ListBanks(w http.ResponseWriter, r *http.Request) {
	links, err := h.bankLinkUsecase.ListBankAccounts(r.Context(), r.URL.Query().Get("uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := make([]walletResponse.BankAccountResponse, 0, len(links))
	for _, link := range links {
		data = append(data, toBankAccount(link))
	}
	writeJSON(w, http.StatusOK, walletResponse.BankAccountsResponse{Success: true, Data: data})
}

// POST /wallet/return
func (h *WalletHandler) ReturnMoney(w http.ResponseWriter, r *http.Request) {
	var req walletRequest.ReturnMoneyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.settlementUsecase.ReturnMoney(r.Context(), &settlementdto.ReturnMoneyInput{
		OwnerID:  req.UID,
		BankName: req.BankName,
		Currency: req.Currency,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, walletResponse.ReturnMoneyResponse{
		Success:         out.Success,
		ConvertedAmount: out.ConvertedAmount,
		Currency:        out.HomeCurrency,
	})
}

// GET /wallet/history?uid=
func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	txs, err := h.ledgerUsecase.History(r.Context(), r.URL.Query().Get("uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := make([]walletResponse.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		data = append(data, toTransaction(tx))
	}
	writeJSON(w, http.StatusOK, walletResponse.HistoryResponse{Success: true, Data: data})
}

func toTransaction(tx *domain.Transaction) walletResponse.TransactionResponse {
	return walletResponse.TransactionResponse{
		ID:              tx.ID,
		FromCurrency:    tx.FromCurrency,
		ToCurrency:      tx.ToCurrency,
		FromAmount:      tx.FromAmount,
		ToAmount:        tx.ToAmount,
		Rate:            tx.Rate,
		DeliveryAddress: tx.DeliveryAddress,
		DigitalDelivery: tx.DigitalDelivery,
		Status:          string(tx.Status),
		Type:            string(tx.Type),
		Delivered:       tx.Delivered,
		Confirmed:       tx.Confirmed,
		CreatedAt:       tx.CreatedAt,
	}
}
