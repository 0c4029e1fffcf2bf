package handlers

import (
	"net/http"

	walletResponse "github.com/LavaJover/shvark-wallet-service/internal/delivery/http/dto/wallet/response"
	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase"
)

type PoolHandler struct {
	poolUsecase usecase.PoolUsecase
}

func NewPoolHandler(poolUsecase usecase.PoolUsecase) *PoolHandler {
	return &PoolHandler{poolUsecase: poolUsecase}
}

// POST /pool/init
func (h *PoolHandler) InitPool(w http.ResponseWriter, r *http.Request) {
	pool, err := h.poolUsecase.InitPool(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPoolResponse(pool))
}

// GET /pool
func (h *PoolHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	pool, err := h.poolUsecase.GetPool(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPoolResponse(pool))
}

func toPoolResponse(pool *domain.LiquidityPool) walletResponse.PoolResponse {
	return walletResponse.PoolResponse{
		Success: true,
		ID:      pool.ID,
		Data:    toBalances(pool.Balances),
	}
}
