package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	walletdto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/wallet"
	"github.com/shopspring/decimal"
)

type WalletUsecase interface {
	CreateWallet(ctx context.Context, ownerID string) (*domain.Wallet, error)
	GetWallet(ctx context.Context, ownerID string) (*domain.Wallet, error)
	GetBalance(ctx context.Context, ownerID, currency string) (decimal.Decimal, error)
	Deposit(ctx context.Context, input *walletdto.DepositInput) (*domain.Wallet, error)
}

type DefaultWalletUsecase struct {
	walletRepo        domain.WalletRepository
	locks             *OwnerLocks
	starterCurrencies []string
}

func NewDefaultWalletUsecase(walletRepo domain.WalletRepository, locks *OwnerLocks, starterCurrencies []string) *DefaultWalletUsecase {
	return &DefaultWalletUsecase{
		walletRepo:        walletRepo,
		locks:             locks,
		starterCurrencies: starterCurrencies,
	}
}

func (uc *DefaultWalletUsecase) CreateWallet(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return nil, err
	}
	wallet, err := uc.walletRepo.CreateWallet(ctx, ownerID, uc.starterCurrencies)
	if err != nil {
		return nil, err
	}
	slog.Info("wallet created", "owner_id", ownerID, "currencies", len(wallet.Balances))
	return wallet, nil
}

func (uc *DefaultWalletUsecase) GetWallet(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return uc.walletRepo.GetWallet(ctx, ownerID)
}

func (uc *DefaultWalletUsecase) GetBalance(ctx context.Context, ownerID, currency string) (decimal.Decimal, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	currency = domain.NormalizeCurrency(currency)
	if err := domain.ValidateCurrency(currency); err != nil {
		return decimal.Zero, err
	}
	return uc.walletRepo.Balance(ctx, ownerID, currency)
}

// Deposit credits a wallet slot. It is a funding path, not a conversion,
// so nothing is written to the ledger.
func (uc *DefaultWalletUsecase) Deposit(ctx context.Context, input *walletdto.DepositInput) (*domain.Wallet, error) {
	ownerID, err := requireOwner(input.OwnerID)
	if err != nil {
		return nil, err
	}
	currency := domain.NormalizeCurrency(input.Currency)
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	if err := domain.RequirePositive(input.Amount); err != nil {
		return nil, err
	}

	unlock := uc.locks.Lock(ownerID)
	defer unlock()

	if err := uc.walletRepo.Credit(ctx, ownerID, currency, input.Amount); err != nil {
		return nil, err
	}
	slog.Info("wallet deposit", "owner_id", ownerID, "currency", currency, "amount", input.Amount.String())
	return uc.walletRepo.GetWallet(ctx, ownerID)
}

func requireOwner(ownerID string) (string, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", domain.Errorf(domain.ErrValidation, "uid is required")
	}
	return ownerID, nil
}
