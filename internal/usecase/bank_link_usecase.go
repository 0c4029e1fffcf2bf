package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	walletdto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/wallet"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

type BankLinkUsecase interface {
	LinkBankAccount(ctx context.Context, input *walletdto.LinkBankAccountInput) (*domain.BankLink, error)
	ListBankAccounts(ctx context.Context, ownerID string) ([]*domain.BankLink, error)
}

type DefaultBankLinkUsecase struct {
	bankLinkRepo domain.BankLinkRepository
	walletRepo   domain.WalletRepository
	newID        func() string
}

func NewDefaultBankLinkUsecase(bankLinkRepo domain.BankLinkRepository, walletRepo domain.WalletRepository) (*DefaultBankLinkUsecase, error) {
	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("bank link id generator: %w", err)
	}
	return &DefaultBankLinkUsecase{
		bankLinkRepo: bankLinkRepo,
		walletRepo:   walletRepo,
		newID:        idGenerator,
	}, nil
}

func (uc *DefaultBankLinkUsecase) LinkBankAccount(ctx context.Context, input *walletdto.LinkBankAccountInput) (*domain.BankLink, error) {
	ownerID, err := requireOwner(input.OwnerID)
	if err != nil {
		return nil, err
	}
	bankName := strings.TrimSpace(input.BankName)
	accountNumber := strings.TrimSpace(input.AccountNumber)
	holderName := strings.TrimSpace(input.HolderName)
	switch {
	case bankName == "":
		return nil, domain.Errorf(domain.ErrValidation, "bankName is required")
	case accountNumber == "":
		return nil, domain.Errorf(domain.ErrValidation, "accountNumber is required")
	case holderName == "":
		return nil, domain.Errorf(domain.ErrValidation, "holderName is required")
	}

	if _, err := uc.walletRepo.GetWallet(ctx, ownerID); err != nil {
		return nil, err
	}

	link := &domain.BankLink{
		ID:            uc.newID(),
		OwnerID:       ownerID,
		BankName:      bankName,
		AccountNumber: accountNumber,
		HolderName:    holderName,
		Balance:       decimal.Zero,
	}
	if err := uc.bankLinkRepo.CreateBankLink(ctx, link); err != nil {
		return nil, err
	}
	slog.Info("bank account linked", "owner_id", ownerID, "bank_link_id", link.ID, "bank_name", bankName)
	return link, nil
}

func (uc *DefaultBankLinkUsecase) ListBankAccounts(ctx context.Context, ownerID string) ([]*domain.BankLink, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return uc.bankLinkRepo.GetBankLinksByOwnerID(ctx, ownerID)
}
