package mappers

import (
	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/models"
)

func ToDomainBankLink(model *models.BankLinkModel) *domain.BankLink {
	return &domain.BankLink{
		ID:            model.ID,
		OwnerID:       model.OwnerID,
		BankName:      model.BankName,
		AccountNumber: model.AccountNumber,
		HolderName:    model.HolderName,
		Balance:       model.Balance,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMBankLink(link *domain.BankLink) *models.BankLinkModel {
	return &models.BankLinkModel{
		ID:            link.ID,
		OwnerID:       link.OwnerID,
		BankName:      link.BankName,
		AccountNumber: link.AccountNumber,
		HolderName:    link.HolderName,
		Balance:       link.Balance,
		CreatedAt:     link.CreatedAt,
	}
}
