package mappers

import (
	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/models"
)

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:              model.ID,
		OwnerID:         model.OwnerID,
		FromCurrency:    model.FromCurrency,
		ToCurrency:      model.ToCurrency,
		FromAmount:      model.FromAmount,
		ToAmount:        model.ToAmount,
		Rate:            model.Rate,
		DeliveryAddress: model.DeliveryAddress,
		DigitalDelivery: model.DigitalDelivery,
		Status:          domain.TransactionStatus(model.Status),
		Type:            domain.TransactionType(model.Type),
		Delivered:       model.Delivered,
		Confirmed:       model.Confirmed,
		CreatedAt:       model.CreatedAt,
	}
}

func ToGORMTransaction(tx *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:              tx.ID,
		OwnerID:         tx.OwnerID,
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
