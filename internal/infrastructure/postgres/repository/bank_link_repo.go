package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DefaultBankLinkRepository struct {
	DB *gorm.DB
}

func NewDefaultBankLinkRepository(db *gorm.DB) *DefaultBankLinkRepository {
	return &DefaultBankLinkRepository{DB: db}
}

func (r *DefaultBankLinkRepository) CreateBankLink(ctx context.Context, link *domain.BankLink) error {
	model := mappers.ToGORMBankLink(link)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.BankLinkModel{}).
			Where("owner_id = ? AND lower(bank_name) = lower(?)", link.OwnerID, link.BankName).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrBankLinkExists
		}
		if err := tx.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrBankLinkExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return storageErr("create bank link", err)
	}
	link.CreatedAt = model.CreatedAt
	return nil
}

func (r *DefaultBankLinkRepository) GetBankLinkByName(ctx context.Context, ownerID, bankName string) (*domain.BankLink, error) {
	var model models.BankLinkModel
	err := r.DB.WithContext(ctx).
		Where("owner_id = ? AND lower(bank_name) = lower(?)", ownerID, strings.TrimSpace(bankName)).
		First(&model).Error
	if isNotFound(err) {
		return nil, domain.ErrBankLinkNotFound
	}
	if err != nil {
		return nil, storageErr("get bank link", err)
	}
	return mappers.ToDomainBankLink(&model), nil
}

func (r *DefaultBankLinkRepository) GetBankLinksByOwnerID(ctx context.Context, ownerID string) ([]*domain.BankLink, error) {
	var linkModels []models.BankLinkModel
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&linkModels).Error
	if err != nil {
		return nil, storageErr("list bank links", err)
	}

	links := make([]*domain.BankLink, 0, len(linkModels))
	for i := range linkModels {
		links = append(links, mappers.ToDomainBankLink(&linkModels[i]))
	}
	return links, nil
}

func (r *DefaultBankLinkRepository) CreditBankLink(ctx context.Context, linkID string, amount decimal.Decimal) error {
	if err := domain.RequirePositive(amount); err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).
		Model(&models.BankLinkModel{}).
		Where("id = ?", linkID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return storageErr("credit bank link", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrBankLinkNotFound
	}
	return nil
}
