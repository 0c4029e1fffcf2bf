package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultWalletRepository struct {
	DB *gorm.DB
}

func NewDefaultWalletRepository(db *gorm.DB) *DefaultWalletRepository {
	return &DefaultWalletRepository{DB: db}
}

func (r *DefaultWalletRepository) CreateWallet(ctx context.Context, ownerID string, currencies []string) (*domain.Wallet, error) {
	model := &models.WalletModel{OwnerID: ownerID}
	seen := make(map[string]bool, len(currencies))
	for _, currency := range currencies {
		currency = domain.NormalizeCurrency(currency)
		if seen[currency] {
			continue
		}
		seen[currency] = true
		model.Balances = append(model.Balances, models.WalletBalanceModel{
			OwnerID:  ownerID,
			Currency: currency,
			Amount:   decimal.Zero,
		})
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.WalletModel{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrWalletExists
		}
		if err := tx.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrWalletExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("create wallet", err)
	}
	return mappers.ToDomainWallet(model), nil
}

func (r *DefaultWalletRepository) GetWallet(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	var wallet models.WalletModel
	err := r.DB.WithContext(ctx).
		Preload("Balances", func(db *gorm.DB) *gorm.DB {
			return db.Order("wallet_balances.id ASC")
		}).
		First(&wallet, "owner_id = ?", ownerID).Error
	if isNotFound(err) {
		return nil, domain.ErrWalletNotFound
	}
	if err != nil {
		return nil, storageErr("get wallet", err)
	}
	return mappers.ToDomainWallet(&wallet), nil
}

func (r *DefaultWalletRepository) Balance(ctx context.Context, ownerID, currency string) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := walletExists(tx, ownerID, false); err != nil {
			return err
		}
		var err error
		amount, err = readWalletBalance(tx, ownerID, domain.NormalizeCurrency(currency), false)
		return err
	})
	if err != nil {
		return decimal.Zero, storageErr("wallet balance", err)
	}
	return amount, nil
}

func (r *DefaultWalletRepository) Credit(ctx context.Context, ownerID, currency string, amount decimal.Decimal) error {
	if err := domain.RequirePositive(amount); err != nil {
		return err
	}
	currency = domain.NormalizeCurrency(currency)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := walletExists(tx, ownerID, true); err != nil {
			return err
		}
		now := time.Now()
		slot := models.WalletBalanceModel{OwnerID: ownerID, Currency: currency, Amount: amount}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}, {Name: "currency"}},
			DoUpdates: clause.Assignments(map[string]any{
				"amount":     gorm.Expr("wallet_balances.amount + EXCLUDED.amount"),
				"updated_at": now,
			}),
		}).Create(&slot).Error
		if err != nil {
			return err
		}
		return touchWallet(tx, ownerID, now)
	})
	return storageErr("credit wallet", err)
}

func (r *DefaultWalletRepository) Debit(ctx context.Context, ownerID, currency string, amount decimal.Decimal) error {
	if err := domain.RequirePositive(amount); err != nil {
		return err
	}
	currency = domain.NormalizeCurrency(currency)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := walletExists(tx, ownerID, true); err != nil {
			return err
		}
		now := time.Now()
		res := tx.Model(&models.WalletBalanceModel{}).
			Where("owner_id = ? AND currency = ? AND amount >= ?", ownerID, currency, amount).
			Updates(map[string]any{
				"amount":     gorm.Expr("amount - ?", amount),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			have, err := readWalletBalance(tx, ownerID, currency, false)
			if err != nil {
				return err
			}
			return domain.Errorf(domain.ErrInsufficientFunds, "insufficient %s balance: have %s, need %s", currency, have, amount)
		}
		return touchWallet(tx, ownerID, now)
	})
	return storageErr("debit wallet", err)
}

func (r *DefaultWalletRepository) Drain(ctx context.Context, ownerID, currency string) (decimal.Decimal, error) {
	currency = domain.NormalizeCurrency(currency)

	var drained decimal.Decimal
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := walletExists(tx, ownerID, true); err != nil {
			return err
		}
		amount, err := readWalletBalance(tx, ownerID, currency, true)
		if err != nil {
			return err
		}
		if !amount.IsPositive() {
			drained = decimal.Zero
			return nil
		}
		now := time.Now()
		err = tx.Model(&models.WalletBalanceModel{}).
			Where("owner_id = ? AND currency = ?", ownerID, currency).
			Updates(map[string]any{"amount": decimal.Zero, "updated_at": now}).Error
		if err != nil {
			return err
		}
		drained = amount
		return touchWallet(tx, ownerID, now)
	})
	if err != nil {
		return decimal.Zero, storageErr("drain wallet", err)
	}
	return drained, nil
}

// walletExists optionally takes the wallet row lock for the rest of tx.
func walletExists(tx *gorm.DB, ownerID string, lock bool) error {
	q := tx.Model(&models.WalletModel{}).Select("owner_id")
	if lock {
		q = q.Clauses(forUpdate)
	}
	var wallet models.WalletModel
	err := q.First(&wallet, "owner_id = ?", ownerID).Error
	if isNotFound(err) {
		return domain.ErrWalletNotFound
	}
	return err
}

// readWalletBalance reads an absent slot as zero.
func readWalletBalance(tx *gorm.DB, ownerID, currency string, lock bool) (decimal.Decimal, error) {
	q := tx.Model(&models.WalletBalanceModel{})
	if lock {
		q = q.Clauses(forUpdate)
	}
	var slot models.WalletBalanceModel
	err := q.Take(&slot, "owner_id = ? AND currency = ?", ownerID, currency).Error
	if isNotFound(err) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return slot.Amount, nil
}

func touchWallet(tx *gorm.DB, ownerID string, now time.Time) error {
	return tx.Model(&models.WalletModel{}).Where("owner_id = ?", ownerID).Update("updated_at", now).Error
}
