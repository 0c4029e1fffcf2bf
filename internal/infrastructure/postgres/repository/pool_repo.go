package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PoolID is the id of the single liquidity pool row.
const PoolID = "main"

type DefaultPoolRepository struct {
	DB *gorm.DB
}

func NewDefaultPoolRepository(db *gorm.DB) *DefaultPoolRepository {
	return &DefaultPoolRepository{DB: db}
}

func (r *DefaultPoolRepository) InitPool(ctx context.Context, reserve map[string]decimal.Decimal) (*domain.LiquidityPool, error) {
	currencies := make([]string, 0, len(reserve))
	amounts := make(map[string]decimal.Decimal, len(reserve))
	for currency, amount := range reserve {
		code := domain.NormalizeCurrency(currency)
		if _, ok := amounts[code]; !ok {
			currencies = append(currencies, code)
		}
		amounts[code] = amounts[code].Add(amount)
	}
	sort.Strings(currencies)

	pool := &models.PoolModel{ID: PoolID}
	balances := make([]models.PoolBalanceModel, 0, len(currencies))
	for _, code := range currencies {
		balances = append(balances, models.PoolBalanceModel{Currency: code, Amount: amounts[code]})
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PoolModel{}).Where("id = ?", PoolID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrPoolExists
		}
		if err := tx.Create(pool).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrPoolExists
			}
			return err
		}
		if len(balances) == 0 {
			return nil
		}
		return tx.Create(&balances).Error
	})
	if err != nil {
		return nil, storageErr("init pool", err)
	}
	return mappers.ToDomainPool(pool, balances), nil
}

func (r *DefaultPoolRepository) GetPool(ctx context.Context) (*domain.LiquidityPool, error) {
	var pool models.PoolModel
	var balances []models.PoolBalanceModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&pool, "id = ?", PoolID).Error; err != nil {
			if isNotFound(err) {
				return domain.ErrPoolNotFound
			}
			return err
		}
		return tx.Order("currency ASC").Find(&balances).Error
	})
	if err != nil {
		return nil, storageErr("get pool", err)
	}
	return mappers.ToDomainPool(&pool, balances), nil
}

func (r *DefaultPoolRepository) Balance(ctx context.Context, currency string) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := poolExists(tx, false); err != nil {
			return err
		}
		var err error
		amount, err = readPoolBalance(tx, domain.NormalizeCurrency(currency))
		return err
	})
	if err != nil {
		return decimal.Zero, storageErr("pool balance", err)
	}
	return amount, nil
}

func (r *DefaultPoolRepository) Credit(ctx context.Context, currency string, amount decimal.Decimal) error {
	if err := domain.RequirePositive(amount); err != nil {
		return err
	}
	currency = domain.NormalizeCurrency(currency)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := poolExists(tx, true); err != nil {
			return err
		}
		now := time.Now()
		if err := creditPoolSlot(tx, currency, amount, now); err != nil {
			return err
		}
		return touchPool(tx, now)
	})
	return storageErr("credit pool", err)
}

func (r *DefaultPoolRepository) Debit(ctx context.Context, currency string, amount decimal.Decimal) error {
	if err := domain.RequirePositive(amount); err != nil {
		return err
	}
	currency = domain.NormalizeCurrency(currency)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := poolExists(tx, true); err != nil {
			return err
		}
		now := time.Now()
		if err := debitPoolSlot(tx, currency, amount, now); err != nil {
			return err
		}
		return touchPool(tx, now)
	})
	return storageErr("debit pool", err)
}

// Swap runs under the pool row lock; a short out slot rolls back the credit.
func (r *DefaultPoolRepository) Swap(ctx context.Context, inCurrency string, inAmount decimal.Decimal, outCurrency string, outAmount decimal.Decimal) error {
	if err := domain.RequirePositive(inAmount); err != nil {
		return err
	}
	if err := domain.RequirePositive(outAmount); err != nil {
		return err
	}
	inCurrency = domain.NormalizeCurrency(inCurrency)
	outCurrency = domain.NormalizeCurrency(outCurrency)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := poolExists(tx, true); err != nil {
			return err
		}
		now := time.Now()
		if err := creditPoolSlot(tx, inCurrency, inAmount, now); err != nil {
			return err
		}
		if err := debitPoolSlot(tx, outCurrency, outAmount, now); err != nil {
			return err
		}
		return touchPool(tx, now)
	})
	return storageErr("swap pool", err)
}

func creditPoolSlot(tx *gorm.DB, currency string, amount decimal.Decimal, now time.Time) error {
	slot := models.PoolBalanceModel{Currency: currency, Amount: amount}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "currency"}},
		DoUpdates: clause.Assignments(map[string]any{
			"amount":     gorm.Expr("pool_balances.amount + EXCLUDED.amount"),
			"updated_at": now,
		}),
	}).Create(&slot).Error
}

func debitPoolSlot(tx *gorm.DB, currency string, amount decimal.Decimal, now time.Time) error {
	res := tx.Model(&models.PoolBalanceModel{}).
		Where("currency = ? AND amount >= ?", currency, amount).
		Updates(map[string]any{
			"amount":     gorm.Expr("amount - ?", amount),
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		have, err := readPoolBalance(tx, currency)
		if err != nil {
			return err
		}
		return domain.Errorf(domain.ErrInsufficientFunds, "insufficient %s liquidity in pool: have %s, need %s", currency, have, amount)
	}
	return nil
}

func poolExists(tx *gorm.DB, lock bool) error {
	q := tx.Model(&models.PoolModel{}).Select("id")
	if lock {
		q = q.Clauses(forUpdate)
	}
	var pool models.PoolModel
	err := q.First(&pool, "id = ?", PoolID).Error
	if isNotFound(err) {
		return domain.ErrPoolNotFound
	}
	return err
}

func readPoolBalance(tx *gorm.DB, currency string) (decimal.Decimal, error) {
	var slot models.PoolBalanceModel
	err := tx.Take(&slot, "currency = ?", currency).Error
	if isNotFound(err) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return slot.Amount, nil
}

func touchPool(tx *gorm.DB, now time.Time) error {
	return tx.Model(&models.PoolModel{}).Where("id = ?", PoolID).Update("updated_at", now).Error
}
