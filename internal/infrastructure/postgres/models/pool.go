package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PoolModel struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PoolModel) TableName() string {
	return "liquidity_pools"
}

type PoolBalanceModel struct {
	Currency  string          `gorm:"primaryKey;size:3"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	UpdatedAt time.Time
}

func (PoolBalanceModel) TableName() string {
	return "pool_balances"
}
