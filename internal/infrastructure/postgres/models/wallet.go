package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletModel struct {
	OwnerID   string               `gorm:"primaryKey"`
	Balances  []WalletBalanceModel `gorm:"foreignKey:OwnerID;references:OwnerID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WalletModel) TableName() string {
	return "wallets"
}

// WalletBalanceModel - один слот валюты в кошельке
type WalletBalanceModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OwnerID   string          `gorm:"not null;uniqueIndex:ux_wallet_balance"`
	Currency  string          `gorm:"size:3;not null;uniqueIndex:ux_wallet_balance"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WalletBalanceModel) TableName() string {
	return "wallet_balances"
}
