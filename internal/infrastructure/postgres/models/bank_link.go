package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BankLinkModel struct {
	ID            string          `gorm:"primaryKey"`
	OwnerID       string          `gorm:"not null;index"`
	BankName      string          `gorm:"not null"`
	AccountNumber string          `gorm:"not null"`
	HolderName    string          `gorm:"not null"`
	Balance       decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	CreatedAt     time.Time
}

func (BankLinkModel) TableName() string {
	return "bank_links"
}
