package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionModel - запись журнала обменов, только вставка
type TransactionModel struct {
	ID              string          `gorm:"primaryKey;size:26"`
	OwnerID         string          `gorm:"not null;index"`
	FromCurrency    string          `gorm:"size:3;not null"`
	ToCurrency      string          `gorm:"size:3;not null"`
	FromAmount      decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	ToAmount        decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Rate            decimal.Decimal `gorm:"type:numeric(24,12);not null"`
	DeliveryAddress *string
	DigitalDelivery bool
	Status          string `gorm:"not null"`
	Type            string `gorm:"not null"`
	Delivered       bool
	Confirmed       bool
	CreatedAt       time.Time `gorm:"index"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}
