package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
)

type TransactionType string

const (
	TransactionTypeExchange TransactionType = "EXCHANGE"
)

// Transaction is an immutable ledger record of one committed conversion.
type Transaction struct {
	ID              string
	OwnerID         string
	FromCurrency    string
	ToCurrency      string
	FromAmount      decimal.Decimal
	ToAmount        decimal.Decimal
	Rate            decimal.Decimal
	DeliveryAddress *string
	DigitalDelivery bool
	Status          TransactionStatus
	Type            TransactionType
	Delivered       bool
	Confirmed       bool
	CreatedAt       time.Time
}

type TransactionRepository interface {
	AppendTransaction(ctx context.Context, tx *Transaction) error
	// GetTransactionsByOwnerID returns records in storage order.
	GetTransactionsByOwnerID(ctx context.Context, ownerID string) ([]*Transaction, error)
}
