package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EventTransactionCommitted = "transaction.committed"

type TransactionEvent struct {
	EventID         string          `json:"event_id"`
	EventType       string          `json:"event_type"`
	TransactionID   string          `json:"transaction_id"`
	OwnerID         string          `json:"owner_id"`
	FromCurrency    string          `json:"from_currency"`
	ToCurrency      string          `json:"to_currency"`
	FromAmount      decimal.Decimal `json:"from_amount"`
	ToAmount        decimal.Decimal `json:"to_amount"`
	Rate            decimal.Decimal `json:"rate"`
	DigitalDelivery bool            `json:"digital_delivery"`
	Delivered       bool            `json:"delivered"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

func NewTransactionEvent(tx *domain.Transaction) TransactionEvent {
	return TransactionEvent{
		EventID:         uuid.NewString(),
		EventType:       EventTransactionCommitted,
		TransactionID:   tx.ID,
		OwnerID:         tx.OwnerID,
		FromCurrency:    tx.FromCurrency,
		ToCurrency:      tx.ToCurrency,
		FromAmount:      tx.FromAmount,
		ToAmount:        tx.ToAmount,
		Rate:            tx.Rate,
		DigitalDelivery: tx.DigitalDelivery,
		Delivered:       tx.Delivered,
		OccurredAt:      tx.CreatedAt,
	}
}

// TransactionEventPublisher keys events by owner so one owner's events stay ordered.
type TransactionEventPublisher struct {
	pub   domain.PublisherPort
	topic string
}

func NewTransactionEventPublisher(pub domain.PublisherPort, topic string) *TransactionEventPublisher {
	return &TransactionEventPublisher{pub: pub, topic: topic}
}

func (p *TransactionEventPublisher) PublishTransactionCommitted(ctx context.Context, tx *domain.Transaction) error {
	v, err := json.Marshal(NewTransactionEvent(tx))
	if err != nil {
		return err
	}
	return p.pub.Publish(ctx, p.topic, domain.Message{Key: []byte(tx.OwnerID), Value: v})
}
