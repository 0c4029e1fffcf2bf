package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	topic string
	msgs  []domain.Message
}

func (c *capturePublisher) Publish(_ context.Context, topic string, msgs ...domain.Message) error {
	c.topic = topic
	c.msgs = append(c.msgs, msgs...)
	return nil
}

func TestTransactionEventPublisher_KeysByOwner(t *testing.T) {
	capture := &capturePublisher{}
	pub := NewTransactionEventPublisher(capture, "wallet-transactions")

	tx := &domain.Transaction{
		ID:           "01HZX3J6W2V7C8F2Q4M9N0P1R2",
		OwnerID:      "user-1",
		FromCurrency: "USD",
		ToCurrency:   "EUR",
		FromAmount:   decimal.RequireFromString("100"),
		ToAmount:     decimal.RequireFromString("92"),
		Rate:         decimal.RequireFromString("0.92"),
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishTransactionCommitted(context.Background(), tx))

	assert.Equal(t, "wallet-transactions", capture.topic)
	require.Len(t, capture.msgs, 1)
	assert.Equal(t, []byte("user-1"), capture.msgs[0].Key)

	var event TransactionEvent
	require.NoError(t, json.Unmarshal(capture.msgs[0].Value, &event))
	assert.Equal(t, EventTransactionCommitted, event.EventType)
	assert.Equal(t, tx.ID, event.TransactionID)
	assert.NotEmpty(t, event.EventID)
	assert.True(t, event.ToAmount.Equal(tx.ToAmount))
}
