package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestSlogAuditLogger_CompensationFailureIsError(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	audit := NewSlogAuditLogger(log)

	err := audit.LogSettlementEvent(context.Background(), domain.AuditEvent{
		OwnerID:   "u1",
		Operation: "exchange",
		Stage:     domain.AuditStageCompensationFailed,
		Message:   "wallet refund failed",
		Details:   map[string]string{"currency": "USD"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "owner_id=u1")
	assert.Contains(t, out, "currency=USD")
}
