package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PGAuditLogger persists settlement audit events to settlement_audit_events.
type PGAuditLogger struct {
	db *gorm.DB
}

func NewPGAuditLogger(db *gorm.DB) *PGAuditLogger {
	return &PGAuditLogger{db: db}
}

func (l *PGAuditLogger) LogSettlementEvent(ctx context.Context, event domain.AuditEvent) error {
	details, err := json.Marshal(event.Details)
	if err != nil {
		return err
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return l.db.WithContext(ctx).Create(&models.AuditEventModel{
		ID:        uuid.NewString(),
		OwnerID:   event.OwnerID,
		Operation: event.Operation,
		Stage:     event.Stage,
		Kind:      event.Kind,
		Message:   event.Message,
		Details:   string(details),
		CreatedAt: event.CreatedAt,
	}).Error
}

// SlogAuditLogger writes audit events to the structured log only.
// Used with the memory storage driver.
type SlogAuditLogger struct {
	log *slog.Logger
}

func NewSlogAuditLogger(log *slog.Logger) *SlogAuditLogger {
	if log == nil {
		log = slog.Default()
	}
	return &SlogAuditLogger{log: log}
}

func (l *SlogAuditLogger) LogSettlementEvent(ctx context.Context, event domain.AuditEvent) error {
	attrs := []any{
		"audit_id", uuid.NewString(),
		"owner_id", event.OwnerID,
		"operation", event.Operation,
		"stage", event.Stage,
		"kind", event.Kind,
	}
	for k, v := range event.Details {
		attrs = append(attrs, k, v)
	}
	level := slog.LevelWarn
	if event.Stage == domain.AuditStageCompensationFailed {
		level = slog.LevelError
	}
	l.log.Log(ctx, level, "settlement audit: "+event.Message, attrs...)
	return nil
}
