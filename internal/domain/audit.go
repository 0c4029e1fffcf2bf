package domain

import (
	"context"
	"time"
)

// Audit stages.
const (
	AuditStageRejected           = "REJECTED"
	AuditStageCompensated        = "COMPENSATED"
	AuditStageCompensationFailed = "COMPENSATION_FAILED"
)

// AuditEvent records a refused or rolled back settlement step.
type AuditEvent struct {
	OwnerID   string
	Operation string
	Stage     string
	Kind      string
	Message   string
	Details   map[string]string
	CreatedAt time.Time
}

type AuditLogger interface {
	LogSettlementEvent(ctx context.Context, event AuditEvent) error
}
