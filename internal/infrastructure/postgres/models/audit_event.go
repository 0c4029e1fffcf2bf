package models

import "time"

// AuditEventModel - отказы и компенсации расчётов
type AuditEventModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	OwnerID   string `gorm:"index"`
	Operation string `gorm:"not null"`
	Stage     string `gorm:"not null"`
	Kind      string
	Message   string
	Details   string `gorm:"type:jsonb"`
	CreatedAt time.Time
}

func (AuditEventModel) TableName() string {
	return "settlement_audit_events"
}
