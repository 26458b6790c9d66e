package models

import "time"

// AuditLog captures an admin action with before/after snapshots. Written
// fire-and-forget: a failed audit insert never fails the action it records.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActorID    uint      `gorm:"not null;index" json:"actor_id"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity,priority:1" json:"entity_type"`
	EntityID   uint      `gorm:"not null;index:idx_audit_logs_entity,priority:2" json:"entity_id"`
	BeforeJSON string    `gorm:"type:longtext" json:"before_json"`
	AfterJSON  string    `gorm:"type:longtext" json:"after_json"`
	RequestIP  string    `gorm:"type:varchar(45);default:''" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
