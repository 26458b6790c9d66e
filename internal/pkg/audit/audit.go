package audit

import (
	"encoding/json"
	"log"

	"github.com/VeluraLiving/Velura/app/models"
	"gorm.io/gorm"
)

// Entry describes one admin action with before/after snapshots of the
// touched entity. Snapshots may be any JSON-marshalable value.
type Entry struct {
	ActorID    uint
	Action     string
	EntityType string
	EntityID   uint
	Before     interface{}
	After      interface{}
	RequestIP  string
}

// Record writes an audit row. Audit is observability, not correctness: the
// moderation decision must stand even when this insert fails, so failures are
// logged and swallowed.
func Record(db *gorm.DB, entry Entry) {
	row := &models.AuditLog{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		BeforeJSON: marshalSnapshot(entry.Before),
		AfterJSON:  marshalSnapshot(entry.After),
		RequestIP:  entry.RequestIP,
	}
	if err := db.Create(row).Error; err != nil {
		log.Printf("audit: failed to record %s on %s/%d: %v", entry.Action, entry.EntityType, entry.EntityID, err)
	}
}

func marshalSnapshot(v interface{}) string {
	if v == nil {
		return ""
	}
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("audit: failed to marshal snapshot: %v", err)
		return ""
	}
	return string(raw)
}
