package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	KYCStatusPending  = "pending"
	KYCStatusVerified = "verified"
	KYCStatusRejected = "rejected"
)

// Supplier is the marketplace seller identity of a user. It is created the
// first time a user checks out a subscription and is never deleted, only
// status-transitioned.
type Supplier struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CompanyName string         `gorm:"type:varchar(200);default:''" json:"company_name"`
	KYCStatus   string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"kyc_status"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
