package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NominationPaymentPending = "pending"
	NominationPaymentPaid    = "paid"
)

// Nomination is an award nomination submitted by a user. Only its payment
// status is touched by the billing core (flipped to paid on checkout
// completion); the remaining lifecycle belongs to the awards CRUD layer.
type Nomination struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	AwardName     string         `gorm:"type:varchar(200);not null" json:"award_name"`
	Nominee       string         `gorm:"type:varchar(200);not null" json:"nominee"`
	PaymentStatus string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	PaidAt        *time.Time     `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
