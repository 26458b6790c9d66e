package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TicketPaymentPending = "pending"
	TicketPaymentPaid    = "paid"
)

// Ticket is an event ticket order. As with nominations, the billing core only
// flips the payment status on checkout completion.
type Ticket struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	EventName     string         `gorm:"type:varchar(200);not null" json:"event_name"`
	Quantity      int            `gorm:"not null;default:1" json:"quantity"`
	PaymentStatus string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	PaidAt        *time.Time     `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
